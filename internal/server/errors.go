package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/memora-care/memora/internal/transfer"
)

const (
	codeUnauthorized = "unauthorized"
	codeInvalidBody  = "invalid_body"
	codeInternal     = "internal_error"
	codeNotFound     = "not_found"
	codeNotAllowed   = "method_not_allowed"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errorCodes is checked in order; the first sentinel the error wraps wins.
var errorCodes = []struct {
	err  error
	code string
}{
	{transfer.ErrMissingFields, "missing_fields"},
	{transfer.ErrInvalidEmail, "invalid_email"},
	{transfer.ErrInvalidAction, "invalid_action"},
	{transfer.ErrSelfTransfer, "self_transfer"},
	{transfer.ErrPatientNotFound, "patient_not_found"},
	{transfer.ErrRecipientNotFound, "recipient_not_found"},
	{transfer.ErrTransferNotFound, "transfer_not_found"},
	{transfer.ErrPatientDataUnavailable, "patient_data_unavailable"},
	{transfer.ErrNotReceiver, "not_receiver"},
	{transfer.ErrNotSender, "not_sender"},
	{transfer.ErrBriefingUnavailable, "briefing_unavailable"},
	{transfer.ErrPendingTransferExists, "pending_transfer_exists"},
	{transfer.ErrNotPending, "transfer_not_pending"},
	{transfer.ErrPatientUnavailable, "patient_unavailable"},
	{transfer.ErrTransferExpired, "transfer_expired"},
}

var kindStatuses = []struct {
	kind   error
	status int
	code   string
}{
	{transfer.ErrValidation, http.StatusBadRequest, "validation_error"},
	{transfer.ErrNotFound, http.StatusNotFound, "not_found"},
	{transfer.ErrForbidden, http.StatusForbidden, "forbidden"},
	{transfer.ErrConflict, http.StatusConflict, "conflict"},
	{transfer.ErrGone, http.StatusGone, "gone"},
}

// mapError turns a coordinator error into an HTTP status, a machine-readable
// code and the message shown to the client. Anything that is not a domain
// error is reported as a 500 without details.
func mapError(err error) (int, string, string) {
	for _, k := range kindStatuses {
		if !errors.Is(err, k.kind) {
			continue
		}
		code := k.code
		for _, c := range errorCodes {
			if errors.Is(err, c.err) {
				code = c.code
				break
			}
		}
		return k.status, code, err.Error()
	}
	return http.StatusInternalServerError, codeInternal, "Internal server error"
}

func (s *Server) writeCoordinatorError(w http.ResponseWriter, op string, err error) {
	status, code, msg := mapError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	}
	respondError(w, status, code, msg)
}
