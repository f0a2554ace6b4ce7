package transfer

import (
	"errors"
	"fmt"
)

// Error kinds. Every coordinator error wraps exactly one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrGone       = errors.New("gone")
)

var (
	ErrMissingFields = newError(ErrValidation, "patient ID and recipient email are required")
	ErrInvalidEmail  = newError(ErrValidation, "invalid email format")
	ErrInvalidAction = newError(ErrValidation, `invalid action, must be "accept" or "reject"`)
	ErrSelfTransfer  = newError(ErrValidation, "you cannot transfer a patient to yourself")

	ErrPatientNotFound        = newError(ErrNotFound, "patient not found or you do not have permission")
	ErrRecipientNotFound      = newError(ErrNotFound, "no caregiver found with that email, they must register on Memora first")
	ErrTransferNotFound       = newError(ErrNotFound, "transfer not found")
	ErrPatientDataUnavailable = newError(ErrNotFound, "patient data no longer available")

	ErrNotReceiver         = newError(ErrForbidden, "only the receiving caregiver can act on this transfer")
	ErrNotSender           = newError(ErrForbidden, "only the sending caregiver can cancel this transfer")
	ErrBriefingUnavailable = newError(ErrForbidden, "briefing is not available for this transfer")

	ErrPendingTransferExists = newError(ErrConflict, "this patient already has a pending transfer, cancel it first before initiating a new one")
	ErrNotPending            = newError(ErrConflict, "transfer is no longer pending")
	ErrPatientUnavailable    = newError(ErrConflict, "this patient is no longer available for transfer, the sender may have deleted or already transferred this patient")

	ErrTransferExpired = newError(ErrGone, "this transfer has expired")
)

type kindError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// StatusError reports a rejection caused by the transfer's current status.
// Cancel marks a sender's cancel attempt so the message names the action.
type StatusError struct {
	Err    error
	Status Status
	Cancel bool
}

func (e *StatusError) Error() string {
	switch {
	case errors.Is(e.Err, ErrBriefingUnavailable):
		return fmt.Sprintf("briefing is not available for %s transfers", e.Status)
	case e.Cancel:
		return fmt.Sprintf("cannot cancel a transfer that has already been %s", e.Status)
	}
	return fmt.Sprintf("this transfer has already been %s", e.Status)
}

func (e *StatusError) Unwrap() error { return e.Err }

func notPending(status Status) error {
	return &StatusError{Err: ErrNotPending, Status: status}
}

func notCancellable(status Status) error {
	return &StatusError{Err: ErrNotPending, Status: status, Cancel: true}
}
