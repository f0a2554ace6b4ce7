package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/memora-care/memora/internal/auth"
	"github.com/memora-care/memora/internal/transfer"
)

type initiateRequest struct {
	PatientID      string `json:"patientId"`
	RecipientEmail string `json:"recipientEmail"`
	Message        string `json:"message"`
}

type respondRequest struct {
	Action string `json:"action"`
}

type respondResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	TransferID string `json:"transferId"`
	PatientID  string `json:"patientId,omitempty"`
}

type cancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleInitiateTransfer(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidBody, "Invalid request body")
		return
	}

	summary, err := s.coordinator.Initiate(r.Context(), id, transfer.InitiateInput{
		PatientID:      req.PatientID,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
	})
	if err != nil {
		s.writeCoordinatorError(w, "initiate", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]transfer.Summary{"transfer": summary})
}

func (s *Server) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	listing, err := s.coordinator.List(r.Context(), id)
	if err != nil {
		s.writeCoordinatorError(w, "list", err)
		return
	}

	respondJSON(w, http.StatusOK, listing)
}

func (s *Server) handleRespondTransfer(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())
	transferID := mux.Vars(r)["id"]

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidBody, "Invalid request body")
		return
	}

	res, err := s.coordinator.Respond(r.Context(), id, transferID, transfer.Action(req.Action))
	if err != nil {
		s.writeCoordinatorError(w, "respond", err)
		return
	}

	resp := respondResponse{Success: true, TransferID: res.TransferID}
	if res.Status == transfer.StatusAccepted {
		resp.Message = "Patient transfer accepted successfully"
		resp.PatientID = res.PatientID
	} else {
		resp.Message = "Patient transfer rejected"
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelTransfer(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	if err := s.coordinator.Cancel(r.Context(), id, mux.Vars(r)["id"]); err != nil {
		s.writeCoordinatorError(w, "cancel", err)
		return
	}

	respondJSON(w, http.StatusOK, cancelResponse{Success: true, Message: "Transfer cancelled successfully"})
}

func (s *Server) handleTransferBriefing(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r.Context())

	briefing, err := s.coordinator.Briefing(r.Context(), id, mux.Vars(r)["id"])
	if err != nil {
		s.writeCoordinatorError(w, "briefing", err)
		return
	}

	respondJSON(w, http.StatusOK, briefing)
}
