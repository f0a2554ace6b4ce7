package server

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type AuditLogEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Handler     string    `json:"handler"`
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	StatusCode  int       `json:"status_code"`
	CaregiverID string    `json:"caregiver_id,omitempty"`
	TransferID  string    `json:"transfer_id,omitempty"`
	Action      string    `json:"action,omitempty"`
	Request     string    `json:"request,omitempty"`
	Response    string    `json:"response,omitempty"`
}

func (e AuditLogEntry) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddTime("timestamp", e.Timestamp)
	enc.AddString("handler", e.Handler)
	enc.AddString("method", e.Method)
	enc.AddString("path", e.Path)
	enc.AddInt("status_code", e.StatusCode)
	if e.CaregiverID != "" {
		enc.AddString("caregiver_id", e.CaregiverID)
	}
	if e.TransferID != "" {
		enc.AddString("transfer_id", e.TransferID)
	}
	if e.Action != "" {
		enc.AddString("action", e.Action)
	}
	if e.Request != "" {
		enc.AddString("request", e.Request)
	}
	if e.Response != "" {
		enc.AddString("response", e.Response)
	}
	return nil
}
