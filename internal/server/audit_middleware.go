package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/memora-care/memora/internal/auth"
)

const maxAuditedBody = 4 << 10

func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := AuditLogEntry{
			Timestamp:  s.clock.Now(),
			Method:     r.Method,
			Path:       r.URL.Path,
			TransferID: mux.Vars(r)["id"],
		}
		if route := mux.CurrentRoute(r); route != nil {
			entry.Handler = route.GetName()
		}
		if id, ok := auth.IdentityFrom(r.Context()); ok {
			entry.CaregiverID = id.CaregiverID
		}

		if r.Body != nil {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = truncate(requestBody)

			if r.Method == http.MethodPut && entry.TransferID != "" {
				var req respondRequest
				if err := json.Unmarshal(requestBody, &req); err == nil {
					entry.Action = req.Action
				}
			}
		}

		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		entry.StatusCode = wrw.StatusCode()
		entry.Response = truncate(wrw.Body())

		s.AuditManager.LogEntry(r.Context(), entry)
	})
}

func truncate(b []byte) string {
	if len(b) > maxAuditedBody {
		return string(b[:maxAuditedBody]) + "..."
	}
	return string(b)
}
