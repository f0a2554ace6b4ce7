//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/memora-care/memora/internal/auth"
	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/internal/transfer"
)

type Coordinator interface {
	Initiate(ctx context.Context, sender transfer.Identity, in transfer.InitiateInput) (transfer.Summary, error)
	Respond(ctx context.Context, responder transfer.Identity, transferID string, action transfer.Action) (transfer.RespondResult, error)
	Cancel(ctx context.Context, sender transfer.Identity, transferID string) error
	List(ctx context.Context, who transfer.Identity) (transfer.Listing, error)
	Briefing(ctx context.Context, viewer transfer.Identity, transferID string) (transfer.Briefing, error)
}

type TokenVerifier interface {
	Verify(raw string) (transfer.Identity, error)
}

type Server struct {
	coordinator  Coordinator
	tokens       TokenVerifier
	clock        clock.Clock
	logger       *zap.Logger
	server       *http.Server
	AuditManager *AuditManager
}

func New(coordinator Coordinator, tokens TokenVerifier, audit *AuditManager, clk clock.Clock, logger *zap.Logger) *Server {
	return &Server{
		coordinator:  coordinator,
		tokens:       tokens,
		clock:        clk,
		logger:       logger.With(zap.String("component", "http")),
		AuditManager: audit,
	}
}

// Run serves until Shutdown is called. The audit manager is started here and
// stopped by Shutdown.
func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.AuditManager.Start(ctx)

	s.logger.Info("server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.logger.Info("http server shutdown completed")

	s.AuditManager.Shutdown(ctx)
	return nil
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet).Name("health")
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")

	api := r.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)
	api.Use(s.authMiddleware, s.auditLogMiddleware)

	api.HandleFunc("/transfers", s.handleInitiateTransfer).Methods(http.MethodPost).Name("handleInitiateTransfer")
	api.HandleFunc("/transfers", s.handleListTransfers).Methods(http.MethodGet).Name("handleListTransfers")
	api.HandleFunc("/transfers/{id}", s.handleRespondTransfer).Methods(http.MethodPut).Name("handleRespondTransfer")
	api.HandleFunc("/transfers/{id}", s.handleCancelTransfer).Methods(http.MethodDelete).Name("handleCancelTransfer")
	api.HandleFunc("/transfers/{id}/briefing", s.handleTransferBriefing).Methods(http.MethodGet).Name("handleTransferBriefing")

	return r
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, codeNotFound, "Not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, codeNotAllowed, "Method not allowed")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			respondError(w, http.StatusUnauthorized, codeUnauthorized, "Unauthorized")
			return
		}

		id, err := s.tokens.Verify(raw)
		if err != nil {
			s.logger.Debug("rejected token", zap.String("path", r.URL.Path), zap.Error(err))
			respondError(w, http.StatusUnauthorized, codeUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		const prefix = "Bearer "
		if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
			return strings.TrimSpace(h[len(prefix):])
		}
		return ""
	}
	if c, err := r.Cookie(auth.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
