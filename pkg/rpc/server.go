package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/parley/pkg/domain"
)

// Service is the contract exposed by every node-service and by the
// orchestrator's own front door.
type Service interface {
	Create(ctx context.Context, userID string, spec []string) error
	Learn(ctx context.Context, userID string, knowledge []string) error
	Infer(ctx context.Context, userID string, query QuerySpec) (string, error)
}

// Server adapts a Service to the JSON-over-HTTP wire contract.
type Server struct {
	service Service
	logger  *slog.Logger
}

// NewHandler builds the HTTP handler for a service.
func NewHandler(service Service, logger *slog.Logger) http.Handler {
	s := &Server{service: service, logger: logger}

	r := chi.NewRouter()
	r.Post("/create", s.handleCreate)
	r.Post("/learn", s.handleLearn)
	r.Post("/infer", s.handleInfer)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Create: Invalid request body", "err", err)
		return
	}

	if err := s.service.Create(r.Context(), body.UserID, body.Spec); err != nil {
		http.Error(w, fmt.Sprintf("Create error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Create failed", "err", err, "user_id", body.UserID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	var body LearnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Learn: Invalid request body", "err", err)
		return
	}

	if err := s.service.Learn(r.Context(), body.UserID, body.Knowledge); err != nil {
		http.Error(w, fmt.Sprintf("Learn error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Learn failed", "err", err, "user_id", body.UserID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInfer(w http.ResponseWriter, r *http.Request) {
	var body InferRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Infer: Invalid request body", "err", err)
		return
	}

	answer, err := s.service.Infer(r.Context(), body.UserID, body.Query)
	if err != nil {
		// The contract returns a literal string for unusable queries instead
		// of breaking the single-string-return shape.
		if errors.Is(err, domain.ErrEmptyQuery) {
			answer = IncorrectQueryAnswer
		} else {
			http.Error(w, fmt.Sprintf("Infer error: %v", err), http.StatusInternalServerError)
			s.logger.Error("Infer failed", "err", err, "user_id", body.UserID)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(InferResponse{Answer: answer}); err != nil {
		s.logger.Error("Infer response encode failed", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
