// Package rest exposes the planning operations as a JSON API.
package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/planfab/portal/pkg/planning"
)

// Server routes portal API requests to the planner.
type Server struct {
	planner *planning.Planner
	log     *zap.Logger
}

// NewServer creates a REST server over the given planner.
func NewServer(planner *planning.Planner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{planner: planner, log: logger}
}

// Routes builds the chi router for the portal API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/mrp", func(r chi.Router) {
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/customers/{customer}/summary", s.handleCustomerSummary)
		r.Get("/shortages", s.handleShortages)
		r.Get("/forecast", s.handleForecast)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	plan, err := s.planner.CalculateMRPSuggestions(r.Context())
	if err != nil {
		s.fail(w, "calculate mrp suggestions", err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCustomerSummary(w http.ResponseWriter, r *http.Request) {
	customer := chi.URLParam(r, "customer")
	report, err := s.planner.CustomerSummary(r.Context(), customer)
	if err != nil {
		s.fail(w, "customer summary", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleShortages(w http.ResponseWriter, r *http.Request) {
	report, err := s.planner.ConsolidatedShortages(r.Context())
	if err != nil {
		s.fail(w, "consolidated shortages", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	report, err := s.planner.ShipmentForecast(r.Context(), time.Now())
	if err != nil {
		s.fail(w, "shipment forecast", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// fail logs the real error and returns the generic failure contract: a 500
// with an empty result set. A failed run has no side effects to roll back.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.log.Error("mrp request failed", zap.String("op", op), zap.Error(err))
	s.writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":   "mrp calculation failed",
		"results": []any{},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write response", zap.Error(err))
	}
}
