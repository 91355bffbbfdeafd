// Package httpserver exposes the resolution and classification API along
// with health, readiness, and metrics endpoints.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/location-resolution-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LocationResolver resolves a disaster description to coordinates.
type LocationResolver interface {
	ResolveLocation(ctx context.Context, description string) (domain.ResolutionResult, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the resolution API plus health, readiness, and metrics
// HTTP endpoints.
type Server struct {
	httpServer *http.Server
	resolver   LocationResolver
	classifier *domain.PriorityClassifier
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, resolver LocationResolver, classifier *domain.PriorityClassifier, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// A resolution can wait on two 10 second upstream calls.
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		resolver:   resolver,
		classifier: classifier,
		logger:     logger,
	}

	mux.HandleFunc("POST /v1/geocode", s.handleGeocode)
	mux.HandleFunc("POST /v1/classify", s.handleClassify)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type geocodeRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	var req geocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	result, err := s.resolver.ResolveLocation(r.Context(), req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrDescriptionRequired) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Description required"})
			return
		}
		s.logger.Error("resolution failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Geocoding failed",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type classifyRequest struct {
	Items []classifyItem `json:"items"`
}

type classifyItem struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
}

type classifiedItem struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
	domain.Classification
}

type classifyResponse struct {
	Items       []classifiedItem `json:"items"`
	UrgentCount int              `json:"urgent_count"`
	HighCount   int              `json:"high_count"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	resp := classifyResponse{Items: make([]classifiedItem, 0, len(req.Items))}
	for _, item := range req.Items {
		c := s.classifier.Classify(item.Content)
		switch c.Priority {
		case domain.PriorityUrgent:
			resp.UrgentCount++
		case domain.PriorityHigh:
			resp.HighCount++
		}
		resp.Items = append(resp.Items, classifiedItem{
			ID:             item.ID,
			Content:        item.Content,
			Classification: c,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
