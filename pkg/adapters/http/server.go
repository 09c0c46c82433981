package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	hposconfig "github.com/aretw0/hpos-config"
	"github.com/aretw0/hpos-config/pkg/domain"
)

// MaxBodyBytes caps the size of a submitted document.
const MaxBodyBytes = 1 << 20

// Checker defines the validation service the handlers call.
type Checker interface {
	Check(ctx context.Context, doc []byte) (*domain.Report, error)
	Report(ctx context.Context, id string) (*domain.Report, error)
}

// Server holds the handler dependencies.
type Server struct {
	Checker  Checker
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler creates a new HTTP handler for the service.
// A nil gatherer serves the default Prometheus registry on /metrics.
func NewHandler(checker Checker, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Checker: checker, Gatherer: gatherer, Logger: logger}

	r := chi.NewRouter()
	r.Post("/validate", s.Validate)
	r.Get("/reports/{id}", s.GetReport)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

// Validate handles the POST /validate request.
// The body is the config document itself; the response is its report.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Document too large", http.StatusRequestEntityTooLarge)
			s.Logger.Warn("Validate: body too large", "limit", tooLarge.Limit)
			return
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Validate: invalid request body", "error", err)
		return
	}

	report, err := s.Checker.Check(r.Context(), body)
	if err != nil {
		http.Error(w, "Validation failed", http.StatusInternalServerError)
		s.Logger.Error("Validate failed", "error", err)
		return
	}

	writeJSON(w, s.Logger, report)
}

// GetReport handles the GET /reports/{id} request.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := s.Checker.Report(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load report", http.StatusInternalServerError)
		s.Logger.Error("GetReport failed", "error", err, "report", id)
		return
	}

	writeJSON(w, s.Logger, report)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, map[string]string{
		"app":     "hpos-config-http",
		"version": strings.TrimSpace(hposconfig.Version),
		"schema":  hposconfig.Schema.Describe(),
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
