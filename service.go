package hposconfig

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/hpos-config/pkg/adapters/memory"
	"github.com/aretw0/hpos-config/pkg/domain"
	"github.com/aretw0/hpos-config/pkg/observability"
	"github.com/aretw0/hpos-config/pkg/ports"
)

// Service checks hpos-config documents and keeps a report of each check.
// It is the entry point shared by the HTTP, MCP and CLI front ends.
type Service struct {
	store   ports.ReportStore
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithLogger sets a custom structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithStore sets the report store (default: in-memory).
func WithStore(store ports.ReportStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the clock used to timestamp reports.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = memory.NewStore()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Check validates doc against Schema and stores the resulting report.
// An invalid document is not an error: the report says Valid=false.
// The returned error is reserved for store failures and cancellation.
func (s *Service) Check(ctx context.Context, doc []byte) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	verr := CheckBytes(doc)
	s.metrics.Observe(verr, time.Since(start))

	report := domain.NewReport(doc, verr, s.now())
	log := s.logger.With("report", report.ID)
	if report.Valid {
		log.Debug("config valid")
	} else {
		log.Info("config invalid", "kind", report.Kind, "path", report.Path, "error", verr)
	}

	if err := s.store.Save(ctx, report); err != nil {
		log.Error("failed to save report", "error", err)
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return report, nil
}

// Report loads a stored report by ID.
// Returns domain.ErrReportNotFound when there is none.
func (s *Service) Report(ctx context.Context, id string) (*domain.Report, error) {
	return s.store.Load(ctx, id)
}

// Reports lists stored report IDs.
func (s *Service) Reports(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}
