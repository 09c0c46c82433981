package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/hpos-config/pkg/schema"
)

// Metrics tracks validation outcomes and latency.
type Metrics struct {
	validations *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hpos_config_validations_total",
				Help: "Total number of validated documents by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hpos_config_validation_duration_seconds",
				Help:    "Duration of document validation",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.validations, m.duration)
	}
	return m
}

// Observe records one validation. The result label is "ok", the error kind,
// or "error" for failures outside the matcher.
func (m *Metrics) Observe(err error, d time.Duration) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(Result(err)).Inc()
	m.duration.Observe(d.Seconds())
}

// Result maps a validation error to its metric label.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	var verr *schema.Error
	if errors.As(err, &verr) {
		return verr.Kind.String()
	}
	return "error"
}
