// Package metrics holds the Prometheus collectors for personality runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "persona"
)

// Outcome labels a finished invocation.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeAborted Outcome = "aborted"
)

// Metrics is a set of collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	Invocations *prometheus.CounterVec
	Fragments   *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// New registers a fresh set of collectors on their own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "invocations_total",
				Help:      "Total number of personality invocations",
			},
			[]string{"provider", "outcome"},
		),
		Fragments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "fragments_total",
				Help:      "Total number of text fragments written into documents",
			},
			[]string{"provider"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "duration_seconds",
				Help:      "Personality invocation duration in seconds",
				Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"provider"},
		),
	}
}

// Observe records a finished invocation. An empty provider is reported as
// "unknown", which happens when validation fails before one is picked.
func (m *Metrics) Observe(provider string, outcome Outcome, elapsed time.Duration) {
	if provider == "" {
		provider = "unknown"
	}
	m.Invocations.WithLabelValues(provider, string(outcome)).Inc()
	m.Duration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metrics) Fragment(provider string) {
	m.Fragments.WithLabelValues(provider).Inc()
}

// WriteToTextfile dumps the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteToTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.Registry)
}
