package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/ico-resolver/internal/model"
)

// Namespace prefixes every metric name.
const Namespace = "ico_resolver"

// Metrics holds all Prometheus metrics for a run.
type Metrics struct {
	// Lookup metrics
	Lookups       *prometheus.CounterVec
	LookupLatency *prometheus.HistogramVec

	// Token metrics
	Tokens *prometheus.CounterVec

	// Report metrics
	RowsWritten *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a Metrics instance registered on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "lookup",
			Name:      "total",
			Help:      "Catalog lookups by source and outcome",
		}, []string{"source", "status"}),
		LookupLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "lookup",
			Name:      "duration_seconds",
			Help:      "Catalog lookup latency in seconds, including throttling",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),

		Tokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "tokens",
			Name:      "processed_total",
			Help:      "Tokens processed by dataset and final state",
		}, []string{"dataset", "state"}),

		RowsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "report",
			Name:      "rows_written_total",
			Help:      "Report rows written by sink",
		}, []string{"sink"}),

		registry: reg,
	}
}

// ObserveLookup records one resolver invocation.
func (m *Metrics) ObserveLookup(source string, status model.Status, seconds float64) {
	m.Lookups.WithLabelValues(source, status.String()).Inc()
	m.LookupLatency.WithLabelValues(source).Observe(seconds)
}

// ObserveToken records a token's final state.
func (m *Metrics) ObserveToken(dataset, state string) {
	m.Tokens.WithLabelValues(dataset, state).Inc()
}

// ObserveRows records rows written to a sink.
func (m *Metrics) ObserveRows(sink string, n int) {
	m.RowsWritten.WithLabelValues(sink).Add(float64(n))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
