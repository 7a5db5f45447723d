// Package metrics provides Prometheus metrics for the article API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "article_cms"

// Metrics groups the collectors registered by the API
type Metrics struct {
	// OperationsTotal counts orchestrator calls by operation and result code.
	OperationsTotal *prometheus.CounterVec

	// BestEffortFailures counts swallowed failures of best-effort steps.
	BestEffortFailures *prometheus.CounterVec

	// CacheLookups counts light listing cache lookups by outcome.
	CacheLookups *prometheus.CounterVec

	// HTTPDuration measures request handling time.
	HTTPDuration *prometheus.HistogramVec
}

// New registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OperationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of article operations",
			},
			[]string{"operation", "result"},
		),
		BestEffortFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "best_effort_failures_total",
				Help:      "Failures of steps that are logged and skipped",
			},
			[]string{"step"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "listing_cache_lookups_total",
				Help:      "Light listing cache lookups",
			},
			[]string{"outcome"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// NewUnregistered builds collectors on a private registry, for tests and tools
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}

// RecordOperation records the outcome of an orchestrator call
func (m *Metrics) RecordOperation(operation, result string) {
	m.OperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordBestEffortFailure records a swallowed failure
func (m *Metrics) RecordBestEffortFailure(step string) {
	m.BestEffortFailures.WithLabelValues(step).Inc()
}

// RecordCacheLookup records a cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookups.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records one handled request
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	m.HTTPDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
