// Package metrics provides Prometheus metrics for backend calls made by the client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for calls_total.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDryRun  = "dry_run"
)

// Metrics holds the client call metrics.
type Metrics struct {
	callsTotal   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	sweepsTotal  *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them on reg.
//
// Pass prometheus.DefaultRegisterer in binaries and a fresh
// prometheus.NewRegistry() in tests so repeated construction does not
// collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gportal_client_calls_total",
				Help: "Total number of backend calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gportal_client_call_duration_seconds",
				Help:    "Backend call duration in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		sweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gportal_reminder_sweeps_total",
				Help: "Reminder sweeps triggered by the watch loop",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(m.callsTotal, m.callDuration, m.sweepsTotal)
	return m
}

// RecordCall records one backend call. A nil receiver is a no-op.
func (m *Metrics) RecordCall(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.callsTotal.WithLabelValues(operation, outcome).Inc()
	if outcome != OutcomeDryRun {
		m.callDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// RecordSweep records one reminder sweep triggered by the watch loop.
func (m *Metrics) RecordSweep(outcome string) {
	if m == nil {
		return
	}
	m.sweepsTotal.WithLabelValues(outcome).Inc()
}
