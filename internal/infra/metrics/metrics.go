// Package metrics provides Prometheus metrics for the GK bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchCyclesTotal counts dispatch cycles by trigger and outcome.
	DispatchCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gkbot",
			Name:      "dispatch_cycles_total",
			Help:      "Total number of dispatch cycles",
		},
		[]string{"trigger", "outcome"},
	)

	// NotificationsTotal counts displayed notifications by status.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gkbot",
			Name:      "notifications_total",
			Help:      "Total number of notifications handed to the host",
		},
		[]string{"status"},
	)

	// DispatchDuration measures dispatch cycle duration, pacing included.
	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gkbot",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of dispatch cycles in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// MarkerErrorsTotal counts marker store failures by operation.
	MarkerErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gkbot",
			Name:      "marker_errors_total",
			Help:      "Total number of idempotency marker store errors",
		},
		[]string{"operation"},
	)
)

// RecordCycle records a finished dispatch cycle.
func RecordCycle(trigger, outcome string, seconds float64) {
	DispatchCyclesTotal.WithLabelValues(trigger, outcome).Inc()
	DispatchDuration.Observe(seconds)
}

// RecordNotification records one notification display attempt.
func RecordNotification(ok bool) {
	status := "sent"
	if !ok {
		status = "failed"
	}
	NotificationsTotal.WithLabelValues(status).Inc()
}

// RecordMarkerError records a marker store failure.
func RecordMarkerError(operation string) {
	MarkerErrorsTotal.WithLabelValues(operation).Inc()
}
