package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Database metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// State container metrics
	StoreMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_mutations_total",
			Help: "Total number of state container mutations",
		},
		[]string{"entity", "operation"}, // add, update, toggle, delete
	)

	SnapshotsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_snapshots_applied_total",
			Help: "Total number of live query snapshots applied",
		},
		[]string{"collection"},
	)

	ActiveSubscriptions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "live_query_subscriptions",
			Help: "Currently open live query subscriptions",
		},
		[]string{"collection"},
	)

	// Authentication metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions_total",
			Help: "Total number of active sessions",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type", "reason"},
	)

	// System metrics
	SystemCPUUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "system_cpu_usage_percent",
			Help: "Current CPU usage percentage of the host",
		},
	)
)

// TrackDBOperation times a database operation.
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackStoreMutation counts a state container mutation.
func TrackStoreMutation(entity, operation string) {
	StoreMutationsTotal.WithLabelValues(entity, operation).Inc()
}

// TrackSnapshotApplied counts a live query snapshot replacing a list.
func TrackSnapshotApplied(collection string) {
	SnapshotsApplied.WithLabelValues(collection).Inc()
}

func TrackSubscriptionOpened(collection string) {
	ActiveSubscriptions.WithLabelValues(collection).Inc()
}

func TrackSubscriptionClosed(collection string) {
	ActiveSubscriptions.WithLabelValues(collection).Dec()
}

// TrackAuthAttempt records authentication attempts.
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// TrackError increments the error counter by type.
func TrackError(errorType, reason string) {
	ErrorsTotal.WithLabelValues(errorType, reason).Inc()
}
