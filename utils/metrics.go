package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Habit Metrics
	HabitOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_operations_total",
			Help: "Total number of habit operations",
		},
		[]string{"operation"}, // create, rename, toggle, delete, reorder
	)

	HabitCompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_completions_total",
			Help: "Total number of habit completions recorded",
		},
		[]string{"user_id"},
	)

	// Mirror fallback metrics
	MirrorFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_fallbacks_total",
			Help: "Operations that degraded to the Redis mirror after a remote failure",
		},
		[]string{"operation"},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status", "type"}, // success/failure, login/refresh/2fa
	)

	// Session Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions_total",
			Help: "Total number of active sessions",
		},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type and reason",
		},
		[]string{"type", "reason"}, // db, auth, validation, etc.
	)
)

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackHabitOperation increments the habit operation counter
func TrackHabitOperation(operation string) {
	HabitOperationsTotal.WithLabelValues(operation).Inc()
}

// TrackHabitCompletion records a completion toggle that added a day
func TrackHabitCompletion(userID string) {
	HabitCompletionsTotal.WithLabelValues(userID).Inc()
}

// TrackMirrorFallback records an operation that fell back to the mirror
func TrackMirrorFallback(operation string) {
	MirrorFallbacksTotal.WithLabelValues(operation).Inc()
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(status, authType string) {
	AuthAttempts.WithLabelValues(status, authType).Inc()
}

// UpdateActiveSessions sets the current number of active sessions
func UpdateActiveSessions(count float64) {
	ActiveSessions.Set(count)
}

// TrackError increments the error counter by type and reason
func TrackError(errorType, reason string) {
	ErrorsTotal.WithLabelValues(errorType, reason).Inc()
}
