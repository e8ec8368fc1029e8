// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nuvy_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheRequests counts cache-aside lookups by key class and outcome (hit/miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nuvy_cache_requests_total",
		Help: "Total number of cache-aside lookups by key class and outcome",
	}, []string{"key", "outcome"})

	// ToggleOperations counts follow/like toggle operations by kind and resulting state.
	ToggleOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nuvy_toggle_operations_total",
		Help: "Total number of relationship/engagement toggles by kind and resulting state",
	}, []string{"kind", "state"})

	// AuthFailures counts rejected authentication attempts by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nuvy_auth_failures_total",
		Help: "Total number of rejected authentication attempts by reason",
	}, []string{"reason"})
)
