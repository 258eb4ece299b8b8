// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concord_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "concord_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ConnectionEvents counts connection lifecycle transitions by outcome.
	ConnectionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concord_connection_events_total",
		Help: "Total connection lifecycle events (requested, accepted, rejected, removed, partial_accept)",
	}, []string{"event"})

	// EngagementEvents counts post engagement actions by kind.
	EngagementEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concord_engagement_events_total",
		Help: "Total post engagement events (like, unlike, comment, share, save, unsave)",
	}, []string{"kind"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
