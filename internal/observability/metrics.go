package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchQueriesTotal counts search requests by outcome (hit, empty, blank).
	SearchQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_search_queries_total",
		Help: "Total number of search queries by outcome",
	}, []string{"outcome"})

	// CommentsCreatedTotal counts successfully persisted comments.
	CommentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_comments_created_total",
		Help: "Total number of comments created",
	})

	// ShareEmailsTotal counts share-by-email deliveries by result.
	ShareEmailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_share_emails_total",
		Help: "Total number of share emails by delivery result",
	}, []string{"result"})

	// PaginationFallbacksTotal counts recovered pagination errors by kind.
	PaginationFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_pagination_fallbacks_total",
		Help: "Total number of pagination fallbacks by error kind",
	}, []string{"kind"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
