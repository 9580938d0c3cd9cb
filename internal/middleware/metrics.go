package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glassmap_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheHits counts cache-aside lookups served from Redis.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glassmap_cache_hits_total",
		Help: "Total number of cache-aside hits",
	})

	// CacheMisses counts cache-aside lookups that fell through to the database.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glassmap_cache_misses_total",
		Help: "Total number of cache-aside misses",
	})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glassmap_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// GeocodeRequests counts upstream geocoding calls by kind and outcome.
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glassmap_geocode_requests_total",
		Help: "Total number of geocoding requests by kind and outcome",
	}, []string{"kind", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
