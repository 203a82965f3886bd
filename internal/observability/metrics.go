package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "prayer_times"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// CacheLookups counts reads per cache; result is hit, miss or stale.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_lookups_total", Help: "Cache lookups by result"},
		[]string{"cache", "result"},
	)
	// CacheStores counts write attempts per cache; outcome is stored, skipped or failed.
	CacheStores = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_stores_total", Help: "Cache store attempts by outcome"},
		[]string{"cache", "outcome"},
	)
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_evictions_total", Help: "Entries evicted or expired out of the cache"},
		[]string{"cache"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "upstream_requests_total", Help: "Calls to upstream providers"},
		[]string{"upstream", "outcome"},
	)
	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream provider latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)
)
