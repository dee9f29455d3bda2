package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oplog_cache_hits_total",
			Help: "Total number of page cache hits",
		},
		[]string{"layer"}, // "redis"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oplog_cache_misses_total",
			Help: "Total number of page cache misses",
		},
	)

	// StoredBytes tracks bytes written to the cache by layer
	StoredBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oplog_cache_stored_bytes_total",
			Help: "Total number of bytes written to the page cache",
		},
		[]string{"layer"}, // "redis"
	)

	// NotModifiedResponses tracks pages served from cache after a 304
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oplog_cache_not_modified_total",
			Help: "Total number of 304 Not Modified responses served from cache",
		},
	)

	// ConditionalRequestsSent tracks requests sent with validators
	ConditionalRequestsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oplog_cache_conditional_requests_total",
			Help: "Total number of conditional requests sent",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oplog_cache_errors_total",
			Help: "Total number of page cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
