// Package cache keeps raw staff-log page responses in Redis and revalidates
// them with conditional requests.
//
// A cached page is never served blindly. The client always asks the backend,
// adding If-None-Match (ETag) or If-Modified-Since (Last-Modified) when a
// cached copy exists; a 304 Not Modified answer is served from the cache.
// New operations therefore show up on the next fetch, while unchanged pages
// cost a bodiless round trip.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient, 30*time.Second)
//
//	key := cache.Key{
//		Scope:       "admin.example.com",
//		Endpoint:    "/staff/operation-logs",
//		QueryParams: url.Values{"page": {"2"}, "search": {"alice"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch without conditional headers
//	}
//
// # Conditional Requests
//
//	if cache.ShouldRevalidate(entry) {
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// # Metrics
//
//   - oplog_cache_hits_total{layer="redis"} - Cache hits
//   - oplog_cache_misses_total - Cache misses
//   - oplog_cache_stored_bytes_total{layer="redis"} - Bytes written
//   - oplog_cache_not_modified_total - Pages served after a 304
//   - oplog_cache_errors_total{operation} - Cache operation errors
//
// Cache failures are never fatal to the caller: a failed Get is a miss and a
// failed Set only costs the next revalidation.
package cache
