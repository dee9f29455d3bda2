// Package metrics exposes the Prometheus registry used by the feed.
// All metrics are defined in their respective packages (pagination, client,
// cache) to maintain modularity and avoid circular dependencies.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Registry is the default Prometheus registry used by the feed.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler serves the default gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Server serves /metrics on a side port while the feed UI runs.
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics server listening on addr.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start runs the server in the background.
func (s *Server) Start() {
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("Metrics server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Metrics Documentation
//
// Feed Metrics (pkg/pagination):
//   - oplog_feed_fetches_total (Counter): Page fetches started
//   - oplog_feed_fetch_duration_seconds (Histogram): Page fetch duration
//   - oplog_feed_fetches_in_flight (Gauge): Page fetches currently running
//   - oplog_feed_page_outcomes_total{outcome} (Counter): Live responses by outcome
//   - oplog_feed_stale_responses_total (Counter): Responses dropped as stale
//   - oplog_feed_resets_total (Counter): Feed resets (search commits and Open)
//   - oplog_feed_search_commits_total (Counter): Debounced search terms committed
//   - oplog_feed_error_notifications_dropped_total (Counter): Failure notifications with no reader
//
// Cache Metrics (pkg/cache):
//   - oplog_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - oplog_cache_misses_total (Counter): Cache misses
//   - oplog_cache_stored_bytes_total{layer="redis"} (Counter): Bytes written to the cache
//   - oplog_cache_not_modified_total (Counter): Pages served from cache after a 304
//   - oplog_cache_conditional_requests_total (Counter): Requests sent with validators
//   - oplog_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - oplog_api_requests_total{status} (Counter): Total requests by HTTP status
//   - oplog_api_request_duration_seconds (Histogram): Request duration
//   - oplog_api_errors_total{class} (Counter): Errors by class (client, rate_limit, server, network, decode)
//
// Retry Metrics (pkg/client):
//   - oplog_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - oplog_api_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - oplog_api_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Stale response ratio
//   rate(oplog_feed_stale_responses_total[5m]) / rate(oplog_feed_fetches_total[5m])
//
//   # Cache revalidation hit rate
//   rate(oplog_cache_not_modified_total[5m]) / rate(oplog_cache_conditional_requests_total[5m])
//
//   # P95 page fetch latency
//   histogram_quantile(0.95, rate(oplog_feed_fetch_duration_seconds_bucket[5m]))
