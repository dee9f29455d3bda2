package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the feed controller.
var (
	feedFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oplog_feed_fetches_total",
		Help: "Total number of page fetches started by the feed",
	})

	feedFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oplog_feed_fetch_duration_seconds",
		Help:    "Page fetch duration in seconds, stale or not",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
	})

	feedFetchesInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "oplog_feed_fetches_in_flight",
		Help: "Number of page fetches whose response has not arrived yet, stale ones included",
	})

	feedPageOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oplog_feed_page_outcomes_total",
		Help: "Resolved live page fetches by outcome",
	}, []string{"outcome"}) // "applied", "last_page", "empty", "failed"

	feedStaleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oplog_feed_stale_responses_total",
		Help: "Total number of responses dropped because their token was no longer live",
	})

	feedResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oplog_feed_resets_total",
		Help: "Total number of feed resets caused by a committed search term",
	})

	debounceCommitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oplog_feed_search_commits_total",
		Help: "Total number of search terms committed by the debouncer",
	})

	feedNotificationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oplog_feed_error_notifications_dropped_total",
		Help: "Total number of failure notifications dropped because nobody was reading",
	})
)
