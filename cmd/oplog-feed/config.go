package main

import (
	"errors"
	"time"

	"github.com/Sternrassler/oplog-feed/pkg/cache"
	"github.com/Sternrassler/oplog-feed/pkg/client"
	"github.com/Sternrassler/oplog-feed/pkg/pagination"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the feed.
type Config struct {
	APIURL    string        `envconfig:"OPLOG_API_URL" required:"true"`
	APIToken  string        `envconfig:"OPLOG_API_TOKEN"`
	UserAgent string        `envconfig:"OPLOG_USER_AGENT" default:"oplog-feed/1.0"`
	Timeout   time.Duration `envconfig:"OPLOG_HTTP_TIMEOUT" default:"10s"`
	Retries   int           `envconfig:"OPLOG_MAX_ATTEMPTS" default:"1"`

	PageSize      int           `envconfig:"OPLOG_PAGE_SIZE" default:"10"`
	Debounce      time.Duration `envconfig:"OPLOG_DEBOUNCE" default:"500ms"`
	ScrollMargin  int           `envconfig:"OPLOG_SCROLL_MARGIN" default:"3"`
	FetchTimeout  time.Duration `envconfig:"OPLOG_FETCH_TIMEOUT" default:"15s"`
	InitialSearch string        `envconfig:"OPLOG_INITIAL_SEARCH"`

	RedisURL string        `envconfig:"REDIS_URL"`
	CacheTTL time.Duration `envconfig:"OPLOG_CACHE_TTL" default:"30s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:"oplog-feed.log"`

	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.APIURL == "" {
		return nil, errors.New("api url must be provided")
	}
	if cfg.PageSize <= 0 {
		return nil, errors.New("page size must be positive")
	}
	if cfg.ScrollMargin < 0 {
		return nil, errors.New("scroll margin must not be negative")
	}
	return &cfg, nil
}

// FeedConfig returns the feed controller configuration.
func (c *Config) FeedConfig() pagination.Config {
	feed := pagination.DefaultConfig()
	feed.PageSize = c.PageSize
	feed.Debounce = c.Debounce
	feed.ScrollMargin = c.ScrollMargin
	feed.FetchTimeout = c.FetchTimeout
	feed.InitialSearch = c.InitialSearch
	return feed
}

// ClientConfig returns the API client configuration. pageCache may be nil.
func (c *Config) ClientConfig(pageCache *cache.Manager) client.Config {
	cfg := client.DefaultConfig(c.APIURL)
	cfg.APIToken = c.APIToken
	cfg.UserAgent = c.UserAgent
	cfg.Timeout = c.Timeout
	cfg.Cache = pageCache
	cfg.Retry.MaxAttempts = c.Retries
	return cfg
}
