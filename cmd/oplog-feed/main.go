// Command oplog-feed browses the staff operation log in the terminal with
// incremental search and infinite scroll.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Sternrassler/oplog-feed/internal/tui"
	"github.com/Sternrassler/oplog-feed/pkg/cache"
	"github.com/Sternrassler/oplog-feed/pkg/client"
	"github.com/Sternrassler/oplog-feed/pkg/logging"
	"github.com/Sternrassler/oplog-feed/pkg/metrics"
	"github.com/Sternrassler/oplog-feed/pkg/pagination"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "oplog-feed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	_, logFile, err := logging.SetupFile(logging.Config{Level: logging.LogLevel(cfg.LogLevel)}, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	a, err := newApp(context.Background(), cfg)
	if err != nil {
		log.Error().Err(err).Msg("Startup failed")
		return err
	}
	defer a.Close()

	log.Info().
		Str("api", cfg.APIURL).
		Int("page_size", cfg.PageSize).
		Bool("cache", a.redis != nil).
		Msg("Starting operation-log feed")

	program := tea.NewProgram(tui.NewModel(a.feed, cfg.InitialSearch), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	log.Info().Msg("Feed closed")
	return nil
}

// app wires the feed controller to its backend.
type app struct {
	redis   *redis.Client
	client  *client.Client
	feed    *pagination.Controller
	metrics *metrics.Server
}

func newApp(ctx context.Context, cfg *Config) (*app, error) {
	a := &app{}

	var pageCache *cache.Manager
	if cfg.RedisURL != "" {
		rc, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			// The feed works without a cache, only slower.
			log.Warn().Err(err).Msg("Redis unavailable, page cache disabled")
		} else {
			a.redis = rc
			pageCache = cache.NewManager(rc, cfg.CacheTTL)
		}
	}

	c, err := client.New(cfg.ClientConfig(pageCache))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create client: %w", err)
	}
	a.client = c
	a.feed = pagination.NewController(c, cfg.FeedConfig())

	if cfg.MetricsAddr != "" {
		a.metrics = metrics.NewServer(cfg.MetricsAddr)
		a.metrics.Start()
	}

	return a, nil
}

// Close tears down in reverse order of construction.
func (a *app) Close() error {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}
	if a.feed != nil {
		a.feed.Close()
	}
	if a.client != nil {
		a.client.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Redis close failed")
		}
	}
	return nil
}

// connectRedis accepts a redis:// URL or a bare host:port.
func connectRedis(ctx context.Context, raw string) (*redis.Client, error) {
	opts := &redis.Options{Addr: raw}
	if strings.Contains(raw, "://") {
		parsed, err := redis.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}

	rc := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
	return rc, nil
}
