// Package client provides the HTTP client for the staff operation-log API
// with conditional-request caching, retries and error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/oplog-feed/pkg/cache"
	"github.com/Sternrassler/oplog-feed/pkg/pagination"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// OperationLogsPath is the paginated staff operation-log endpoint.
const OperationLogsPath = "/staff/operation-logs"

// Prometheus metrics for API client operations.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oplog_api_requests_total",
		Help: "Total operation-log API requests by status",
	}, []string{"status"})

	apiRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oplog_api_request_duration_seconds",
		Help:    "Operation-log API request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oplog_api_errors_total",
		Help: "Total operation-log API errors by class",
	}, []string{"class"})
)

// Client fetches pages of staff operation logs. It implements
// pagination.PageFetcher.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the admin API (e.g. "https://admin.example.com/api")
	BaseURL string

	// APIToken is sent as a bearer token when set
	APIToken string

	// UserAgent header
	UserAgent string

	// Timeout bounds a single HTTP attempt
	Timeout time.Duration

	// Cache stores pages for conditional revalidation. Optional.
	Cache *cache.Manager

	// Retry
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: "oplog-feed/1.0",
		Timeout:   10 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// New creates a new operation-log API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url has no host (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: base,
		cache:   cfg.Cache,
		config:  cfg,
		logger:  log.With().Str("component", "oplog-client").Logger(),
	}, nil
}

// FetchPage loads one page of operation-log entries matching searchTerm.
// Every failure is returned as a *pagination.NetworkError wrapping an *APIError.
func (c *Client) FetchPage(ctx context.Context, page, pageSize int, searchTerm string) (pagination.PageResult, error) {
	fail := func(err error) (pagination.PageResult, error) {
		return pagination.PageResult{}, &pagination.NetworkError{
			Page:       page,
			SearchTerm: searchTerm,
			Err:        err,
		}
	}

	req, err := c.newPageRequest(ctx, page, pageSize, searchTerm)
	if err != nil {
		return fail(err)
	}

	body, err := c.Do(req)
	if err != nil {
		return fail(err)
	}

	var result pagination.PageResult
	if err := json.Unmarshal(body, &result); err != nil {
		apiErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		c.logger.Warn().Err(err).Int("page", page).Msg("Undecodable page")
		return fail(&APIError{
			StatusCode: http.StatusOK,
			ErrorClass: ErrorClassDecode,
			Message:    "decode page",
			Err:        err,
		})
	}

	return result, nil
}

func (c *Client) newPageRequest(ctx context.Context, page, pageSize int, searchTerm string) (*http.Request, error) {
	u := c.baseURL.JoinPath(OperationLogsPath)

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	if searchTerm != "" {
		query.Set("search", searchTerm)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

// Do performs a GET with caching, retries and error classification and
// returns the response body. A 304 Not Modified is answered from the cache.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		apiRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check Cache
	cacheKey := cache.Key{
		Scope:       c.baseURL.Host,
		Endpoint:    endpoint,
		QueryParams: req.URL.Query(),
	}

	var cachedEntry *cache.Entry
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			cachedEntry = entry
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	// Step 2: Conditional request if cache hit
	if cache.ShouldRevalidate(cachedEntry) {
		cache.AddConditionalHeaders(req, cachedEntry)
		cache.ConditionalRequestsSent.Inc()
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("etag", cachedEntry.ETag).
			Msg("Making conditional request")
	}

	// Step 3: Headers
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", req.URL.RawQuery).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("Executing operation-log request")

	// Step 4: Execute with retry
	var body []byte
	retryErr := retryWithBackoff(ctx, c.config.Retry, func() (ErrorClass, error) {
		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err != nil {
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			apiRequestsTotal.WithLabelValues("network_error").Inc()
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
			return ErrorClassNetwork, &APIError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        err,
			}
		}
		defer resp.Body.Close()

		apiRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

		switch {
		case resp.StatusCode == http.StatusNotModified:
			if cachedEntry == nil {
				apiErrorsTotal.WithLabelValues(string(ErrorClassClient)).Inc()
				return ErrorClassClient, &APIError{
					StatusCode: resp.StatusCode,
					ErrorClass: ErrorClassClient,
					Message:    "not modified without a cached page",
				}
			}
			body = c.serveNotModified(ctx, cacheKey, cachedEntry)
			return "", nil

		case resp.StatusCode >= 300:
			errClass := classifyStatus(resp.StatusCode)
			if errClass == "" {
				errClass = ErrorClassClient
			}
			apiErrorsTotal.WithLabelValues(string(errClass)).Inc()

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("Operation-log request error")

			return errClass, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: errClass,
				Message:    statusMessage(resp),
			}
		}

		data, err := c.readAndCache(ctx, cacheKey, resp)
		if err != nil {
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return ErrorClassNetwork, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassNetwork,
				Message:    "read response body",
				Err:        err,
			}
		}
		body = data
		return "", nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return body, nil
}

// serveNotModified answers a 304 from the cache and extends its retention.
func (c *Client) serveNotModified(ctx context.Context, key cache.Key, entry *cache.Entry) []byte {
	c.logger.Debug().Str("key", key.String()).Msg("304 Not Modified - using cache")
	cache.NotModifiedResponses.Inc()

	if err := c.cache.Refresh(ctx, key, entry); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to refresh cache entry")
	}
	return entry.Body
}

// readAndCache reads a successful response and stores it when cacheable.
// Cache failures never fail the request.
func (c *Client) readAndCache(ctx context.Context, key cache.Key, resp *http.Response) ([]byte, error) {
	if c.cache == nil || !cache.Cacheable(resp) {
		return io.ReadAll(resp.Body)
	}

	entry, err := cache.ResponseToEntry(resp, c.cache.TTL())
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, entry); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache response")
	} else {
		c.logger.Debug().
			Str("key", key.String()).
			Dur("ttl", entry.TTL()).
			Msg("Cached response")
	}
	return entry.Body, nil
}

// statusMessage returns the backend's error message, or the status line.
func statusMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(data, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return payload.Error
	}
	return resp.Status
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager, or nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}

var _ pagination.PageFetcher = (*Client)(nil)
