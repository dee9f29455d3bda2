package pagination

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPageSize is the number of entries requested per page.
const DefaultPageSize = 10

// PageFetcher loads one page of staff operation-log entries.
// "No results" is not an error: it is a PageResult with no entries.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, pageSize int, searchTerm string) (PageResult, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, page, pageSize int, searchTerm string) (PageResult, error)

// FetchPage calls f.
func (f PageFetcherFunc) FetchPage(ctx context.Context, page, pageSize int, searchTerm string) (PageResult, error) {
	return f(ctx, page, pageSize, searchTerm)
}

// Config holds feed controller configuration.
type Config struct {
	// PageSize is the number of entries per page
	PageSize int

	// Debounce is the quiet interval before a typed search term is committed
	Debounce time.Duration

	// ScrollMargin is the distance from the viewport bottom at which the
	// next page is requested
	ScrollMargin int

	// FetchTimeout bounds a single page fetch. Resets never cancel a fetch;
	// only this timeout does.
	FetchTimeout time.Duration

	// InitialSearch is the search term loaded by Open
	InitialSearch string

	// ErrorBuffer is how many undelivered failure notifications are kept
	ErrorBuffer int
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:     DefaultPageSize,
		Debounce:     DefaultDebounce,
		ScrollMargin: DefaultScrollMargin,
		FetchTimeout: 15 * time.Second,
		ErrorBuffer:  4,
	}
}

// Controller drives one mounted feed view. All transitions happen under a
// single mutex, one event at a time; fetches run on their own goroutines and
// re-enter the controller when they complete.
type Controller struct {
	fetcher   PageFetcher
	config    Config
	logger    zerolog.Logger
	debouncer *Debouncer

	mu      sync.Mutex
	coord   *Coordinator
	trigger *ScrollTrigger
	opened  bool
	closed  bool

	changes chan struct{}
	errs    chan error
}

// NewController creates a controller for fetcher. Call Open to load the
// first page and Close when the view goes away.
func NewController(fetcher PageFetcher, config Config) *Controller {
	if fetcher == nil {
		panic("page fetcher cannot be nil")
	}

	defaults := DefaultConfig()
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}
	if config.Debounce <= 0 {
		config.Debounce = defaults.Debounce
	}
	if config.ScrollMargin < 0 {
		config.ScrollMargin = defaults.ScrollMargin
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = defaults.FetchTimeout
	}
	if config.ErrorBuffer <= 0 {
		config.ErrorBuffer = defaults.ErrorBuffer
	}

	c := &Controller{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "feed-controller").Logger(),
		coord:   NewCoordinator(config.PageSize, NewAccumulator()),
		trigger: NewScrollTrigger(config.ScrollMargin),
		changes: make(chan struct{}, 1),
		errs:    make(chan error, config.ErrorBuffer),
	}
	c.debouncer = NewDebouncer(config.Debounce, c.commitSearch)

	return c
}

// Open loads page 1 for the initial search term. Calling it again is a no-op.
func (c *Controller) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.opened {
		return nil
	}

	c.opened = true
	c.resetLocked(c.config.InitialSearch)
	return nil
}

// Search records raw search-box input. The feed resets once typing pauses
// for the debounce interval and the committed term differs from the current one.
func (c *Controller) Search(raw string) {
	c.debouncer.Submit(raw)
}

// commitSearch is called by the debouncer with a committed term.
func (c *Controller) commitSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.opened && term == c.coord.SearchTerm() {
		c.logger.Debug().Str("search", term).Msg("Search term unchanged, keeping feed")
		return
	}

	c.opened = true
	c.resetLocked(term)
}

// resetLocked restarts the feed for term and issues the page 1 request.
func (c *Controller) resetLocked(term string) {
	req, ok := c.coord.Reset(term)
	if !ok {
		return
	}

	c.logger.Info().Str("search", term).Msg("Feed reset")
	c.startLocked(req)
	c.syncLocked()
}

// Scroll reports the current viewport. When the last entry comes within the
// scroll margin of an idle feed, the next page is requested. It returns
// whether a request was issued.
func (c *Controller) Scroll(v Viewport) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	c.trigger.Sync(c.coord.Status(), c.coord.Len())
	if !c.trigger.Observe(v) {
		return false
	}

	c.logger.Debug().
		Int("top", v.Top).
		Int("height", v.Height).
		Int("sentinel", v.SentinelOffset).
		Msg("Scroll threshold reached")

	return c.requestNextLocked()
}

// RequestNextPage asks for the next page. It is a no-op while a request is
// live or once the feed is exhausted. From StatusFailed it retries the page
// that failed.
func (c *Controller) RequestNextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	return c.requestNextLocked()
}

// Retry re-attempts the failed request. It does nothing unless the feed is
// in StatusFailed.
func (c *Controller) Retry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.coord.Status() != StatusFailed {
		return false
	}

	c.logger.Info().Str("search", c.coord.SearchTerm()).Msg("Manual retry")
	return c.requestNextLocked()
}

func (c *Controller) requestNextLocked() bool {
	req, ok := c.coord.RequestNextPage()
	if !ok {
		return false
	}

	c.startLocked(req)
	c.syncLocked()
	return true
}

// startLocked runs the fetch for req in the background.
func (c *Controller) startLocked(req PageRequest) {
	feedFetchesTotal.Inc()
	feedFetchesInFlight.Inc()
	go c.fetch(req)
}

// fetch performs the I/O for req. The context is detached from resets and
// Close: a superseded fetch runs to completion and its result is dropped.
func (c *Controller) fetch(req PageRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.FetchTimeout)
	defer cancel()

	start := time.Now()
	result, err := c.fetcher.FetchPage(ctx, req.Page, req.PageSize, req.SearchTerm)
	feedFetchDuration.Observe(time.Since(start).Seconds())
	feedFetchesInFlight.Dec()

	c.complete(req, result, err)
}

// complete applies a finished fetch.
func (c *Controller) complete(req PageRequest, result PageResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		netErr, live := c.coord.Fail(req, err)
		if !live {
			return
		}
		c.syncLocked()
		c.report(netErr)
		return
	}

	outcome := c.coord.Resolve(req, result)
	if outcome == OutcomeStale {
		return
	}

	c.logger.Info().
		Int("page", req.Page).
		Str("search", req.SearchTerm).
		Int("entries", len(result.Entries)).
		Str("outcome", outcome.String()).
		Msg("Page loaded")
	c.syncLocked()
}

// syncLocked re-keys the scroll trigger and signals a change.
func (c *Controller) syncLocked() {
	c.trigger.Sync(c.coord.Status(), c.coord.Len())

	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// report delivers a one-shot failure notification.
func (c *Controller) report(err error) {
	select {
	case c.errs <- err:
	default:
		feedNotificationsDroppedTotal.Inc()
		c.logger.Warn().Err(err).Msg("Failure notification dropped, no reader")
	}
}

// Snapshot returns a copy of the current feed state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coord.State()
}

// Changes signals that the state may have changed. Signals coalesce; read
// Snapshot after each one.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// Errors delivers each surfaced failure once.
func (c *Controller) Errors() <-chan error {
	return c.errs
}

// Close tears the feed down. Pending search commits are cancelled and any
// live request is marked dead; its response is ignored when it arrives.
func (c *Controller) Close() error {
	// Stop the debouncer before taking c.mu: its commit callback takes c.mu.
	c.debouncer.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.coord.Close()
	c.trigger.Sync(StatusExhausted, c.coord.Len())

	c.logger.Debug().Msg("Feed closed")
	return nil
}
