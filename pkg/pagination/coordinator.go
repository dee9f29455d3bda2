package pagination

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Outcome describes what Resolve did with a page result.
type Outcome int

const (
	// OutcomeStale means the result belonged to a dead token and was dropped.
	OutcomeStale Outcome = iota

	// OutcomeApplied means the result was applied and more pages may exist.
	OutcomeApplied

	// OutcomeLastPage means the result was applied and it was the final page.
	OutcomeLastPage

	// OutcomeEmpty means the result had no entries; the feed is exhausted.
	OutcomeEmpty
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeStale:
		return "stale"
	case OutcomeApplied:
		return "applied"
	case OutcomeLastPage:
		return "last_page"
	case OutcomeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Coordinator is the fetch-sequencing state machine. It decides which page
// to request next, enforces at most one live request, and drops responses
// whose token is no longer live. It performs no I/O and is not safe for
// concurrent use; Controller serialises access to it.
type Coordinator struct {
	pageSize    int
	acc         *Accumulator
	currentPage int
	totalPages  int
	searchTerm  string
	status      Status
	activeToken Token
	lastToken   Token
	err         error
	closed      bool
	logger      zerolog.Logger
}

// NewCoordinator creates a coordinator in its initial form: idle, page 0,
// no entries. pageSize values below 1 fall back to DefaultPageSize.
func NewCoordinator(pageSize int, acc *Accumulator) *Coordinator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if acc == nil {
		acc = NewAccumulator()
	}
	return &Coordinator{
		pageSize:   pageSize,
		acc:        acc,
		totalPages: 1,
		status:     StatusIdle,
		logger:     log.With().Str("component", "feed-coordinator").Logger(),
	}
}

// Reset kills the live token, returns the feed to its initial form for term,
// and issues the page 1 request. It returns false once the coordinator is closed.
func (c *Coordinator) Reset(term string) (PageRequest, bool) {
	if c.closed {
		return PageRequest{}, false
	}

	if c.activeToken != 0 {
		c.logger.Debug().
			Uint64("token", uint64(c.activeToken)).
			Str("search", c.searchTerm).
			Msg("Invalidating live request on reset")
	}

	c.activeToken = 0
	c.currentPage = 0
	c.totalPages = 1
	c.status = StatusIdle
	c.searchTerm = term
	c.err = nil
	c.acc.Reset()

	feedResetsTotal.Inc()
	return c.issue(1), true
}

// RequestNextPage issues the next page request. It is a no-op unless the feed
// is idle, or failed (manual retry). Fetching and exhausted feeds never start
// a second download.
func (c *Coordinator) RequestNextPage() (PageRequest, bool) {
	if c.closed {
		return PageRequest{}, false
	}

	switch c.status {
	case StatusIdle, StatusFailed:
		return c.issue(c.currentPage + 1), true
	default:
		c.logger.Debug().
			Str("status", c.status.String()).
			Msg("Next page request ignored")
		return PageRequest{}, false
	}
}

// issue mints a fresh token and makes it the only live one.
func (c *Coordinator) issue(page int) PageRequest {
	c.lastToken++
	c.activeToken = c.lastToken
	c.status = StatusFetching
	c.err = nil

	req := PageRequest{
		Page:       page,
		PageSize:   c.pageSize,
		SearchTerm: c.searchTerm,
		Token:      c.activeToken,
	}

	c.logger.Debug().
		Int("page", req.Page).
		Int("page_size", req.PageSize).
		Str("search", req.SearchTerm).
		Uint64("token", uint64(req.Token)).
		Msg("Issuing page request")

	return req
}

// isLive reports whether req still owns the live token.
func (c *Coordinator) isLive(req PageRequest) bool {
	return !c.closed && req.Token != 0 && req.Token == c.activeToken
}

// Resolve handles a successful fetch for req.
func (c *Coordinator) Resolve(req PageRequest, result PageResult) Outcome {
	if !c.isLive(req) {
		feedStaleResponsesTotal.Inc()
		c.logger.Debug().
			Int("page", req.Page).
			Str("search", req.SearchTerm).
			Uint64("token", uint64(req.Token)).
			Uint64("active_token", uint64(c.activeToken)).
			Msg("Dropping stale page result")
		return OutcomeStale
	}

	c.activeToken = 0

	if result.Page <= 0 {
		result.Page = req.Page
	}

	var outcome Outcome
	switch {
	case len(result.Entries) == 0:
		// An empty page ends the feed even when totalPages says otherwise.
		c.status = StatusExhausted
		outcome = OutcomeEmpty
	case result.Page >= result.TotalPages:
		c.acc.Apply(result)
		c.advance(result)
		c.status = StatusExhausted
		outcome = OutcomeLastPage
	default:
		c.acc.Apply(result)
		c.advance(result)
		c.status = StatusIdle
		outcome = OutcomeApplied
	}

	feedPageOutcomesTotal.WithLabelValues(outcome.String()).Inc()
	c.logger.Debug().
		Int("page", result.Page).
		Int("total_pages", result.TotalPages).
		Int("entries", len(result.Entries)).
		Str("outcome", outcome.String()).
		Str("status", c.status.String()).
		Msg("Page result resolved")

	return outcome
}

// advance records the applied page, keeping currentPage <= totalPages.
func (c *Coordinator) advance(result PageResult) {
	c.currentPage = result.Page
	c.totalPages = result.TotalPages
	if c.totalPages < c.currentPage {
		c.totalPages = c.currentPage
	}
}

// Fail handles a failed fetch for req. It returns the surfaced error and true
// when req was live; failures of dead requests are dropped.
func (c *Coordinator) Fail(req PageRequest, err error) (*NetworkError, bool) {
	if !c.isLive(req) {
		feedStaleResponsesTotal.Inc()
		c.logger.Debug().
			Err(err).
			Int("page", req.Page).
			Uint64("token", uint64(req.Token)).
			Msg("Dropping stale fetch failure")
		return nil, false
	}

	netErr := asNetworkError(req, err)
	c.activeToken = 0
	c.status = StatusFailed
	c.err = netErr

	feedPageOutcomesTotal.WithLabelValues("failed").Inc()
	c.logger.Warn().
		Err(err).
		Int("page", req.Page).
		Str("search", req.SearchTerm).
		Msg("Page fetch failed")

	return netErr, true
}

// Close kills the live token. Later results are dropped and no further
// requests are issued.
func (c *Coordinator) Close() {
	c.closed = true
	c.activeToken = 0
}

// Status returns the current fetch status.
func (c *Coordinator) Status() Status {
	return c.status
}

// Len returns the number of displayed entries.
func (c *Coordinator) Len() int {
	return c.acc.Len()
}

// SearchTerm returns the committed search term.
func (c *Coordinator) SearchTerm() string {
	return c.searchTerm
}

// State returns a copy of the feed state.
func (c *Coordinator) State() State {
	return State{
		Entries:     c.acc.Entries(),
		CurrentPage: c.currentPage,
		TotalPages:  c.totalPages,
		SearchTerm:  c.searchTerm,
		Status:      c.status,
		ActiveToken: c.activeToken,
		Err:         c.err,
	}
}
