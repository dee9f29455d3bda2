package pagination

import (
	"github.com/Sternrassler/oplog-feed/pkg/oplog"
)

// Token identifies one fetch attempt. Tokens are minted in increasing order;
// the zero Token means no attempt is live.
type Token uint64

// PageRequest is a single "fetch page N for term T" attempt.
type PageRequest struct {
	Page       int
	PageSize   int
	SearchTerm string
	Token      Token
}

// PageResult is one page of entries as returned by the backend.
// Entries keep backend ordering.
type PageResult struct {
	Entries    []oplog.Entry `json:"data"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// Status is the fetch state of the feed.
type Status int

const (
	// StatusIdle means no fetch is running and more pages may exist.
	StatusIdle Status = iota

	// StatusFetching means exactly one request is live.
	StatusFetching

	// StatusExhausted means no further page will be requested for the current term.
	StatusExhausted

	// StatusFailed means the last request failed; only a manual retry continues.
	StatusFailed
)

// String returns the lower-case status name used in logs and metrics.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusFetching:
		return "fetching"
	case StatusExhausted:
		return "exhausted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the feed. TotalPages is 1 until the first
// page arrives. Err is the failure that moved the feed to StatusFailed.
type State struct {
	Entries     []oplog.Entry
	CurrentPage int
	TotalPages  int
	SearchTerm  string
	Status      Status
	ActiveToken Token
	Err         error
}

// Loading reports whether a request is live.
func (s State) Loading() bool {
	return s.Status == StatusFetching
}

// ErrorMessage returns the failure text for display, or "" when not failed.
func (s State) ErrorMessage() string {
	if s.Status != StatusFailed || s.Err == nil {
		return ""
	}
	return s.Err.Error()
}
