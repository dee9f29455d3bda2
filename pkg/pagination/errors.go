package pagination

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed Controller.
var ErrClosed = errors.New("feed controller closed")

// NetworkError is the only failure surfaced by the feed. Transport failures,
// non-success responses and decode failures all end up here.
type NetworkError struct {
	Page       int
	SearchTerm string
	Err        error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.SearchTerm != "" {
		return fmt.Sprintf("load page %d for %q: %v", e.Page, e.SearchTerm, e.Err)
	}
	return fmt.Sprintf("load page %d: %v", e.Page, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// asNetworkError returns err as a *NetworkError, wrapping it when the fetcher
// returned some other error type.
func asNetworkError(req PageRequest, err error) *NetworkError {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}
	return &NetworkError{
		Page:       req.Page,
		SearchTerm: req.SearchTerm,
		Err:        err,
	}
}
