// Package oplog holds the staff operation-log record shown by the feed.
package oplog

import (
	"strings"
	"time"
)

// Entry is one staff operation-log record as returned by the backend.
// Entries are produced only by the backend and are never mutated by the feed.
type Entry struct {
	// Staff is the display name of the staff member who performed the operation
	Staff string `json:"staff"`

	// OperationType is the kind of operation (e.g. "create", "update", "delete")
	OperationType string `json:"operation_type"`

	// Time is when the operation happened
	Time time.Time `json:"time"`

	// Description is the human-readable summary of the operation
	Description string `json:"description"`

	// Resource names the record that was touched (customer, supplier, opportunity, ...)
	Resource string `json:"resource"`
}

// Matches reports whether the entry matches a search term.
// The empty term matches everything. Matching is case-insensitive on
// staff, operation type, description and resource.
func (e Entry) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{e.Staff, e.OperationType, e.Description, e.Resource} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
