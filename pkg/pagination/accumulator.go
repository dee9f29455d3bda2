package pagination

import (
	"github.com/Sternrassler/oplog-feed/pkg/oplog"
)

// Accumulator holds the displayed, ordered list of entries.
// Page 1 replaces the list; any other page is appended to the tail.
// Entries are never deduplicated or reordered: pages are disjoint by
// contract with the backend.
type Accumulator struct {
	entries []oplog.Entry
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Apply merges a page result into the list.
func (a *Accumulator) Apply(result PageResult) {
	if result.Page == 1 {
		a.entries = append(make([]oplog.Entry, 0, len(result.Entries)), result.Entries...)
		return
	}
	a.entries = append(a.entries, result.Entries...)
}

// Reset empties the list.
func (a *Accumulator) Reset() {
	a.entries = nil
}

// Len returns the number of accumulated entries.
func (a *Accumulator) Len() int {
	return len(a.entries)
}

// Entries returns a copy of the accumulated entries.
func (a *Accumulator) Entries() []oplog.Entry {
	out := make([]oplog.Entry, len(a.entries))
	copy(out, a.entries)
	return out
}
