package pagination

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet interval before a search term is committed.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer delays committing a search term until input pauses.
// Every Submit restarts the quiet interval; only the latest term is committed.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	commit   func(term string)
	timer    *time.Timer
	seq      uint64
	stopped  bool
}

// NewDebouncer creates a debouncer that calls commit once per quiet interval.
// commit runs on a timer goroutine.
func NewDebouncer(interval time.Duration, commit func(term string)) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{
		interval: interval,
		commit:   commit,
	}
}

// Submit records the latest raw input and restarts the quiet interval.
func (d *Debouncer) Submit(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.interval, func() {
		d.fire(seq, term)
	})
}

// fire commits term unless a later Submit or Stop superseded it.
// The lock is held across commit so nothing fires after Stop returns.
func (d *Debouncer) fire(seq uint64, term string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || seq != d.seq {
		return
	}
	d.timer = nil
	debounceCommitsTotal.Inc()
	if d.commit != nil {
		d.commit(term)
	}
}

// Pending reports whether a commit is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending commit. After Stop returns no commit fires.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
