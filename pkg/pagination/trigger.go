package pagination

// DefaultScrollMargin is how close, in pixels, the sentinel must come to the
// bottom of the viewport before the next page is requested.
const DefaultScrollMargin = 200

// Viewport describes the visible window over the rendered list, in the
// render layer's units (pixels, or rows for a terminal).
type Viewport struct {
	// Top is the offset of the first visible unit.
	Top int

	// Height is the visible extent.
	Height int

	// SentinelOffset is the offset of the last rendered entry.
	SentinelOffset int
}

// distance returns how far the sentinel lies below the viewport bottom.
// Zero or negative means the sentinel is visible.
func (v Viewport) distance() int {
	return v.SentinelOffset - (v.Top + v.Height)
}

// triggerKey identifies the sentinel being observed. The sentinel changes
// whenever the list grows, and observation only makes sense while idle.
type triggerKey struct {
	status Status
	count  int
}

// ScrollTrigger watches the last rendered entry and reports when it comes
// within Margin of the viewport. It emits at most once per observation
// session; a session starts when Sync sees a new (status, count) pair with
// the feed idle and ends when either changes.
type ScrollTrigger struct {
	margin    int
	key       triggerKey
	connected bool
	fired     bool
}

// NewScrollTrigger creates a disconnected trigger. A margin below 0 falls
// back to DefaultScrollMargin.
func NewScrollTrigger(margin int) *ScrollTrigger {
	if margin < 0 {
		margin = DefaultScrollMargin
	}
	return &ScrollTrigger{margin: margin}
}

// Sync reconnects the observer for the current feed status and entry count.
// Any status other than idle leaves the trigger disconnected, so fetching,
// exhausted and failed feeds are never continued by scrolling.
func (t *ScrollTrigger) Sync(status Status, count int) {
	key := triggerKey{status: status, count: count}
	if t.connected && key == t.key {
		return
	}

	t.key = key
	t.fired = false
	t.connected = status == StatusIdle && count > 0
}

// Connected reports whether the trigger is observing a sentinel.
func (t *ScrollTrigger) Connected() bool {
	return t.connected
}

// Observe reports a viewport position. It returns true exactly once per
// session, when the sentinel first comes within the margin.
func (t *ScrollTrigger) Observe(v Viewport) bool {
	if !t.connected || t.fired {
		return false
	}
	if v.distance() > t.margin {
		return false
	}

	t.fired = true
	return true
}
