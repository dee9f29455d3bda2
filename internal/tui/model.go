// Package tui renders the staff operation-log feed in the terminal.
package tui

import (
	"github.com/Sternrassler/oplog-feed/pkg/pagination"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Feed is the feed controller as seen by the UI.
type Feed interface {
	Open() error
	Search(raw string)
	Scroll(v pagination.Viewport) bool
	Retry() bool
	Snapshot() pagination.State
	Changes() <-chan struct{}
	Errors() <-chan error
	Close() error
}

// chromeRows is the number of rows not available to the list: title,
// search box, blank line, status line and help line.
const chromeRows = 5

// defaultListRows is used until the terminal reports its size.
const defaultListRows = 20

// Model represents the TUI application state
type Model struct {
	feed    Feed
	search  textinput.Model
	spinner spinner.Model
	logger  zerolog.Logger

	state   pagination.State
	offset  int // first visible entry
	notice  string
	width   int
	height  int
	lastRaw string
}

// Message types for Bubbletea update loop
type changedMsg struct{}

type failedMsg struct {
	err error
}

// NewModel creates a new TUI model for feed. initialSearch pre-fills the
// search box; it should match the feed's initial search term.
func NewModel(feed Feed, initialSearch string) Model {
	ti := textinput.New()
	ti.Placeholder = "staff, operation, description..."
	ti.Prompt = ""
	ti.CharLimit = 128
	ti.SetValue(initialSearch)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		feed:    feed,
		search:  ti,
		spinner: sp,
		logger:  log.With().Str("component", "tui").Logger(),
		state:   feed.Snapshot(),
		lastRaw: initialSearch,
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		openFeed(m.feed),
		waitForChange(m.feed),
		waitForError(m.feed),
		m.spinner.Tick,
	)
}

// listRows is the number of entry rows that fit on screen.
func (m Model) listRows() int {
	if m.height <= 0 {
		return defaultListRows
	}
	if rows := m.height - chromeRows; rows > 1 {
		return rows
	}
	return 1
}

// viewport reports the visible window in rows. The sentinel is the row just
// after the last entry.
func (m Model) viewport() pagination.Viewport {
	return pagination.Viewport{
		Top:            m.offset,
		Height:         m.listRows(),
		SentinelOffset: len(m.state.Entries),
	}
}

// maxOffset is the largest offset that still fills the list.
func (m Model) maxOffset() int {
	if n := len(m.state.Entries) - m.listRows(); n > 0 {
		return n
	}
	return 0
}
