package tui

import (
	"github.com/Sternrassler/oplog-feed/pkg/pagination"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = msg.Width - len("Search: ") - 2
		m.clampOffset()
		m.observe()

	case changedMsg:
		m.state = m.feed.Snapshot()
		if m.state.Status != pagination.StatusFailed {
			m.notice = ""
		}
		m.clampOffset()
		m.observe()
		return m, waitForChange(m.feed)

	case failedMsg:
		m.notice = msg.err.Error()
		m.logger.Warn().Err(msg.err).Msg("Feed failure surfaced")
		return m, waitForError(m.feed)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.feed.Close()
		return m, tea.Quit

	case "up":
		m.scrollBy(-1)
		return m, nil
	case "down":
		m.scrollBy(1)
		return m, nil
	case "pgup":
		m.scrollBy(-m.listRows())
		return m, nil
	case "pgdown":
		m.scrollBy(m.listRows())
		return m, nil
	}

	if m.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.search.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if raw := m.search.Value(); raw != m.lastRaw {
			m.lastRaw = raw
			m.feed.Search(raw)
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.feed.Close()
		return m, tea.Quit

	case "/":
		return m, m.search.Focus()

	case "k":
		m.scrollBy(-1)
	case "j":
		m.scrollBy(1)

	case "home", "g":
		m.offset = 0
		m.observe()
	case "end", "G":
		m.offset = m.maxOffset()
		m.observe()

	case "r":
		if m.feed.Retry() {
			m.notice = ""
		}
	}

	return m, nil
}

// scrollBy moves the list and reports the new viewport to the feed.
func (m *Model) scrollBy(rows int) {
	m.offset += rows
	m.clampOffset()
	m.observe()
}

func (m *Model) clampOffset() {
	if m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// observe reports the current viewport so the feed can load more when the
// end of the list comes into view.
func (m *Model) observe() {
	m.feed.Scroll(m.viewport())
}
