package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// openFeed loads the first page.
func openFeed(feed Feed) tea.Cmd {
	return func() tea.Msg {
		if err := feed.Open(); err != nil {
			return failedMsg{err: err}
		}
		return nil
	}
}

// waitForChange waits for the next feed change signal
func waitForChange(feed Feed) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-feed.Changes(); !ok {
			return nil
		}
		return changedMsg{}
	}
}

// waitForError waits for the next surfaced failure
func waitForError(feed Feed) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-feed.Errors()
		if !ok {
			return nil
		}
		return failedMsg{err: err}
	}
}
