package tui

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/oplog-feed/pkg/oplog"
	"github.com/Sternrassler/oplog-feed/pkg/pagination"
	"github.com/charmbracelet/lipgloss"
)

const timeLayout = "2006-01-02 15:04"

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Staff operation logs"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Search: "))
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	entries := m.state.Entries
	end := m.offset + m.listRows()
	if end > len(entries) {
		end = len(entries)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderEntry(entries[i]))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))

	return b.String()
}

func (m Model) renderEntry(e oplog.Entry) string {
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		timeStyle.Render(e.Time.Local().Format(timeLayout)),
		" ",
		staffStyle.Render(e.Staff),
		" ",
		operationStyle.Render(e.OperationType),
		" ",
		e.Description,
	)
	if e.Resource != "" {
		row += timeStyle.Render(" [" + e.Resource + "]")
	}
	if m.width > 0 {
		row = lipgloss.NewStyle().MaxWidth(m.width).Render(row)
	}
	return row
}

func (m Model) renderStatus() string {
	s := m.state
	switch s.Status {
	case pagination.StatusFetching:
		return m.spinner.View() + statusStyle.Render(" Loading...")
	case pagination.StatusFailed:
		msg := s.ErrorMessage()
		if msg == "" {
			msg = m.notice
		}
		return errorStyle.Render(fmt.Sprintf("Failed to load: %s (press r to retry)", msg))
	case pagination.StatusExhausted:
		if len(s.Entries) == 0 {
			if s.SearchTerm != "" {
				return statusStyle.Render(fmt.Sprintf("No operation logs match %q", s.SearchTerm))
			}
			return statusStyle.Render("No operation logs")
		}
		return statusStyle.Render(fmt.Sprintf("End of feed (%d entries)", len(s.Entries)))
	default:
		return statusStyle.Render(fmt.Sprintf("%d entries, page %d of %d", len(s.Entries), s.CurrentPage, s.TotalPages))
	}
}

func (m Model) help() string {
	if m.search.Focused() {
		return "type to search • enter/esc: done • ↑/↓ pgup/pgdown: scroll • ctrl+c: quit"
	}
	return "/: search • j/k ↑/↓ pgup/pgdown: scroll • g/G: top/bottom • r: retry • q: quit"
}
