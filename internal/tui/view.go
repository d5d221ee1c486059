package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/timer"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var body string
	switch m.view {
	case ViewBoard:
		body = m.renderBoard()
	case ViewTimer:
		body = m.renderTimer()
	case ViewNotes:
		body = m.renderNotes()
	case ViewFlashcards:
		body = m.renderFlashcards()
	case ViewFiles:
		body = m.renderFiles()
	}
	screen := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", body, "", m.renderFooter())
	if m.modals.IsOpen() {
		modal := m.renderModal()
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return screen + "\n\n" + modal
	}
	return m.theme.Base.Render(screen)
}

func (m Model) renderHeader() string {
	p := m.state().Active()
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if View(i) == m.view {
			tabs = append(tabs, m.theme.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(label))
		}
	}
	title := m.theme.Header.Render(ansi.Truncate(p.Name, config.TargetTitleWidth, config.TruncationSuffix))
	header := title + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.timer.Running() {
		header += "  " + m.theme.Break.Render(m.timerBadge())
	}
	return header
}

func (m Model) timerBadge() string {
	now := m.now()
	if m.timer.Mode() == timer.Stopwatch {
		return "Stopwatch " + timer.Format(m.timer.Elapsed(now))
	}
	return m.timer.Preset().Label() + " " + timer.Format(m.timer.Remaining(now))
}

func (m Model) renderFooter() string {
	var lines []string
	if t, left, ok := m.state().PendingUndo(); ok {
		secs := int(math.Ceil(left.Seconds()))
		lines = append(lines, m.theme.Highlight.Render(fmt.Sprintf("Deleted %q. Press u to undo (%ds).", t.Title, secs)))
	} else if m.Message != "" {
		lines = append(lines, m.theme.Success.Render(m.Message))
	}
	if m.busy != "" {
		lines = append(lines, m.spinner.View()+" "+m.busy+"...")
	}
	help := m.keys.HelpForView(m.view)
	if m.width > 0 {
		help = ansi.Truncate(help, m.width-4, config.TruncationSuffix)
	}
	lines = append(lines, m.theme.Dim.Render(help))
	return strings.Join(lines, "\n")
}
