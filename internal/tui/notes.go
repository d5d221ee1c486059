package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func handleEditNotes(m Model, _ string) (Model, tea.Cmd, bool) {
	cmd := m.notes.Focus()
	return m, cmd, true
}

// handleNotesEditing feeds keys to the brain dump. esc leaves and saves, ctrl+s saves
// in place.
func (m Model) handleNotesEditing(msg tea.KeyMsg, key string) (Model, tea.Cmd) {
	switch key {
	case "esc":
		m.notes.Blur()
		return m.saveNotes(), nil
	case "ctrl+s":
		return m.saveNotes(), nil
	}
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

func (m Model) saveNotes() Model {
	value := m.notes.Value()
	if value == m.state().Active().Notes {
		return m
	}
	if err := m.state().UpdateNotes(m.ctx, value); err != nil {
		return m.alertErr("Could not save notes", err)
	}
	m.Message = fmt.Sprintf("Notes saved (%d characters).", len([]rune(value)))
	return m
}

func (m Model) renderNotes() string {
	title := m.theme.Header.Render("Brain Dump")
	hint := m.theme.Dim.Render("[enter] edit")
	if m.notes.Focused() {
		hint = m.theme.Dim.Render("[esc] save and leave  [ctrl+s] save")
	}
	return title + "\n" + m.notes.View() + "\n" + hint
}
