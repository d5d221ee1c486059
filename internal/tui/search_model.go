package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/studyboard/internal/util"
)

// SearchManager holds the board filter. The query stays applied after the input
// closes until it is cleared.
type SearchManager struct {
	Active bool
	Input  textinput.Model
	Query  util.SearchQuery
}

func NewSearchManager(input textinput.Model) SearchManager {
	return SearchManager{
		Input: input,
	}
}

func (s *SearchManager) Open() tea.Cmd {
	s.Active = true
	return s.Input.Focus()
}

func (s *SearchManager) Clear() {
	s.Active = false
	s.Input.Blur()
	s.Input.SetValue("")
	s.Query = util.SearchQuery{}
}

func (s *SearchManager) Filtering() bool {
	return !s.Query.Empty()
}

func (m Model) handleSearchKey(msg tea.KeyMsg, key string) (Model, tea.Cmd) {
	switch key {
	case "esc":
		m.search.Clear()
		m.board.clamp(m)
		return m, nil
	case "enter":
		m.search.Active = false
		m.search.Input.Blur()
		m.board.clamp(m)
		return m, nil
	}
	var cmd tea.Cmd
	m.search.Input, cmd = m.search.Input.Update(msg)
	m.search.Query = util.ParseSearchQuery(m.search.Input.Value())
	m.board.clamp(m)
	return m, cmd
}
