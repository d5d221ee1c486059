package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func setMessage(text string, handled bool) KeyHandler {
	return func(m Model, _ string) (Model, tea.Cmd, bool) {
		m.Message = text
		return m, nil, handled
	}
}

func TestRegistryPrefersViewBindings(t *testing.T) {
	r := NewHandlerRegistry()
	r.Bind([]string{"x"}, "global", nil, setMessage("global", true))
	r.Bind([]string{"x"}, "board", []View{ViewBoard}, setMessage("board", true))

	m, _, ok := r.Handle(Model{view: ViewBoard}, "x")
	if !ok || m.Message != "board" {
		t.Fatalf("expected board binding, got %q (handled=%v)", m.Message, ok)
	}
	m, _, ok = r.Handle(Model{view: ViewTimer}, "x")
	if !ok || m.Message != "global" {
		t.Fatalf("expected global binding on timer, got %q", m.Message)
	}
}

func TestRegistryFallsThroughUnhandled(t *testing.T) {
	r := NewHandlerRegistry()
	r.Bind([]string{"up"}, "subtask", []View{ViewBoard}, setMessage("subtask", false))
	r.Bind([]string{"up"}, "row", nil, setMessage("row", true))

	m, _, ok := r.Handle(Model{view: ViewBoard}, "up")
	if !ok || m.Message != "row" {
		t.Fatalf("expected fall-through to row binding, got %q", m.Message)
	}
	if _, _, ok := r.Handle(Model{view: ViewBoard}, "z"); ok {
		t.Fatalf("unbound key should not be handled")
	}
}

func TestHelpListsAliasesOnce(t *testing.T) {
	r := NewHandlerRegistry()
	r.Bind([]string{"k", "up"}, "up", []View{ViewBoard}, setMessage("", true))
	help := r.HelpForView(ViewBoard)
	if help != "[k/up]up" {
		t.Fatalf("unexpected help %q", help)
	}
	if strings.Contains(r.HelpForView(ViewFiles), "k/up") {
		t.Fatalf("board binding leaked into files help")
	}
}
