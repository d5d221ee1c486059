package tui

import (
	"cmp"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler reacts to a key. handled=false lets lower-priority bindings try.
type KeyHandler func(m Model, key string) (Model, tea.Cmd, bool)

// KeyBinding maps one key to a handler. View-scoped bindings outrank global ones.
type KeyBinding struct {
	Key         string
	Label       string
	Handler     KeyHandler
	Description string
	Views       []View
	Priority    int
}

func (b KeyBinding) AppliesToView(v View) bool {
	return len(b.Views) == 0 || slices.Contains(b.Views, v)
}

type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	if b.Label == "" {
		b.Label = b.Key
	}
	r.bindings = append(r.bindings, b)
	slices.SortStableFunc(r.bindings, func(a, b KeyBinding) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
}

// Bind registers one handler under several keys. The first key carries the
// description, labelled with every alias.
func (r *HandlerRegistry) Bind(keys []string, desc string, views []View, h KeyHandler) {
	label := strings.Join(keys, "/")
	for i, k := range keys {
		b := KeyBinding{Key: k, Label: label, Handler: h, Views: views, Priority: min(len(views), 1)}
		if i == 0 {
			b.Description = desc
		}
		r.Register(b)
	}
}

func (r *HandlerRegistry) Handle(m Model, key string) (Model, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if b.Key != key || !b.AppliesToView(m.view) {
			continue
		}
		if next, cmd, handled := b.Handler(m, key); handled {
			return next, cmd, true
		}
	}
	return m, nil, false
}

// Described returns the bindings for v that appear in help, one per handler.
func (r *HandlerRegistry) Described(v View) []KeyBinding {
	seen := make(map[string]bool)
	var out []KeyBinding
	for _, b := range r.bindings {
		if b.Description == "" || !b.AppliesToView(v) || seen[b.Key] {
			continue
		}
		seen[b.Key] = true
		out = append(out, b)
	}
	return out
}

func (r *HandlerRegistry) HelpForView(v View) string {
	var parts []string
	for _, b := range r.Described(v) {
		parts = append(parts, "["+b.Label+"]"+b.Description)
	}
	return strings.Join(parts, " ")
}
