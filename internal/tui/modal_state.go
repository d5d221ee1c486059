package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

type ModalType int

const (
	ModalNone ModalType = iota
	ModalForm
	ModalProjects
	ModalAlert
	ModalRitual
	ModalHelp
)

type ModalState interface {
	Type() ModalType
}

// FormPurpose decides what submitting a form does.
type FormPurpose int

const (
	FormNewTask FormPurpose = iota
	FormEditTask
	FormAddSubtask
	FormNewProject
	FormRenameProject
	FormSheetImport
	FormSprint
	FormFlashcards
	FormAsk
	FormAttachFile
	FormAddLink
	FormTimerSettings
	FormExport
	FormImport
)

type formField struct {
	label string
	input textinput.Model
}

// FormState is a small multi-field input dialog.
type FormState struct {
	Purpose FormPurpose
	Title   string
	Fields  []formField
	Focus   int
	Err     string
	// TargetID is the task or project the form edits.
	TargetID string
}

func (s *FormState) Type() ModalType { return ModalForm }

func (s *FormState) Value(i int) string {
	if i < 0 || i >= len(s.Fields) {
		return ""
	}
	return s.Fields[i].input.Value()
}

func (s *FormState) focusField(i int) {
	for j := range s.Fields {
		s.Fields[j].input.Blur()
	}
	if len(s.Fields) == 0 {
		return
	}
	s.Focus = (i + len(s.Fields)) % len(s.Fields)
	s.Fields[s.Focus].input.Focus()
}

type ProjectsState struct {
	Cursor  int
	Confirm string
}

func (s *ProjectsState) Type() ModalType { return ModalProjects }

// AlertState is a blocking notice that must be dismissed.
type AlertState struct {
	Title string
	Body  string
	Error bool
}

func (s *AlertState) Type() ModalType { return ModalAlert }

// RitualState asks for confirmation before a countdown starts.
type RitualState struct{}

func (s *RitualState) Type() ModalType { return ModalRitual }

type HelpState struct{}

func (s *HelpState) Type() ModalType { return ModalHelp }

// ModalManager tracks the open modal.
type ModalManager struct {
	current ModalState
}

func newModalManager() *ModalManager {
	return &ModalManager{}
}

func (m *ModalManager) ActiveModal() ModalType {
	if m.current == nil {
		return ModalNone
	}
	return m.current.Type()
}

func (m *ModalManager) IsOpen() bool {
	return m.current != nil
}

func (m *ModalManager) Current() ModalState {
	return m.current
}

func (m *ModalManager) Open(state ModalState) {
	m.current = state
}

func (m *ModalManager) Close() {
	m.current = nil
}

func (m *ModalManager) Is(t ModalType) bool {
	return m.current != nil && m.current.Type() == t
}

func (m *ModalManager) FormState() (*FormState, bool) {
	state, ok := m.current.(*FormState)
	return state, ok
}

func (m *ModalManager) ProjectsState() (*ProjectsState, bool) {
	state, ok := m.current.(*ProjectsState)
	return state, ok
}

func (m *ModalManager) AlertState() (*AlertState, bool) {
	state, ok := m.current.(*AlertState)
	return state, ok
}

func newField(label, placeholder, value string, limit int) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 44
	ti.SetValue(value)
	return formField{label: label, input: ti}
}

func newForm(purpose FormPurpose, title string, fields ...formField) *FormState {
	f := &FormState{Purpose: purpose, Title: title, Fields: fields}
	f.focusField(0)
	return f
}
