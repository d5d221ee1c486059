package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/store"
	"github.com/akyairhashvil/studyboard/internal/util"
)

func (m Model) handleModalKey(msg tea.KeyMsg, key string) (Model, tea.Cmd) {
	switch state := m.modals.Current().(type) {
	case *AlertState, *HelpState:
		if key == "enter" || key == "esc" || key == "q" || key == "?" {
			m.modals.Close()
		}
		return m, nil
	case *RitualState:
		switch key {
		case "y", "enter", "space":
			return m.confirmRitual(false)
		case "a":
			return m.confirmRitual(true)
		case "esc", "n":
			m.modals.Close()
		}
		return m, nil
	case *ProjectsState:
		return m.handleProjectsKey(state, key)
	case *FormState:
		return m.handleFormKey(state, msg, key)
	}
	return m, nil
}

func (m Model) handleFormKey(form *FormState, msg tea.KeyMsg, key string) (Model, tea.Cmd) {
	switch key {
	case "esc":
		m.modals.Close()
		return m, nil
	case "tab", "down":
		form.focusField(form.Focus + 1)
		return m, nil
	case "shift+tab", "up":
		form.focusField(form.Focus - 1)
		return m, nil
	case "enter":
		if m.busy != "" {
			return m, nil
		}
		form.Err = ""
		next, cmd, err := m.submitForm(form)
		if err != nil {
			form.Err = err.Error()
			return m, nil
		}
		return next, cmd
	}
	var cmd tea.Cmd
	form.Fields[form.Focus].input, cmd = form.Fields[form.Focus].input.Update(msg)
	return m, cmd
}

// submitForm acts on a completed form. A returned error keeps the form open with the
// message shown inline.
func (m Model) submitForm(form *FormState) (Model, tea.Cmd, error) {
	switch form.Purpose {
	case FormNewTask:
		t, err := taskFromForm(form, models.Task{Status: models.Columns[m.board.col]})
		if err != nil {
			return m, nil, err
		}
		if _, err := m.state().AddTask(m.ctx, t); err != nil {
			return m, nil, err
		}
		m.Message = "Added " + t.Title

	case FormEditTask:
		base, err := m.state().Task(form.TargetID)
		if err != nil {
			return m, nil, err
		}
		t, err := taskFromForm(form, base)
		if err != nil {
			return m, nil, err
		}
		if err := m.state().UpdateTask(m.ctx, t); err != nil {
			return m, nil, err
		}

	case FormAddSubtask:
		text := strings.TrimSpace(form.Value(0))
		if text == "" {
			return m, nil, store.ErrEmptyTitle
		}
		if err := m.state().AddSubtasks(m.ctx, form.TargetID, text); err != nil {
			return m, nil, err
		}

	case FormNewProject:
		if _, err := m.state().CreateProject(m.ctx, form.Value(0)); err != nil {
			return m, nil, err
		}
		m.modals.Close()
		return m.reloadProject(), nil, nil

	case FormRenameProject:
		if err := m.state().RenameProject(m.ctx, form.TargetID, form.Value(0)); err != nil {
			return m, nil, err
		}
		m.modals.Open(&ProjectsState{Cursor: m.projectIndex(form.TargetID)})
		return m, nil, nil

	case FormSheetImport:
		url := strings.TrimSpace(form.Value(0))
		if url == "" {
			return m, nil, errors.New("paste the sheet URL")
		}
		next, cmd := m.startBusy("importing sheet", sheetImportCmd(m.ctx, m.app.Sheets, m.state().ActiveID(), url, strings.TrimSpace(form.Value(1))))
		return next, cmd, nil

	case FormSprint:
		goal := strings.TrimSpace(form.Value(0))
		if goal == "" {
			return m, nil, errors.New("describe the goal")
		}
		days, err := strconv.Atoi(strings.TrimSpace(form.Value(1)))
		if err != nil || days < 1 || days > config.MaxSprintDays {
			return m, nil, fmt.Errorf("days must be between 1 and %d", config.MaxSprintDays)
		}
		next, ok := m.requireGenerator()
		if !ok {
			return next, nil, nil
		}
		next.modals.Close()
		next, cmd := next.startBusy("planning sprint", next.sprintCmd(goal, days, next.state().Active().Files))
		return next, cmd, nil

	case FormFlashcards:
		topic := strings.TrimSpace(form.Value(0))
		if topic == "" {
			return m, nil, errors.New("enter a topic")
		}
		count, err := strconv.Atoi(strings.TrimSpace(form.Value(1)))
		if err != nil || count < 1 || count > 50 {
			return m, nil, errors.New("card count must be between 1 and 50")
		}
		next, ok := m.requireGenerator()
		if !ok {
			return next, nil, nil
		}
		next.modals.Close()
		title := topic
		if form.TargetID != "" {
			if t, err := next.state().Task(form.TargetID); err == nil {
				title = t.Title
			}
		}
		cmd := next.flashcardsCmd(form.TargetID, title, topic, count, next.state().Active().Files)
		next, cmd = next.startBusy("writing flashcards", cmd)
		return next, cmd, nil

	case FormAsk:
		q := strings.TrimSpace(form.Value(0))
		if q == "" {
			return m, nil, errors.New("type a question")
		}
		next, ok := m.requireGenerator()
		if !ok {
			return next, nil, nil
		}
		next.modals.Close()
		next, cmd := next.startBusy("thinking", next.askCmd(q, next.state().Active().Files))
		return next, cmd, nil

	case FormAttachFile:
		next, err := m.attachPath(form.Value(0), form.TargetID)
		if err != nil {
			return m, nil, err
		}
		m = next

	case FormAddLink:
		f, err := m.state().AttachLink(m.ctx, form.Value(0), form.Value(1))
		if err != nil {
			return m, nil, err
		}
		m.Message = "Linked " + f.Name

	case FormTimerSettings:
		settings, err := timerSettingsFromForm(form)
		if err != nil {
			return m, nil, err
		}
		if err := m.state().UpdateTimerSettings(m.ctx, settings); err != nil {
			return m, nil, err
		}
		m.timer.SetSettings(settings)
		if !m.timer.Running() {
			m.timer.Reset()
		}

	case FormExport:
		path, err := config.ExpandPath(strings.TrimSpace(form.Value(0)))
		if err != nil || path == "" {
			return m, nil, errors.New("choose a file to write")
		}
		data, err := m.state().Export(m.ctx, m.state().ActiveID(), store.ExportOptions{
			WithFiles:  yes(form.Value(2)),
			Passphrase: form.Value(1),
		})
		if err != nil {
			return m, nil, err
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return m, nil, err
		}
		m.Message = "Exported to " + path

	case FormImport:
		path, err := config.ExpandPath(strings.TrimSpace(form.Value(0)))
		if err != nil || path == "" {
			return m, nil, errors.New("choose a file to read")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return m, nil, err
		}
		p, err := m.state().Import(m.ctx, data, form.Value(1))
		if err != nil {
			return m, nil, err
		}
		m.modals.Close()
		m = m.reloadProject()
		m.Message = fmt.Sprintf("Imported %q with %d tasks.", p.Name, len(p.Tasks))
		return m, nil, nil
	}
	m.modals.Close()
	m.board.clamp(m)
	return m, nil, nil
}

func yes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

func handleOpenProjects(m Model, _ string) (Model, tea.Cmd, bool) {
	m.modals.Open(&ProjectsState{Cursor: m.projectIndex(m.state().ActiveID())})
	return m, nil, true
}

func (m Model) projectIndex(id string) int {
	for i, p := range m.state().Projects() {
		if p.ID == id {
			return i
		}
	}
	return 0
}

// handleProjectsKey drives the project switcher. Deleting asks for a second press.
func (m Model) handleProjectsKey(ps *ProjectsState, key string) (Model, tea.Cmd) {
	projects := m.state().Projects()
	if key != "d" {
		ps.Confirm = ""
	}
	switch key {
	case "esc", "q", "P":
		m.modals.Close()
	case "j", "down":
		ps.Cursor = util.Clamp(ps.Cursor+1, 0, len(projects)-1)
	case "k", "up":
		ps.Cursor = util.Clamp(ps.Cursor-1, 0, len(projects)-1)
	case "enter":
		if err := m.state().SetActive(m.ctx, projects[ps.Cursor].ID); err != nil {
			return m.alertErr("Could not switch project", err), nil
		}
		m.modals.Close()
		return m.reloadProject(), nil
	case "n":
		m.modals.Open(newForm(FormNewProject, "New project",
			newField("Name", "Organic Chemistry", "", config.MaxTitleLength)))
		return m, textinput.Blink
	case "r":
		p := projects[ps.Cursor]
		form := newForm(FormRenameProject, "Rename project", newField("Name", "", p.Name, config.MaxTitleLength))
		form.TargetID = p.ID
		m.modals.Open(form)
		return m, textinput.Blink
	case "i":
		m.modals.Open(newForm(FormImport, "Import project",
			newField("File", "project.json", "", 500),
			newField("Passphrase", "only for encrypted exports", "", 128)))
		if form, ok := m.modals.FormState(); ok {
			form.Fields[1].input.EchoMode = textinput.EchoPassword
		}
		return m, textinput.Blink
	case "d":
		p := projects[ps.Cursor]
		if ps.Confirm != p.ID {
			ps.Confirm = p.ID
			return m, nil
		}
		ps.Confirm = ""
		wasActive := p.ID == m.state().ActiveID()
		if err := m.state().DeleteProject(m.ctx, p.ID); err != nil {
			if errors.Is(err, store.ErrLastProject) {
				m.modals.Close()
				return m.alert("Cannot delete", "At least one project must remain."), nil
			}
			return m.alertErr("Could not delete project", err), nil
		}
		ps.Cursor = util.Clamp(ps.Cursor, 0, len(m.state().Projects())-1)
		if wasActive {
			m = m.reloadProject()
		}
	}
	return m, nil
}

func (m Model) renderModal() string {
	switch state := m.modals.Current().(type) {
	case *AlertState:
		title := m.theme.Header.Render(state.Title)
		if state.Error {
			title = m.theme.Error.Render(state.Title)
		}
		width := max(min(m.width-10, 70), 30)
		body := wrapText(state.Body, width)
		return m.theme.Modal.Render(title + "\n\n" + body + "\n\n" + m.theme.Dim.Render("[enter] dismiss"))
	case *HelpState:
		return m.renderHelp()
	case *RitualState:
		return m.renderRitual()
	case *ProjectsState:
		return m.renderProjects(state)
	case *FormState:
		return m.renderForm(state)
	}
	return ""
}

func (m Model) renderForm(form *FormState) string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render(form.Title))
	b.WriteString("\n")
	for i, f := range form.Fields {
		label := m.theme.Dim.Render(f.label)
		if i == form.Focus {
			label = m.theme.Focused.Render(f.label)
		}
		b.WriteString("\n" + label + "\n" + f.input.View())
	}
	if form.Err != "" {
		b.WriteString("\n\n" + m.theme.Error.Render(form.Err))
	}
	hint := "[enter] submit  [tab] next field  [esc] cancel"
	if m.busy != "" {
		hint = m.spinner.View() + " " + m.busy + "..."
	}
	b.WriteString("\n\n" + m.theme.Dim.Render(hint))
	return m.theme.Modal.Render(b.String())
}

func (m Model) renderProjects(ps *ProjectsState) string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render("Projects"))
	activeID := m.state().ActiveID()
	for i, p := range m.state().Projects() {
		cursor := "  "
		if i == ps.Cursor {
			cursor = "> "
		}
		name := p.Name
		if p.ID == activeID {
			name += " (active)"
		}
		line := fmt.Sprintf("%s%s %s", cursor, name, m.theme.Dim.Render(fmt.Sprintf("%d tasks", len(p.Tasks))))
		if i == ps.Cursor {
			line = m.theme.Focused.Render(line)
		}
		b.WriteString("\n" + line)
	}
	hint := "[enter] open  [n] new  [r] rename  [i] import  [d] delete  [esc] close"
	if ps.Confirm != "" {
		hint = m.theme.Error.Render("Press d again to delete this project and its files.")
	}
	b.WriteString("\n\n" + m.theme.Dim.Render(hint))
	return m.theme.Modal.Render(b.String())
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render("Keys: " + m.view.String()))
	for _, binding := range m.keys.Described(m.view) {
		b.WriteString(fmt.Sprintf("\n%-12s %s", binding.Label, binding.Description))
	}
	return m.theme.Modal.Render(b.String())
}
