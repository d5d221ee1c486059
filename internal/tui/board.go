package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/report"
	"github.com/akyairhashvil/studyboard/internal/store"
	"github.com/akyairhashvil/studyboard/internal/util"
)

const dueLayout = "2006-01-02"

// boardState is the cursor over the kanban columns.
type boardState struct {
	col    int
	row    int
	detail bool
	sub    int
}

// columnTasks returns the visible tasks of a column after the search filter.
func (m Model) columnTasks(col int) []models.Task {
	p := m.state().Active()
	return store.FilterTasks(p.TasksByStatus(models.Columns[col]), m.search.Query)
}

func (b *boardState) clamp(m Model) {
	b.col = util.Clamp(b.col, 0, len(models.Columns)-1)
	n := len(m.columnTasks(b.col))
	b.row = util.Clamp(b.row, 0, max(n-1, 0))
	if n == 0 {
		b.detail = false
	}
	if t, ok := m.selectedTask(); ok {
		b.sub = util.Clamp(b.sub, 0, max(len(t.Subtasks)-1, 0))
	}
}

func (m Model) selectedTask() (models.Task, bool) {
	tasks := m.columnTasks(m.board.col)
	if m.board.row < 0 || m.board.row >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[m.board.row], true
}

func (m Model) moveCursor(dCol, dRow int) (Model, tea.Cmd, bool) {
	if dCol != 0 {
		m.board.col = util.Clamp(m.board.col+dCol, 0, len(models.Columns)-1)
		m.board.detail = false
	}
	m.board.row += dRow
	m.board.sub = 0
	m.board.clamp(m)
	return m, nil, true
}

func handleBoardLeft(m Model, _ string) (Model, tea.Cmd, bool)  { return m.moveCursor(-1, 0) }
func handleBoardRight(m Model, _ string) (Model, tea.Cmd, bool) { return m.moveCursor(1, 0) }
func handleBoardUp(m Model, _ string) (Model, tea.Cmd, bool)    { return m.moveCursor(0, -1) }
func handleBoardDown(m Model, _ string) (Model, tea.Cmd, bool)  { return m.moveCursor(0, 1) }

func taskForm(purpose FormPurpose, title string, t models.Task) *FormState {
	est := ""
	if t.EstimateMinutes > 0 {
		est = strconv.Itoa(t.EstimateMinutes)
	}
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format(dueLayout)
	}
	form := newForm(purpose, title,
		newField("Title", "Read chapter 4", t.Title, config.MaxTitleLength),
		newField("Description", "optional", t.Description, config.MaxDescriptionLength),
		newField("Priority", "high / medium / low / delegate", string(t.Priority), 40),
		newField("Estimate (min)", "30", est, 5),
		newField("Due date", dueLayout, due, 10),
	)
	form.TargetID = t.ID
	return form
}

func handleNewTask(m Model, _ string) (Model, tea.Cmd, bool) {
	m.modals.Open(taskForm(FormNewTask, "New task", models.Task{}))
	return m, textinput.Blink, true
}

func handleEditTask(m Model, _ string) (Model, tea.Cmd, bool) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil, true
	}
	m.modals.Open(taskForm(FormEditTask, "Edit task", t))
	return m, textinput.Blink, true
}

// taskFromForm applies the task form fields onto base.
func taskFromForm(form *FormState, base models.Task) (models.Task, error) {
	base.Title = strings.TrimSpace(form.Value(0))
	if base.Title == "" {
		return base, store.ErrEmptyTitle
	}
	base.Description = strings.TrimSpace(form.Value(1))
	prio, err := models.ParsePriority(form.Value(2))
	if err != nil {
		return base, err
	}
	base.Priority = prio
	if raw := strings.TrimSpace(form.Value(3)); raw != "" {
		mins, err := strconv.Atoi(raw)
		if err != nil || mins < 0 {
			return base, fmt.Errorf("estimate must be a number of minutes")
		}
		base.EstimateMinutes = mins
	}
	base.DueDate = nil
	if raw := strings.TrimSpace(form.Value(4)); raw != "" {
		due, err := time.ParseInLocation(dueLayout, raw, time.Local)
		if err != nil {
			return base, fmt.Errorf("due date must look like %s", dueLayout)
		}
		base.DueDate = &due
	}
	return base, nil
}

func handleDeleteTask(m Model, _ string) (Model, tea.Cmd, bool) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil, true
	}
	if err := m.state().DeleteTask(m.ctx, t.ID); err != nil {
		return m.alertErr("Could not delete task", err), nil, true
	}
	m.board.detail = false
	m.board.clamp(m)
	m.Message = fmt.Sprintf("Deleted %q.", t.Title)
	next, cmd := m.ensureTicking()
	return next, cmd, true
}

func handleUndo(m Model, _ string) (Model, tea.Cmd, bool) {
	t, err := m.state().UndoDelete(m.ctx)
	switch {
	case errors.Is(err, store.ErrNothingToUndo), errors.Is(err, store.ErrUndoExpired):
		m.Message = "Nothing to undo."
	case err != nil:
		return m.alertErr("Could not restore task", err), nil, true
	default:
		m.Message = fmt.Sprintf("Restored %q.", t.Title)
		m.board.clamp(m)
	}
	return m, nil, true
}

func (m Model) moveTask(delta int) (Model, tea.Cmd, bool) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil, true
	}
	col := m.board.col + delta
	if col < 0 || col >= len(models.Columns) {
		return m, nil, true
	}
	if err := m.state().MoveTask(m.ctx, t.ID, models.Columns[col]); err != nil {
		return m.alertErr("Could not move task", err), nil, true
	}
	m.board.col = col
	for i, ct := range m.columnTasks(col) {
		if ct.ID == t.ID {
			m.board.row = i
		}
	}
	m.board.clamp(m)
	return m, nil, true
}

func handleMoveLeft(m Model, _ string) (Model, tea.Cmd, bool)  { return m.moveTask(-1) }
func handleMoveRight(m Model, _ string) (Model, tea.Cmd, bool) { return m.moveTask(1) }

func handleCyclePriority(m Model, _ string) (Model, tea.Cmd, bool) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil, true
	}
	prio, err := m.state().CyclePriority(m.ctx, t.ID)
	if err != nil {
		return m.alertErr("Could not change priority", err), nil, true
	}
	m.Message = "Priority: " + prio.Label()
	return m, nil, true
}

func handleToggleDetail(m Model, _ string) (Model, tea.Cmd, bool) {
	if _, ok := m.selectedTask(); !ok {
		return m, nil, true
	}
	m.board.detail = !m.board.detail
	m.board.sub = 0
	return m, nil, true
}

func handleAddSubtask(m Model, _ string) (Model, tea.Cmd, bool) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil, true
	}
	form := newForm(FormAddSubtask, "Add subtask to "+t.Title,
		newField("Subtask", "Summarize section 2", "", config.MaxTitleLength))
	form.TargetID = t.ID
	m.modals.Open(form)
	return m, textinput.Blink, true
}

func (m Model) moveSubtaskCursor(delta int) (Model, tea.Cmd, bool) {
	t, ok := m.selectedTask()
	if !ok || !m.board.detail || len(t.Subtasks) == 0 {
		return m, nil, false
	}
	m.board.sub = util.Wrap(m.board.sub, delta, len(t.Subtasks))
	return m, nil, true
}

func handleSubtaskPrev(m Model, _ string) (Model, tea.Cmd, bool) { return m.moveSubtaskCursor(-1) }
func handleSubtaskNext(m Model, _ string) (Model, tea.Cmd, bool) { return m.moveSubtaskCursor(1) }

func handleToggleSubtask(m Model, _ string) (Model, tea.Cmd, bool) {
	t, ok := m.selectedTask()
	if !ok || !m.board.detail || m.board.sub >= len(t.Subtasks) {
		return m, nil, true
	}
	if err := m.state().ToggleSubtask(m.ctx, t.ID, t.Subtasks[m.board.sub].ID); err != nil {
		return m.alertErr("Could not update subtask", err), nil, true
	}
	return m, nil, true
}

func (m Model) requireGenerator() (Model, bool) {
	if m.app.Generator == nil {
		return m.alert("AI unavailable", "Set an API key with `studyboard config set-api-key` to use AI features."), false
	}
	if m.busy != "" {
		m.Message = "Still working on " + m.busy + "..."
		return m, false
	}
	return m, true
}

func handleBreakdown(m Model, _ string) (Model, tea.Cmd, bool) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil, true
	}
	m, ok = m.requireGenerator()
	if !ok {
		return m, nil, true
	}
	next, cmd := m.startBusy("breaking down "+t.Title, breakdownCmd(m.ctx, m.app.Generator, m.state().ActiveID(), t))
	return next, cmd, true
}

func handleSprintForm(m Model, _ string) (Model, tea.Cmd, bool) {
	m.modals.Open(newForm(FormSprint, "Generate study sprint",
		newField("Goal", "Pass the linear algebra final", "", config.MaxPromptLength),
		newField("Days", "7", "7", 2),
	))
	return m, textinput.Blink, true
}

func handleTaskFlashcards(m Model, _ string) (Model, tea.Cmd, bool) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil, true
	}
	topic := t.Title
	if t.Description != "" {
		topic += ": " + t.Description
	}
	form := newForm(FormFlashcards, "Flashcards for "+t.Title,
		newField("Topic", "", topic, config.MaxPromptLength),
		newField("Cards", "12", strconv.Itoa(config.DefaultFlashcardCount), 3),
	)
	form.TargetID = t.ID
	m.modals.Open(form)
	return m, textinput.Blink, true
}

func handleOpenSearch(m Model, _ string) (Model, tea.Cmd, bool) {
	cmd := m.search.Open()
	return m, cmd, true
}

func handleSheetImportForm(m Model, _ string) (Model, tea.Cmd, bool) {
	if m.app.Sheets == nil {
		return m.alert("Sheet import unavailable", "Sheet import is not configured."), nil, true
	}
	m.modals.Open(newForm(FormSheetImport, "Import from Google Sheets",
		newField("Sheet URL", "https://docs.google.com/spreadsheets/d/...", "", 300),
		newField("Tab", "Sheet1", "Sheet1", 100),
	))
	return m, textinput.Blink, true
}

func handleReport(m Model, _ string) (Model, tea.Cmd, bool) {
	p := m.state().Active()
	now := m.now()
	dir := m.app.ReportDir
	if dir == "" {
		dir = util.ReportsDir(config.AppName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return m.alertErr("Report failed", err), nil, true
	}
	path := filepath.Join(dir, report.DefaultFileName(p, now))
	if err := report.WriteFile(path, p, now); err != nil {
		return m.alertErr("Report failed", err), nil, true
	}
	m.Message = "Report saved to " + path
	return m, nil, true
}

func handleExportForm(m Model, _ string) (Model, tea.Cmd, bool) {
	p := m.state().Active()
	name := util.SafeFileName(p.Name) + ".json"
	m.modals.Open(newForm(FormExport, "Export project",
		newField("File", "", filepath.Join(util.DocumentsDir(), name), 300),
		newField("Passphrase", "leave empty for plain JSON", "", 128),
		newField("Embed files (y/n)", "n", "n", 1),
	))
	if form, ok := m.modals.FormState(); ok {
		form.Fields[1].input.EchoMode = textinput.EchoPassword
	}
	return m, textinput.Blink, true
}

// renderBoard draws the three columns and, when open, the task detail pane.
func (m Model) renderBoard() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	compact := width < config.CompactModeThreshold
	colWidth := max((width-6)/len(models.Columns), config.MinColumnWidth)
	if compact {
		colWidth = max(width-4, config.MinColumnWidth)
	}

	var cols []string
	for i, status := range models.Columns {
		if compact && i != m.board.col {
			continue
		}
		cols = append(cols, m.renderColumn(i, status, colWidth))
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if m.search.Active || m.search.Filtering() {
		out = m.theme.Input.Render("/ "+m.search.Input.View()) + "\n" + out
	}
	if m.board.detail {
		if t, ok := m.selectedTask(); ok {
			out += "\n" + m.renderTaskDetail(t, width)
		}
	}
	return out
}

func (m Model) renderColumn(idx int, status models.TaskStatus, width int) string {
	tasks := m.columnTasks(idx)
	header := fmt.Sprintf("%s (%d)", status.Label(), len(tasks))
	style := m.theme.Header
	if idx != m.board.col {
		style = m.theme.Dim.Bold(true)
	}
	lines := []string{style.Render(header)}
	inner := width - 4
	start := 0
	if m.board.col == idx && m.board.row >= config.MaxVisibleTasks {
		start = m.board.row - config.MaxVisibleTasks + 1
	}
	for i := start; i < len(tasks) && i < start+config.MaxVisibleTasks; i++ {
		lines = append(lines, m.renderCard(tasks[i], inner, idx == m.board.col && i == m.board.row))
	}
	if len(tasks) == 0 {
		lines = append(lines, m.theme.Dim.Render("(empty)"))
	}
	if hidden := len(tasks) - start - config.MaxVisibleTasks; hidden > 0 {
		lines = append(lines, m.theme.Dim.Render(fmt.Sprintf("+%d more", hidden)))
	}
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(m.theme.Border).
		Padding(0, 1).Width(width - 2)
	return border.Render(strings.Join(lines, "\n"))
}

func (m Model) renderCard(t models.Task, width int, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	titleWidth := max(width-len(marker)-4, config.MinTitleWidth)
	title := ansi.Truncate(t.Title, titleWidth, config.TruncationSuffix)
	style := m.theme.Card
	if t.Status == models.StatusDone {
		style = m.theme.DoneCard
	}
	if selected {
		style = m.theme.Focused
	}
	prio := m.theme.Priority[t.Priority].Render("●")
	line := marker + prio + " " + style.Render(title)

	var meta []string
	if done, total := t.SubtaskProgress(); total > 0 {
		meta = append(meta, fmt.Sprintf("%d/%d", done, total))
	}
	if t.EstimateMinutes > 0 {
		meta = append(meta, formatMinutes(t.EstimateMinutes))
	}
	if t.DueDate != nil {
		meta = append(meta, "due "+t.DueDate.Format("Jan 2"))
	}
	if t.SprintDay > 0 {
		meta = append(meta, fmt.Sprintf("day %d", t.SprintDay))
	}
	if len(t.Flashcards) > 0 {
		meta = append(meta, fmt.Sprintf("%d cards", len(t.Flashcards)))
	}
	if len(meta) > 0 {
		line += "\n    " + m.theme.Dim.Render(ansi.Truncate(strings.Join(meta, " · "), width-4, config.TruncationSuffix))
	}
	return line
}

func (m Model) renderTaskDetail(t models.Task, width int) string {
	var b strings.Builder
	b.WriteString(m.theme.Header.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(m.theme.Priority[t.Priority].Render(t.Priority.Label()))
	b.WriteString(m.theme.Dim.Render(" · " + t.Status.Label()))
	if t.DueDate != nil {
		b.WriteString(m.theme.Dim.Render(" · due " + t.DueDate.Format(dueLayout)))
	}
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString(lipgloss.NewStyle().Width(max(width-8, 20)).Render(t.Description))
		b.WriteString("\n")
	}
	if len(t.Subtasks) == 0 {
		b.WriteString(m.theme.Dim.Render("No subtasks. [a] add  [b] AI breakdown"))
	}
	for i, st := range t.Subtasks {
		box := "[ ]"
		style := m.theme.Card
		if st.Completed {
			box = "[x]"
			style = m.theme.DoneCard
		}
		cursor := "  "
		if i == m.board.sub {
			cursor = "> "
		}
		b.WriteString(cursor + box + " " + style.Render(st.Text))
		if i < len(t.Subtasks)-1 {
			b.WriteString("\n")
		}
	}
	return m.theme.Modal.Render(b.String())
}
