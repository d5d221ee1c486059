package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/timer"
)

func newKeyRegistry() *HandlerRegistry {
	r := NewHandlerRegistry()
	board := []View{ViewBoard}
	timerView := []View{ViewTimer}
	notes := []View{ViewNotes}
	cards := []View{ViewFlashcards}
	files := []View{ViewFiles}

	// global
	r.Bind([]string{"q"}, "quit", nil, handleQuit)
	for i := range viewNames {
		v := View(i)
		r.Bind([]string{string(rune('1' + i))}, viewNames[i], nil, func(m Model, _ string) (Model, tea.Cmd, bool) {
			return m.switchView(v), nil, true
		})
	}
	r.Bind([]string{"tab"}, "next view", nil, func(m Model, _ string) (Model, tea.Cmd, bool) {
		return m.switchView(View((int(m.view) + 1) % len(viewNames))), nil, true
	})
	r.Bind([]string{"T"}, "theme", nil, handleToggleTheme)
	r.Bind([]string{"P"}, "projects", nil, handleOpenProjects)
	r.Bind([]string{"u"}, "undo delete", nil, handleUndo)
	r.Bind([]string{"?"}, "help", nil, func(m Model, _ string) (Model, tea.Cmd, bool) {
		m.modals.Open(&HelpState{})
		return m, nil, true
	})

	// board
	r.Bind([]string{"h", "left"}, "column left", board, handleBoardLeft)
	r.Bind([]string{"l", "right"}, "column right", board, handleBoardRight)
	r.Bind([]string{"[", "up"}, "", board, handleSubtaskPrev)
	r.Bind([]string{"]", "down"}, "", board, handleSubtaskNext)
	r.Bind([]string{"k", "up"}, "up", board, handleBoardUp)
	r.Bind([]string{"j", "down"}, "down", board, handleBoardDown)
	r.Bind([]string{"n"}, "new task", board, handleNewTask)
	r.Bind([]string{"e"}, "edit", board, handleEditTask)
	r.Bind([]string{"d", "delete"}, "delete", board, handleDeleteTask)
	r.Bind([]string{"H", "shift+left"}, "move left", board, handleMoveLeft)
	r.Bind([]string{"L", "shift+right"}, "move right", board, handleMoveRight)
	r.Bind([]string{"p"}, "priority", board, handleCyclePriority)
	r.Bind([]string{"enter"}, "details", board, handleToggleDetail)
	r.Bind([]string{"a"}, "add subtask", board, handleAddSubtask)
	r.Bind([]string{"x", "c"}, "toggle subtask", board, handleToggleSubtask)
	r.Bind([]string{"b"}, "AI breakdown", board, handleBreakdown)
	r.Bind([]string{"S"}, "AI sprint", board, handleSprintForm)
	r.Bind([]string{"f"}, "AI flashcards", board, handleTaskFlashcards)
	r.Bind([]string{"/"}, "search", board, handleOpenSearch)
	r.Bind([]string{"i"}, "sheet import", board, handleSheetImportForm)
	r.Bind([]string{"R"}, "PDF report", board, handleReport)
	r.Bind([]string{"E"}, "export", board, handleExportForm)

	// timer
	r.Bind([]string{"space", "s"}, "start/pause", timerView, handleTimerToggle)
	r.Bind([]string{"r"}, "reset", timerView, handleTimerReset)
	r.Bind([]string{"m"}, "countdown/stopwatch", timerView, handleTimerMode)
	r.Bind([]string{"f"}, "focus", timerView, presetHandler(timer.Focus))
	r.Bind([]string{"b"}, "break", timerView, presetHandler(timer.Break))
	r.Bind([]string{"e"}, "exam", timerView, presetHandler(timer.Exam))
	r.Bind([]string{"l"}, "lap", timerView, handleTimerLap)
	r.Bind([]string{"o"}, "settings", timerView, handleTimerSettingsForm)

	// notes
	r.Bind([]string{"enter", "i"}, "edit", notes, handleEditNotes)

	// flashcards
	r.Bind([]string{"k", "up"}, "up", cards, handleDeckUp)
	r.Bind([]string{"j", "down"}, "down", cards, handleDeckDown)
	r.Bind([]string{"enter"}, "study", cards, handleStudyDeck)
	r.Bind([]string{"esc"}, "back", cards, handleLeaveStudy)
	r.Bind([]string{"space"}, "flip", cards, handleFlip)
	r.Bind([]string{"l", "right"}, "next", cards, handleNextCard)
	r.Bind([]string{"h", "left"}, "previous", cards, handlePrevCard)
	r.Bind([]string{"r"}, "needs review", cards, gradeHandler(models.ReviewNeedsReview))
	r.Bind([]string{"g"}, "learned", cards, gradeHandler(models.ReviewLearned))
	r.Bind([]string{"F"}, "filter", cards, handleCycleFilter)
	r.Bind([]string{"c"}, "fix math", cards, handleCorrectDeck)
	r.Bind([]string{"N"}, "new deck", cards, handleNewDeckForm)
	r.Bind([]string{"D"}, "delete deck", cards, handleDeleteDeck)

	// files
	r.Bind([]string{"k", "up"}, "up", files, handleFileUp)
	r.Bind([]string{"j", "down"}, "down", files, handleFileDown)
	r.Bind([]string{"a"}, "attach", files, handleAttachForm)
	r.Bind([]string{"L"}, "link", files, handleLinkForm)
	r.Bind([]string{"x", "delete"}, "remove", files, handleRemoveFile)
	r.Bind([]string{"v"}, "verify", files, handleVerifyFiles)
	r.Bind([]string{"A"}, "ask AI", files, handleAskForm)
	return r
}

func handleQuit(m Model, _ string) (Model, tea.Cmd, bool) {
	m.quitting = true
	return m, nil, true
}

func handleToggleTheme(m Model, _ string) (Model, tea.Cmd, bool) {
	next := m.state().Theme().Toggle()
	if err := m.state().SetTheme(m.ctx, next); err != nil {
		return m.alertErr("Could not save theme", err), nil, true
	}
	m.theme = themeFor(next)
	return m, nil, true
}

func (m Model) switchView(v View) Model {
	if m.view == ViewFlashcards && v != ViewFlashcards {
		m.review.active = false
		m.review.deck = nil
	}
	m.view = v
	return m
}
