// Package tui is the terminal interface: a board, timer, notes, flashcards and files
// over the application state.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/studyboard/internal/ai"
	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/database"
	"github.com/akyairhashvil/studyboard/internal/latex"
	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/store"
	"github.com/akyairhashvil/studyboard/internal/timer"
)

// Generator produces AI content.
type Generator interface {
	BreakDownTask(ctx context.Context, t models.Task) ([]string, error)
	GenerateSprint(ctx context.Context, goal string, days int, attachments []ai.Attachment) ([]models.Task, error)
	GenerateFlashcards(ctx context.Context, topic string, count int, attachments []ai.Attachment) ([]models.Flashcard, error)
	Ask(ctx context.Context, prompt string, attachments []ai.Attachment) (string, error)
}

type SheetImporter interface {
	Import(ctx context.Context, sheetURL, tab string) ([]models.Task, error)
}

type Corrector interface {
	CorrectCards(ctx context.Context, cards []models.Flashcard) ([]models.Flashcard, latex.Report, error)
}

// Deps are the services the interface drives. Generator, Sheets and Corrector may be
// nil; the matching actions then show a notice.
type Deps struct {
	State     *store.State
	Blobs     database.BlobRepository
	Generator Generator
	Sheets    SheetImporter
	Corrector Corrector
	Logger    *slog.Logger
	Now       func() time.Time
	// Bell receives the completion cue.
	Bell               io.Writer
	MaxAttachmentBytes int64
	ReportDir          string
}

type View int

const (
	ViewBoard View = iota
	ViewTimer
	ViewNotes
	ViewFlashcards
	ViewFiles
)

var viewNames = []string{"Board", "Timer", "Notes", "Flashcards", "Files"}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "?"
}

type tickMsg time.Time

// app is shared by every copy of Model.
type app struct {
	Deps
	hookErr error
}

func (a *app) fail(err error) {
	if err != nil && a.hookErr == nil {
		a.hookErr = err
	}
}

func (a *app) takeErr() error {
	err := a.hookErr
	a.hookErr = nil
	return err
}

type Model struct {
	ctx      context.Context
	app      *app
	keys     *HandlerRegistry
	theme    Theme
	view     View
	board    *boardState
	timer    *timer.Timer
	notes    textarea.Model
	review   *reviewState
	files    *filesState
	modals   *ModalManager
	spinner  spinner.Model
	progress progress.Model
	search   SearchManager
	busy     string
	ticking  bool
	quitting bool
	Message  string
	width    int
	height   int
}

func New(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Bell == nil {
		deps.Bell = os.Stderr
	}
	if deps.MaxAttachmentBytes <= 0 {
		deps.MaxAttachmentBytes = config.DefaultMaxAttachmentBytes
	}
	deps.Logger = deps.Logger.With("component", "tui")
	a := &app{Deps: deps}

	notes := textarea.New()
	notes.Placeholder = "Dump everything on your mind here..."
	notes.CharLimit = 0
	notes.ShowLineNumbers = false
	notes.SetWidth(80)
	notes.SetHeight(16)

	si := textinput.New()
	si.Placeholder = "status:todo priority:urgent day:2 words..."
	si.Width = 40

	m := Model{
		ctx:      ctx,
		app:      a,
		keys:     newKeyRegistry(),
		theme:    themeFor(deps.State.Theme()),
		board:    &boardState{},
		review:   &reviewState{},
		files:    &filesState{},
		modals:   newModalManager(),
		notes:    notes,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress: progress.New(progress.WithDefaultGradient()),
		search:   NewSearchManager(si),
	}
	m.progress.Width = config.TargetTitleWidth
	m.timer = timer.New(deps.State.Active().Timer, m.timerHooks())
	m.notes.SetValue(deps.State.Active().Notes)
	return m
}

// timerHooks persist timer side effects. They run inside Update, so State access is
// single-threaded.
func (m Model) timerHooks() timer.Hooks {
	a := m.app
	return timer.Hooks{
		Cue: func(timer.Preset) {
			_, _ = io.WriteString(a.Bell, "\a")
		},
		OnFocusComplete: func() {
			_, err := a.State.IncrementPomodoro(m.ctx)
			a.fail(err)
		},
		OnGateDisabled: func() {
			a.fail(a.State.DisableRitual(m.ctx))
		},
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func tickCmd() tea.Cmd {
	return tea.Tick(config.TimerTickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ensureTicking arms the interval tick once.
func (m Model) ensureTicking() (Model, tea.Cmd) {
	if m.ticking {
		return m, nil
	}
	m.ticking = true
	return m, tickCmd()
}

func (m Model) now() time.Time { return m.app.Now() }

func (m Model) state() *store.State { return m.app.State }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tickMsg:
		return m.handleTick(msg)
	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case breakdownMsg, sprintMsg, flashcardsMsg, askMsg, correctionMsg, sheetImportMsg:
		next, cmd := m.handleResult(msg)
		return next, cmd
	case tea.KeyMsg:
		next, cmd := m.handleKey(msg)
		if next.quitting {
			return next, tea.Quit
		}
		return next, cmd
	}
	if m.view == ViewNotes && m.notes.Focused() {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	if m.width > 0 {
		target := config.TargetTitleWidth
		if m.width < config.CompactModeThreshold {
			target = m.width / 2
		}
		m.progress.Width = max(target, config.MinTitleWidth)
		m.notes.SetWidth(max(m.width-8, 20))
	}
	if m.height > 0 {
		m.notes.SetHeight(max(m.height-10, 5))
	}
	return m, nil
}

// handleTick advances the timer and expires the undo banner. The tick re-arms only
// while something needs it.
func (m Model) handleTick(tickMsg) (Model, tea.Cmd) {
	if ev := m.timer.Tick(m.now()); ev.Completed {
		m.Message = fmt.Sprintf("%s finished. Next up: %s.", ev.Finished.Label(), ev.Next.Label())
		if err := m.app.takeErr(); err != nil {
			m = m.alertErr("Could not save progress", err)
		}
	}
	_, _, undoPending := m.state().PendingUndo()
	if m.timer.Running() || undoPending {
		return m, tickCmd()
	}
	m.ticking = false
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	if key == " " {
		key = "space"
	}
	if key == "ctrl+c" {
		m.quitting = true
		return m, nil
	}
	if m.modals.IsOpen() {
		return m.handleModalKey(msg, key)
	}
	if m.search.Active {
		return m.handleSearchKey(msg, key)
	}
	if m.view == ViewNotes && m.notes.Focused() {
		return m.handleNotesEditing(msg, key)
	}
	next, cmd, handled := m.keys.Handle(m, key)
	if !handled && key == "esc" {
		next.Message = ""
	}
	return next, cmd
}

// alertErr opens a blocking notice for err and logs it.
func (m Model) alertErr(title string, err error) Model {
	m.app.Logger.Error(title, "error", err)
	body := err.Error()
	var opErr *database.OpError
	switch {
	case errors.As(err, &opErr):
		body = "Your change could not be saved: " + err.Error()
	case errors.Is(err, ai.ErrMalformedResponse), errors.Is(err, ai.ErrBlocked),
		errors.Is(err, ai.ErrMissingAPIKey), ai.StatusCode(err) != 0:
		body = ai.UserMessage(err)
	}
	m.modals.Open(&AlertState{Title: title, Body: body, Error: true})
	return m
}

func (m Model) alert(title, body string) Model {
	m.modals.Open(&AlertState{Title: title, Body: body})
	return m
}

// startBusy shows the spinner while cmd runs.
func (m Model) startBusy(label string, cmd tea.Cmd) (Model, tea.Cmd) {
	m.busy = label
	return m, tea.Batch(cmd, m.spinner.Tick)
}

// reloadProject resets per-project UI after the active project changes.
func (m Model) reloadProject() Model {
	p := m.state().Active()
	m.timer.SetSettings(p.Timer)
	m.timer.Reset()
	m.notes.SetValue(p.Notes)
	m.notes.Blur()
	m.board.clamp(m)
	m.review.close()
	m.files.cursor = 0
	m.search.Clear()
	return m
}
