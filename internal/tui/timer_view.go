package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/timer"
)

const maxShownLaps = 8

func handleTimerToggle(m Model, _ string) (Model, tea.Cmd, bool) {
	err := m.timer.Toggle(m.now())
	if errors.Is(err, timer.ErrConfirmationRequired) {
		m.modals.Open(&RitualState{})
		return m, nil, true
	}
	if err != nil {
		return m.alertErr("Timer", err), nil, true
	}
	if !m.timer.Running() {
		return m, nil, true
	}
	next, cmd := m.ensureTicking()
	return next, cmd, true
}

// confirmRitual starts the countdown from the ritual modal.
func (m Model) confirmRitual(dontAskAgain bool) (Model, tea.Cmd) {
	m.modals.Close()
	m.timer.Confirm(m.now(), dontAskAgain)
	if err := m.app.takeErr(); err != nil {
		m = m.alertErr("Could not save timer settings", err)
	}
	return m.ensureTicking()
}

func handleTimerReset(m Model, _ string) (Model, tea.Cmd, bool) {
	m.timer.Reset()
	return m, nil, true
}

func handleTimerMode(m Model, _ string) (Model, tea.Cmd, bool) {
	if m.timer.Mode() == timer.Countdown {
		m.timer.SetMode(timer.Stopwatch)
	} else {
		m.timer.SetMode(timer.Countdown)
	}
	return m, nil, true
}

func presetHandler(p timer.Preset) KeyHandler {
	return func(m Model, _ string) (Model, tea.Cmd, bool) {
		if m.timer.Mode() == timer.Stopwatch {
			return m, nil, false
		}
		m.timer.SetPreset(p)
		return m, nil, true
	}
}

func handleTimerLap(m Model, _ string) (Model, tea.Cmd, bool) {
	if m.timer.Mode() != timer.Stopwatch {
		return m, nil, false
	}
	lap, err := m.timer.Lap(m.now())
	if err != nil {
		m.Message = err.Error()
		return m, nil, true
	}
	m.Message = fmt.Sprintf("Lap %d: %s", lap.Number, timer.Format(lap.Split))
	return m, nil, true
}

func handleTimerSettingsForm(m Model, _ string) (Model, tea.Cmd, bool) {
	s := m.timer.Settings()
	ritual := "y"
	if !s.RitualEnabled {
		ritual = "n"
	}
	m.modals.Open(newForm(FormTimerSettings, "Timer settings",
		newField("Focus (min)", "25", strconv.Itoa(s.FocusMinutes), 3),
		newField("Break (min)", "5", strconv.Itoa(s.BreakMinutes), 3),
		newField("Exam (min)", "180", strconv.Itoa(s.ExamMinutes), 3),
		newField("Start ritual (y/n)", "y", ritual, 1),
	))
	return m, textinput.Blink, true
}

func timerSettingsFromForm(form *FormState) (models.TimerSettings, error) {
	var s models.TimerSettings
	for i, dst := range []*int{&s.FocusMinutes, &s.BreakMinutes, &s.ExamMinutes} {
		v, err := strconv.Atoi(strings.TrimSpace(form.Value(i)))
		if err != nil || v <= 0 {
			return s, fmt.Errorf("%s must be a positive number", form.Fields[i].label)
		}
		*dst = v
	}
	s.RitualEnabled = yes(form.Value(3))
	return s, nil
}

func (m Model) renderTimer() string {
	now := m.now()
	t := m.timer
	var b strings.Builder

	if t.Mode() == timer.Countdown {
		var tabs []string
		for _, p := range []timer.Preset{timer.Focus, timer.Break, timer.Exam} {
			style := m.theme.Tab
			if p == t.Preset() {
				style = m.theme.ActiveTab
			}
			tabs = append(tabs, style.Render(p.Label()))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
		b.WriteString("\n\n")
		clock := m.theme.Header
		if t.Preset() == timer.Break {
			clock = m.theme.Break
		}
		b.WriteString(clock.Render(timer.Format(t.Remaining(now))))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(t.Progress(now)))
	} else {
		b.WriteString(m.theme.ActiveTab.Render("Stopwatch"))
		b.WriteString("\n\n")
		b.WriteString(m.theme.Header.Render(timer.Format(t.Elapsed(now))))
		laps := t.Laps()
		for i := len(laps) - 1; i >= 0 && i >= len(laps)-maxShownLaps; i-- {
			l := laps[i]
			b.WriteString(fmt.Sprintf("\nLap %2d  %s  %s", l.Number, timer.Format(l.Split),
				m.theme.Dim.Render(timer.Format(l.Total))))
		}
	}

	state := "Paused"
	if t.Running() {
		state = "Running"
	} else if t.Elapsed(now) == 0 {
		state = "Ready"
	}
	b.WriteString("\n\n")
	b.WriteString(m.theme.Dim.Render(fmt.Sprintf("%s · %d pomodoros completed", state, m.state().Active().PomodoroCount)))
	return b.String()
}

func (m Model) renderRitual() string {
	body := strings.Join([]string{
		m.theme.Header.Render("Ready to focus?"),
		"",
		"Phone away. Water nearby. One task chosen.",
		"",
		m.theme.Dim.Render("[y] start  [a] start and don't ask again  [esc] cancel"),
	}, "\n")
	return m.theme.Modal.Render(body)
}
