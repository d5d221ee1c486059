// Package timer implements the pomodoro/exam countdown and the lap stopwatch. Time is
// always passed in so callers decide how it advances.
package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/akyairhashvil/studyboard/internal/models"
)

var (
	ErrConfirmationRequired = errors.New("confirm the start ritual first")
	ErrNotStopwatch         = errors.New("laps are only recorded in stopwatch mode")
	ErrNotRunning           = errors.New("timer is not running")
)

type Mode int

const (
	Countdown Mode = iota
	Stopwatch
)

func (m Mode) String() string {
	if m == Stopwatch {
		return "Stopwatch"
	}
	return "Countdown"
}

// Preset is one of the countdown lengths.
type Preset string

const (
	Focus Preset = "focus"
	Break Preset = "break"
	Exam  Preset = "exam"
)

func (p Preset) Label() string {
	switch p {
	case Break:
		return "Break"
	case Exam:
		return "Exam"
	}
	return "Focus"
}

// Hooks are called synchronously from Tick and Confirm.
type Hooks struct {
	Cue             func(Preset)
	OnFocusComplete func()
	OnGateDisabled  func()
}

// Lap is one stopwatch split.
type Lap struct {
	Number int
	Split  time.Duration
	Total  time.Duration
}

// Event describes what a Tick changed.
type Event struct {
	Completed bool
	Finished  Preset
	Next      Preset
}

type Timer struct {
	settings    models.TimerSettings
	hooks       Hooks
	mode        Mode
	preset      Preset
	running     bool
	startedAt   time.Time
	accumulated time.Duration
	laps        []Lap
}

func New(settings models.TimerSettings, hooks Hooks) *Timer {
	return &Timer{settings: settings, hooks: hooks, mode: Countdown, preset: Focus}
}

// SetSettings applies new preset lengths; an idle countdown picks them up immediately.
func (t *Timer) SetSettings(settings models.TimerSettings) {
	t.settings = settings
}

func (t *Timer) Settings() models.TimerSettings { return t.settings }

func (t *Timer) Mode() Mode { return t.mode }

func (t *Timer) Preset() Preset { return t.preset }

func (t *Timer) Running() bool { return t.running }

// SetMode switches between countdown and stopwatch, stopping and clearing both.
func (t *Timer) SetMode(m Mode) {
	t.Reset()
	t.laps = nil
	t.mode = m
}

// SetPreset selects a countdown length and resets the countdown.
func (t *Timer) SetPreset(p Preset) {
	if t.mode != Countdown {
		t.SetMode(Countdown)
	}
	t.Reset()
	t.preset = p
}

// Duration is the length of the current countdown preset.
func (t *Timer) Duration() time.Duration {
	var minutes int
	switch t.preset {
	case Break:
		minutes = t.settings.BreakMinutes
	case Exam:
		minutes = t.settings.ExamMinutes
	default:
		minutes = t.settings.FocusMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// NeedsConfirmation reports whether Start would be refused by the ritual gate.
func (t *Timer) NeedsConfirmation() bool {
	return t.mode == Countdown && t.settings.RitualEnabled && !t.running && t.accumulated == 0
}

// Start begins or resumes timing. A fresh countdown behind the ritual gate returns
// ErrConfirmationRequired; use Confirm instead.
func (t *Timer) Start(now time.Time) error {
	if t.running {
		return nil
	}
	if t.NeedsConfirmation() {
		return ErrConfirmationRequired
	}
	t.run(now)
	return nil
}

// Confirm passes the ritual gate and starts. dontAskAgain disables the gate and
// notifies OnGateDisabled so the caller can persist it.
func (t *Timer) Confirm(now time.Time, dontAskAgain bool) {
	if dontAskAgain && t.settings.RitualEnabled {
		t.settings.RitualEnabled = false
		if t.hooks.OnGateDisabled != nil {
			t.hooks.OnGateDisabled()
		}
	}
	if !t.running {
		t.run(now)
	}
}

func (t *Timer) run(now time.Time) {
	t.running = true
	t.startedAt = now
}

// Pause stops the clock, keeping the elapsed time.
func (t *Timer) Pause(now time.Time) {
	if !t.running {
		return
	}
	t.accumulated += now.Sub(t.startedAt)
	t.running = false
}

// Toggle pauses a running timer or starts an idle one.
func (t *Timer) Toggle(now time.Time) error {
	if t.running {
		t.Pause(now)
		return nil
	}
	return t.Start(now)
}

// Reset stops the clock and clears elapsed time. Laps survive until the mode changes
// or the stopwatch is reset.
func (t *Timer) Reset() {
	t.running = false
	t.accumulated = 0
	t.startedAt = time.Time{}
	if t.mode == Stopwatch {
		t.laps = nil
	}
}

// Elapsed is the time counted so far.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	elapsed := t.accumulated
	if t.running {
		elapsed += now.Sub(t.startedAt)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Remaining is the countdown time left; stopwatches report zero.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if t.mode != Countdown {
		return 0
	}
	left := t.Duration() - t.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// Progress is the completed fraction of the countdown in [0, 1].
func (t *Timer) Progress(now time.Time) float64 {
	total := t.Duration()
	if t.mode != Countdown || total <= 0 {
		return 0
	}
	p := float64(t.Elapsed(now)) / float64(total)
	if p > 1 {
		return 1
	}
	return p
}

// Tick advances the timer. When a countdown reaches zero it plays the cue, counts a
// finished focus session, moves to the next preset and stays stopped.
func (t *Timer) Tick(now time.Time) Event {
	if !t.running || t.mode != Countdown {
		return Event{}
	}
	if t.Elapsed(now) < t.Duration() {
		return Event{}
	}
	finished := t.preset
	t.running = false
	t.accumulated = 0
	t.startedAt = time.Time{}

	if t.hooks.Cue != nil {
		t.hooks.Cue(finished)
	}
	switch finished {
	case Focus:
		if t.hooks.OnFocusComplete != nil {
			t.hooks.OnFocusComplete()
		}
		t.preset = Break
	case Break:
		t.preset = Focus
	}
	return Event{Completed: true, Finished: finished, Next: t.preset}
}

// Lap records a stopwatch split.
func (t *Timer) Lap(now time.Time) (Lap, error) {
	if t.mode != Stopwatch {
		return Lap{}, ErrNotStopwatch
	}
	if !t.running {
		return Lap{}, ErrNotRunning
	}
	total := t.Elapsed(now)
	var prev time.Duration
	if n := len(t.laps); n > 0 {
		prev = t.laps[n-1].Total
	}
	lap := Lap{Number: len(t.laps) + 1, Split: total - prev, Total: total}
	t.laps = append(t.laps, lap)
	return lap, nil
}

func (t *Timer) Laps() []Lap {
	return append([]Lap(nil), t.laps...)
}

// Format renders a duration as MM:SS, or H:MM:SS past an hour.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, s)
}
