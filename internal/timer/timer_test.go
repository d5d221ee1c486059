package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/akyairhashvil/studyboard/internal/models"
)

var t0 = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

func settings(ritual bool) models.TimerSettings {
	return models.TimerSettings{FocusMinutes: 25, BreakMinutes: 5, ExamMinutes: 180, RitualEnabled: ritual}
}

func TestRitualGate(t *testing.T) {
	disabled := 0
	tm := New(settings(true), Hooks{OnGateDisabled: func() { disabled++ }})

	if err := tm.Start(t0); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("Start expected ErrConfirmationRequired, got %v", err)
	}
	if tm.Running() {
		t.Fatalf("timer should not run before confirmation")
	}

	tm.Confirm(t0, false)
	if !tm.Running() || disabled != 0 {
		t.Fatalf("Confirm without opt-out: running=%v disabled=%d", tm.Running(), disabled)
	}

	// Resuming after a pause does not ask again.
	tm.Pause(t0.Add(time.Minute))
	if err := tm.Start(t0.Add(2 * time.Minute)); err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	tm.Reset()
	tm.Confirm(t0, true)
	if disabled != 1 || tm.Settings().RitualEnabled {
		t.Fatalf("dontAskAgain should disable the gate once, got %d", disabled)
	}
	tm.Reset()
	if err := tm.Start(t0); err != nil {
		t.Fatalf("Start after opt-out failed: %v", err)
	}
}

func TestFocusCompletionSwitchesToBreak(t *testing.T) {
	var cues []Preset
	completed := 0
	tm := New(settings(false), Hooks{
		Cue:             func(p Preset) { cues = append(cues, p) },
		OnFocusComplete: func() { completed++ },
	})
	if err := tm.Start(t0); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if ev := tm.Tick(t0.Add(24 * time.Minute)); ev.Completed {
		t.Fatalf("completed too early")
	}
	if got := tm.Remaining(t0.Add(24 * time.Minute)); got != time.Minute {
		t.Fatalf("Remaining = %v, want 1m", got)
	}

	ev := tm.Tick(t0.Add(25 * time.Minute))
	if !ev.Completed || ev.Finished != Focus || ev.Next != Break {
		t.Fatalf("unexpected event %+v", ev)
	}
	if completed != 1 || len(cues) != 1 || cues[0] != Focus {
		t.Fatalf("completed=%d cues=%v", completed, cues)
	}
	if tm.Running() {
		t.Fatalf("next phase must not auto-start")
	}
	if tm.Preset() != Break || tm.Remaining(t0.Add(time.Hour)) != 5*time.Minute {
		t.Fatalf("expected a fresh 5m break, got %s %v", tm.Preset(), tm.Remaining(t0))
	}

	// Further ticks while stopped do nothing.
	tm.Tick(t0.Add(2 * time.Hour))
	if completed != 1 {
		t.Fatalf("focus counted more than once: %d", completed)
	}

	tm.Start(t0)
	ev = tm.Tick(t0.Add(5 * time.Minute))
	if ev.Next != Focus || completed != 1 {
		t.Fatalf("break should return to focus without counting, got %+v completed=%d", ev, completed)
	}
}

func TestExamStaysExam(t *testing.T) {
	completed := 0
	tm := New(settings(false), Hooks{OnFocusComplete: func() { completed++ }})
	tm.SetPreset(Exam)
	tm.Start(t0)

	ev := tm.Tick(t0.Add(3 * time.Hour))
	if !ev.Completed || ev.Next != Exam || tm.Preset() != Exam {
		t.Fatalf("unexpected event %+v", ev)
	}
	if completed != 0 {
		t.Fatalf("exam must not count as focus")
	}
	if tm.Elapsed(t0.Add(4*time.Hour)) != 0 {
		t.Fatalf("exam should reset after completion")
	}
}

func TestPauseKeepsElapsed(t *testing.T) {
	tm := New(settings(false), Hooks{})
	tm.Start(t0)
	tm.Pause(t0.Add(10 * time.Minute))

	if got := tm.Elapsed(t0.Add(time.Hour)); got != 10*time.Minute {
		t.Fatalf("Elapsed while paused = %v", got)
	}
	tm.Start(t0.Add(time.Hour))
	if got := tm.Elapsed(t0.Add(time.Hour + 5*time.Minute)); got != 15*time.Minute {
		t.Fatalf("Elapsed after resume = %v", got)
	}
	if p := tm.Progress(t0.Add(time.Hour + 5*time.Minute)); p != 0.6 {
		t.Fatalf("Progress = %v, want 0.6", p)
	}
}

func TestStopwatchLaps(t *testing.T) {
	tm := New(settings(true), Hooks{})
	tm.SetMode(Stopwatch)

	if _, err := tm.Lap(t0); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Lap while stopped: %v", err)
	}
	if err := tm.Start(t0); err != nil {
		t.Fatalf("stopwatch should ignore the ritual gate: %v", err)
	}
	tm.Lap(t0.Add(30 * time.Second))
	lap, err := tm.Lap(t0.Add(75 * time.Second))
	if err != nil {
		t.Fatalf("Lap failed: %v", err)
	}
	if lap.Number != 2 || lap.Split != 45*time.Second || lap.Total != 75*time.Second {
		t.Fatalf("unexpected lap %+v", lap)
	}
	if ev := tm.Tick(t0.Add(10 * time.Hour)); ev.Completed {
		t.Fatalf("stopwatch never completes")
	}

	tm.SetMode(Countdown)
	if tm.Running() || len(tm.Laps()) != 0 {
		t.Fatalf("switching mode should stop and clear the stopwatch")
	}
	if _, err := tm.Lap(t0); !errors.Is(err, ErrNotStopwatch) {
		t.Fatalf("Lap in countdown: %v", err)
	}
}

func TestFormat(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                     "00:00",
		25 * time.Minute:                      "25:00",
		90*time.Second + 400*time.Millisecond: "01:30",
		3*time.Hour + 5*time.Second:           "3:00:05",
		-time.Second:                          "00:00",
	}
	for d, want := range cases {
		if got := Format(d); got != want {
			t.Fatalf("Format(%v) = %q, want %q", d, got, want)
		}
	}
}
