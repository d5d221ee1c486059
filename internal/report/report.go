// Package report renders a project board as a PDF.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/util"
)

// Summary holds the counts printed at the end of a report.
type Summary struct {
	Total      int
	ByStatus   map[models.TaskStatus]int
	Overdue    int
	Minutes    int
	Subtasks   int
	SubsDone   int
	Flashcards int
	Pomodoros  int
}

// Summarize counts tasks by column. Overdue tasks have a due date before now and are
// not done.
func Summarize(p models.Project, now time.Time) Summary {
	s := Summary{ByStatus: make(map[models.TaskStatus]int), Pomodoros: p.PomodoroCount}
	for _, t := range p.Tasks {
		s.Total++
		s.ByStatus[t.Status]++
		s.Minutes += t.EstimateMinutes
		done, total := t.SubtaskProgress()
		s.SubsDone += done
		s.Subtasks += total
		s.Flashcards += len(t.Flashcards)
		if t.DueDate != nil && t.Status != models.StatusDone && t.DueDate.Before(now) {
			s.Overdue++
		}
	}
	for _, d := range p.Decks {
		s.Flashcards += len(d.Cards)
	}
	return s
}

// Write renders p to w.
func Write(w io.Writer, p models.Project, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(p.Name), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Study Board: %s", p.Name)))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, now.Format("Monday, January 2, 2006 15:04"))
	pdf.Ln(12)

	for _, status := range models.Columns {
		tasks := p.TasksByStatus(status)
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, fmt.Sprintf("%s (%d)", status.Label(), len(tasks)))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 11)
		if len(tasks) == 0 {
			pdf.Cell(0, 8, "  - No tasks.")
			pdf.Ln(8)
		}
		for _, t := range tasks {
			writeTask(pdf, tr, t, now)
		}
		pdf.Ln(4)
	}

	sum := Summarize(p, now)
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	lines := []string{
		fmt.Sprintf("Tasks completed: %d of %d", sum.ByStatus[models.StatusDone], sum.Total),
		fmt.Sprintf("Subtasks completed: %d of %d", sum.SubsDone, sum.Subtasks),
		fmt.Sprintf("Planned time: %s", formatMinutes(sum.Minutes)),
		fmt.Sprintf("Overdue tasks: %d", sum.Overdue),
		fmt.Sprintf("Flashcards: %d", sum.Flashcards),
		fmt.Sprintf("Focus sessions completed: %d", sum.Pomodoros),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(6)
	}

	if notes := strings.TrimSpace(p.Notes); notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, "Brain Dump")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(notes), "", "", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func writeTask(pdf *fpdf.Fpdf, tr func(string) string, t models.Task, now time.Time) {
	mark := "[ ]"
	if t.Status == models.StatusDone {
		mark = "[x]"
	}
	line := fmt.Sprintf("  %s %s  (%s", mark, t.Title, t.Priority.Label())
	if t.EstimateMinutes > 0 {
		line += ", " + formatMinutes(t.EstimateMinutes)
	}
	if t.DueDate != nil {
		line += ", due " + t.DueDate.Format("Jan 2")
		if t.Status != models.StatusDone && t.DueDate.Before(now) {
			line += " OVERDUE"
		}
	}
	if t.SprintDay > 0 {
		line += fmt.Sprintf(", day %d", t.SprintDay)
	}
	line += ")"
	pdf.MultiCell(0, 6, tr(line), "", "", false)

	for _, st := range t.Subtasks {
		sub := "[ ]"
		if st.Completed {
			sub = "[x]"
		}
		pdf.Cell(0, 6, tr(fmt.Sprintf("          %s %s", sub, st.Text)))
		pdf.Ln(5)
	}
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}

// WriteFile renders p into path.
func WriteFile(path string, p models.Project, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(f, p, now); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// DefaultFileName names a report after the project and date.
func DefaultFileName(p models.Project, now time.Time) string {
	return fmt.Sprintf("report_%s_%s.pdf", util.SafeFileName(p.Name), now.Format("2006-01-02"))
}
