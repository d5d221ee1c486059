package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/studyboard/internal/latex"
	"github.com/akyairhashvil/studyboard/internal/models"
)

// handleResult applies finished background work.
func (m Model) handleResult(msg tea.Msg) (Model, tea.Cmd) {
	m.busy = ""
	switch msg := msg.(type) {
	case breakdownMsg:
		if msg.err != nil {
			return m.alertErr("Breakdown failed", msg.err), nil
		}
		if err := m.state().AddSubtasksIn(m.ctx, msg.projectID, msg.taskID, msg.subtasks...); err != nil {
			return m.alertErr("Could not add subtasks", err), nil
		}
		m.Message = fmt.Sprintf("Added %d subtasks.", len(msg.subtasks))

	case sprintMsg:
		if msg.err != nil {
			return m.alertErr("Sprint generation failed", msg.err), nil
		}
		added, err := m.state().AddTasksTo(m.ctx, msg.projectID, msg.tasks)
		if err != nil {
			return m.alertErr("Could not add sprint tasks", err), nil
		}
		m.Message = fmt.Sprintf("Added a %d-task study sprint to To Do.", len(added))

	case flashcardsMsg:
		if msg.err != nil {
			return m.alertErr("Flashcard generation failed", msg.err), nil
		}
		if msg.taskID != "" {
			if err := m.state().SetTaskFlashcardsIn(m.ctx, msg.projectID, msg.taskID, msg.cards); err != nil {
				return m.alertErr("Could not save flashcards", err), nil
			}
			m.Message = fmt.Sprintf("Generated %d flashcards for the task.", len(msg.cards))
			return m, nil
		}
		deck, err := m.state().AddDeckTo(m.ctx, msg.projectID, msg.title, msg.cards)
		if err != nil {
			return m.alertErr("Could not save deck", err), nil
		}
		m.Message = fmt.Sprintf("Created deck %q with %d cards.", deck.Title, len(deck.Cards))

	case askMsg:
		if msg.err != nil {
			return m.alertErr("AI request failed", msg.err), nil
		}
		return m.alert("AI answer", msg.answer), nil

	case correctionMsg:
		if errors.Is(msg.err, latex.ErrEngineUnavailable) {
			return m.alert("Math check unavailable", "The math engine is not ready, so no flashcards were changed."), nil
		}
		if msg.err != nil {
			m.Message = "Correction stopped: " + msg.err.Error()
			return m, nil
		}
		if err := m.saveCards(msg.src, msg.cards); err != nil {
			return m.alertErr("Could not save corrected cards", err), nil
		}
		if m.review.active && m.review.src == msg.src {
			m.review.deck.Replace(msg.cards)
		}
		m.Message = correctionSummary(msg.report)

	case sheetImportMsg:
		form, open := m.modals.FormState()
		if msg.err != nil {
			if open && form.Purpose == FormSheetImport {
				form.Err = msg.err.Error()
				return m, nil
			}
			return m.alertErr("Sheet import failed", msg.err), nil
		}
		if len(msg.tasks) == 0 {
			if open {
				form.Err = "The sheet has no rows with a task title."
			}
			return m, nil
		}
		added, err := m.state().AddTasksTo(m.ctx, msg.projectID, msg.tasks)
		if err != nil {
			if open {
				form.Err = err.Error()
				return m, nil
			}
			return m.alertErr("Sheet import failed", err), nil
		}
		m.modals.Close()
		m.Message = fmt.Sprintf("Imported %d tasks from the sheet.", len(added))
	}
	return m, nil
}

func correctionSummary(r latex.Report) string {
	if r.Broken == 0 {
		return fmt.Sprintf("All %d math expressions render.", r.Expressions)
	}
	parts := []string{fmt.Sprintf("%d of %d expressions were broken", r.Broken, r.Expressions)}
	if r.Fixed > 0 {
		parts = append(parts, fmt.Sprintf("%d fixed", r.Fixed))
	}
	if r.Kept > 0 {
		parts = append(parts, fmt.Sprintf("%d left unchanged", r.Kept))
	}
	return strings.Join(parts, ", ") + "."
}

// saveCards writes cards back to the deck or task they came from.
func (m Model) saveCards(src deckSource, cards []models.Flashcard) error {
	if src.deckID != "" {
		return m.state().SetDeckCardsIn(m.ctx, src.projectID, src.deckID, cards)
	}
	return m.state().SetTaskFlashcardsIn(m.ctx, src.projectID, src.taskID, cards)
}
