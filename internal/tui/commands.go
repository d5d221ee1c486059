package tui

import (
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akyairhashvil/studyboard/internal/ai"
	"github.com/akyairhashvil/studyboard/internal/database"
	"github.com/akyairhashvil/studyboard/internal/latex"
	"github.com/akyairhashvil/studyboard/internal/models"
)

// Results of background work. Commands only compute; Update applies them to State, to
// the project that was active when the work started.
type (
	breakdownMsg struct {
		projectID string
		taskID    string
		subtasks  []string
		err       error
	}
	sprintMsg struct {
		projectID string
		tasks     []models.Task
		err       error
	}
	flashcardsMsg struct {
		projectID string
		taskID    string
		title     string
		cards     []models.Flashcard
		err       error
	}
	askMsg struct {
		question string
		answer   string
		err      error
	}
	correctionMsg struct {
		src    deckSource
		cards  []models.Flashcard
		report latex.Report
		err    error
	}
	sheetImportMsg struct {
		projectID string
		tasks     []models.Task
		err       error
	}
)

// blobLoader reads attachment content straight from the blob store so commands never
// touch State.
type blobLoader struct {
	repo database.BlobRepository
}

func (l blobLoader) FileData(ctx context.Context, id string) (models.ProjectFile, []byte, error) {
	blob, err := l.repo.GetBlob(ctx, id)
	if err != nil {
		return models.ProjectFile{}, nil, err
	}
	return models.ProjectFile{ID: id, Name: blob.Name, MimeType: blob.MimeType}, blob.Data, nil
}

func (m Model) collect(ctx context.Context, files []models.ProjectFile) ([]ai.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if m.app.Blobs == nil {
		return nil, fmt.Errorf("file storage unavailable")
	}
	return ai.CollectAttachments(ctx, blobLoader{repo: m.app.Blobs}, files, m.app.MaxAttachmentBytes, m.app.Logger)
}

func breakdownCmd(ctx context.Context, gen Generator, projectID string, task models.Task) tea.Cmd {
	task = task.Clone()
	return func() tea.Msg {
		subtasks, err := gen.BreakDownTask(ctx, task)
		return breakdownMsg{projectID: projectID, taskID: task.ID, subtasks: subtasks, err: err}
	}
}

func (m Model) sprintCmd(goal string, days int, files []models.ProjectFile) tea.Cmd {
	ctx, gen, projectID := m.ctx, m.app.Generator, m.state().ActiveID()
	files = slices.Clone(files)
	return func() tea.Msg {
		attachments, err := m.collect(ctx, files)
		if err != nil {
			return sprintMsg{projectID: projectID, err: err}
		}
		tasks, err := gen.GenerateSprint(ctx, goal, days, attachments)
		return sprintMsg{projectID: projectID, tasks: tasks, err: err}
	}
}

func (m Model) flashcardsCmd(taskID, title, topic string, count int, files []models.ProjectFile) tea.Cmd {
	ctx, gen, projectID := m.ctx, m.app.Generator, m.state().ActiveID()
	files = slices.Clone(files)
	return func() tea.Msg {
		attachments, err := m.collect(ctx, files)
		if err != nil {
			return flashcardsMsg{projectID: projectID, taskID: taskID, title: title, err: err}
		}
		cards, err := gen.GenerateFlashcards(ctx, topic, count, attachments)
		return flashcardsMsg{projectID: projectID, taskID: taskID, title: title, cards: cards, err: err}
	}
}

func (m Model) askCmd(question string, files []models.ProjectFile) tea.Cmd {
	ctx, gen := m.ctx, m.app.Generator
	files = slices.Clone(files)
	return func() tea.Msg {
		attachments, err := m.collect(ctx, files)
		if err != nil {
			return askMsg{question: question, err: err}
		}
		answer, err := gen.Ask(ctx, question, attachments)
		return askMsg{question: question, answer: answer, err: err}
	}
}

func correctionCmd(ctx context.Context, c Corrector, src deckSource, cards []models.Flashcard) tea.Cmd {
	cards = slices.Clone(cards)
	return func() tea.Msg {
		fixed, report, err := c.CorrectCards(ctx, cards)
		return correctionMsg{src: src, cards: fixed, report: report, err: err}
	}
}

func sheetImportCmd(ctx context.Context, imp SheetImporter, projectID, url, tab string) tea.Cmd {
	return func() tea.Msg {
		tasks, err := imp.Import(ctx, url, tab)
		return sheetImportMsg{projectID: projectID, tasks: tasks, err: err}
	}
}
