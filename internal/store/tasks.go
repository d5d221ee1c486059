package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/akyairhashvil/studyboard/internal/models"
)

type pendingDelete struct {
	projectID string
	index     int
	task      models.Task
	deletedAt time.Time
}

func (s *State) prepareTask(t models.Task) (models.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return t, ErrEmptyTitle
	}
	if t.ID == "" {
		t.ID = s.newID()
	}
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityNotUrgentImportant
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == "" {
			t.Subtasks[i].ID = s.newID()
		}
	}
	for i := range t.Flashcards {
		t.Flashcards[i].Status = t.Flashcards[i].Status.Normalize()
	}
	return t, nil
}

// AddTask appends a task to the active project, filling in id, status and timestamps.
func (s *State) AddTask(ctx context.Context, t models.Task) (models.Task, error) {
	added, err := s.AddTasks(ctx, []models.Task{t})
	if err != nil {
		return models.Task{}, err
	}
	return added[0], nil
}

// AddTasks appends a batch to the active project. Either every task is added or none.
func (s *State) AddTasks(ctx context.Context, tasks []models.Task) ([]models.Task, error) {
	return s.AddTasksTo(ctx, s.activeID, tasks)
}

// AddTasksTo is AddTasks for any project, so results of background work land where they
// were requested even if the user switched projects meanwhile.
func (s *State) AddTasksTo(ctx context.Context, projectID string, tasks []models.Task) ([]models.Task, error) {
	p, err := s.project(projectID)
	if err != nil {
		return nil, err
	}
	prepared := make([]models.Task, 0, len(tasks))
	for i, t := range tasks {
		p, err := s.prepareTask(t)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		prepared = append(prepared, p)
	}
	if len(prepared) == 0 {
		return nil, nil
	}
	snap := s.snapshot()
	p.Tasks = append(p.Tasks, prepared...)
	if err := s.commit(ctx, snap); err != nil {
		return nil, err
	}
	return prepared, nil
}

// Task returns a snapshot of a task in the active project.
func (s *State) Task(id string) (models.Task, error) {
	p := s.active()
	idx := p.TaskIndex(id)
	if idx < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return p.Tasks[idx], nil
}

// UpdateTask replaces a task by id, keeping its position.
func (s *State) UpdateTask(ctx context.Context, t models.Task) error {
	p := s.active()
	idx := p.TaskIndex(t.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, t.ID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	snap := s.snapshot()
	p.Tasks[idx] = t.Clone()
	return s.commit(ctx, snap)
}

func (s *State) mutateTask(ctx context.Context, id string, fn func(*models.Task) error) error {
	return s.mutateTaskIn(ctx, s.activeID, id, fn)
}

// mutateTaskIn runs fn on a copy of the task and stores the copy only if it saves.
func (s *State) mutateTaskIn(ctx context.Context, projectID, id string, fn func(*models.Task) error) error {
	p, err := s.project(projectID)
	if err != nil {
		return err
	}
	idx := p.TaskIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t := p.Tasks[idx].Clone()
	if err := fn(&t); err != nil {
		return err
	}
	snap := s.snapshot()
	p.Tasks[idx] = t
	return s.commit(ctx, snap)
}

// MoveTask changes a task's column.
func (s *State) MoveTask(ctx context.Context, id string, status models.TaskStatus) error {
	return s.mutateTask(ctx, id, func(t *models.Task) error {
		t.Status = status
		return nil
	})
}

// CyclePriority advances a task to the next quadrant.
func (s *State) CyclePriority(ctx context.Context, id string) (models.Priority, error) {
	var next models.Priority
	err := s.mutateTask(ctx, id, func(t *models.Task) error {
		t.Priority = t.Priority.Next()
		next = t.Priority
		return nil
	})
	return next, err
}

// DeleteTask removes a task and remembers it for UndoWindow. Only the most recent
// deletion can be undone.
func (s *State) DeleteTask(ctx context.Context, id string) error {
	p := s.active()
	idx := p.TaskIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	snap := s.snapshot()
	task := p.Tasks[idx]
	p.Tasks = append(p.Tasks[:idx:idx], p.Tasks[idx+1:]...)
	if err := s.commit(ctx, snap); err != nil {
		return err
	}
	s.pending = &pendingDelete{projectID: p.ID, index: idx, task: task, deletedAt: s.now()}
	return nil
}

// UndoDelete restores the last deleted task at its original index.
func (s *State) UndoDelete(ctx context.Context) (models.Task, error) {
	pd := s.pending
	if pd == nil {
		return models.Task{}, ErrNothingToUndo
	}
	if s.undoLeft(pd) <= 0 {
		s.pending = nil
		return models.Task{}, ErrUndoExpired
	}
	pidx := s.projectIndex(pd.projectID)
	if pidx < 0 {
		s.pending = nil
		return models.Task{}, fmt.Errorf("%w: %s", ErrProjectNotFound, pd.projectID)
	}
	snap := s.snapshot()
	p := &s.projects[pidx]
	p.Tasks = insertTask(p.Tasks, pd.index, pd.task)
	s.pending = nil
	if err := s.commit(ctx, snap); err != nil {
		return models.Task{}, err
	}
	return pd.task, nil
}

// undoLeft is the remainder of the undo window. The window is half-open: at exactly
// UndoWindow after the delete the task can no longer be restored.
func (s *State) undoLeft(pd *pendingDelete) time.Duration {
	return config.UndoWindow - s.now().Sub(pd.deletedAt)
}

// PendingUndo reports the task that can still be restored and the time left to do so.
func (s *State) PendingUndo() (models.Task, time.Duration, bool) {
	if s.pending == nil {
		return models.Task{}, 0, false
	}
	left := s.undoLeft(s.pending)
	if left <= 0 {
		s.pending = nil
		return models.Task{}, 0, false
	}
	return s.pending.task, left, true
}

func insertTask(tasks []models.Task, idx int, t models.Task) []models.Task {
	if idx > len(tasks) {
		idx = len(tasks)
	}
	tasks = append(tasks, models.Task{})
	copy(tasks[idx+1:], tasks[idx:])
	tasks[idx] = t
	return tasks
}

// AddSubtasks appends checklist items to a task.
func (s *State) AddSubtasks(ctx context.Context, taskID string, texts ...string) error {
	return s.AddSubtasksIn(ctx, s.activeID, taskID, texts...)
}

func (s *State) AddSubtasksIn(ctx context.Context, projectID, taskID string, texts ...string) error {
	return s.mutateTaskIn(ctx, projectID, taskID, func(t *models.Task) error {
		for _, text := range texts {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			t.Subtasks = append(t.Subtasks, models.Subtask{ID: s.newID(), Text: text})
		}
		return nil
	})
}

// ToggleSubtask flips a subtask's completed flag.
func (s *State) ToggleSubtask(ctx context.Context, taskID, subtaskID string) error {
	return s.mutateTask(ctx, taskID, func(t *models.Task) error {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subtaskID {
				t.Subtasks[i].Completed = !t.Subtasks[i].Completed
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrSubtaskNotFound, subtaskID)
	})
}

// SetTaskFlashcards replaces the cards attached to a task.
func (s *State) SetTaskFlashcards(ctx context.Context, taskID string, cards []models.Flashcard) error {
	return s.SetTaskFlashcardsIn(ctx, s.activeID, taskID, cards)
}

func (s *State) SetTaskFlashcardsIn(ctx context.Context, projectID, taskID string, cards []models.Flashcard) error {
	return s.mutateTaskIn(ctx, projectID, taskID, func(t *models.Task) error {
		t.Flashcards = normalizeCards(cards)
		return nil
	})
}

func normalizeCards(cards []models.Flashcard) []models.Flashcard {
	out := make([]models.Flashcard, len(cards))
	for i, c := range cards {
		c.Status = c.Status.Normalize()
		out[i] = c
	}
	return out
}
