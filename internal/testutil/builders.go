package testutil

import (
	"fmt"
	"time"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/util"
)

// TaskBuilder provides fluent API for creating test tasks.
type TaskBuilder struct {
	task models.Task
}

func NewTask() *TaskBuilder {
	return &TaskBuilder{
		task: models.Task{
			Title:           "Test Task",
			Status:          models.StatusTodo,
			Priority:        models.PriorityNotUrgentImportant,
			EstimateMinutes: 30,
			CreatedAt:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func (b *TaskBuilder) WithID(id string) *TaskBuilder {
	b.task.ID = id
	return b
}

func (b *TaskBuilder) WithTitle(title string) *TaskBuilder {
	b.task.Title = title
	return b
}

func (b *TaskBuilder) WithDescription(d string) *TaskBuilder {
	b.task.Description = d
	return b
}

func (b *TaskBuilder) WithStatus(s models.TaskStatus) *TaskBuilder {
	b.task.Status = s
	return b
}

func (b *TaskBuilder) WithPriority(p models.Priority) *TaskBuilder {
	b.task.Priority = p
	return b
}

func (b *TaskBuilder) WithEstimate(minutes int) *TaskBuilder {
	b.task.EstimateMinutes = minutes
	return b
}

func (b *TaskBuilder) WithDueDate(d time.Time) *TaskBuilder {
	b.task.DueDate = util.Ptr(d)
	return b
}

func (b *TaskBuilder) WithSprintDay(day int) *TaskBuilder {
	b.task.SprintDay = day
	return b
}

func (b *TaskBuilder) WithSubtasks(texts ...string) *TaskBuilder {
	for i, text := range texts {
		b.task.Subtasks = append(b.task.Subtasks, models.Subtask{ID: fmt.Sprintf("sub-%d", i+1), Text: text})
	}
	return b
}

func (b *TaskBuilder) WithFlashcard(question, answer string) *TaskBuilder {
	b.task.Flashcards = append(b.task.Flashcards, models.Flashcard{Question: question, Answer: answer, Status: models.ReviewNew})
	return b
}

func (b *TaskBuilder) Build() models.Task {
	t := b.task
	t.Subtasks = append([]models.Subtask(nil), b.task.Subtasks...)
	t.Flashcards = append([]models.Flashcard(nil), b.task.Flashcards...)
	return t
}

// ProjectBuilder provides fluent API for creating test projects.
type ProjectBuilder struct {
	project models.Project
}

func NewProject() *ProjectBuilder {
	return &ProjectBuilder{
		project: models.Project{
			ID:   "project-1",
			Name: "Test Project",
			Timer: models.TimerSettings{
				FocusMinutes:  25,
				BreakMinutes:  5,
				ExamMinutes:   180,
				RitualEnabled: true,
			},
			Files:     []models.ProjectFile{},
			CreatedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		},
	}
}

func (b *ProjectBuilder) WithID(id string) *ProjectBuilder {
	b.project.ID = id
	return b
}

func (b *ProjectBuilder) WithName(name string) *ProjectBuilder {
	b.project.Name = name
	return b
}

func (b *ProjectBuilder) WithNotes(notes string) *ProjectBuilder {
	b.project.Notes = notes
	return b
}

func (b *ProjectBuilder) WithTasks(tasks ...models.Task) *ProjectBuilder {
	b.project.Tasks = append(b.project.Tasks, tasks...)
	return b
}

func (b *ProjectBuilder) WithLinkFile(id, name, url string) *ProjectBuilder {
	b.project.Files = append(b.project.Files, models.ProjectFile{ID: id, Name: name, Source: models.SourceLink, URL: url})
	return b
}

func (b *ProjectBuilder) WithTimer(focus, brk, exam int, ritual bool) *ProjectBuilder {
	b.project.Timer = models.TimerSettings{FocusMinutes: focus, BreakMinutes: brk, ExamMinutes: exam, RitualEnabled: ritual}
	return b
}

func (b *ProjectBuilder) Build() models.Project {
	p := b.project
	p.Tasks = append([]models.Task(nil), b.project.Tasks...)
	p.Files = append([]models.ProjectFile{}, b.project.Files...)
	return p
}
