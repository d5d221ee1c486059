package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/akyairhashvil/studyboard/internal/config"
)

// TaskStatus is the kanban column a task sits in.
type TaskStatus string

const (
	StatusTodo       TaskStatus = config.StatusTodo
	StatusInProgress TaskStatus = config.StatusInProgress
	StatusDone       TaskStatus = config.StatusDone
)

// Columns lists the board columns in display order.
var Columns = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

func (s TaskStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return "To Do"
	}
}

// ParseTaskStatus accepts the stored values and a few common spellings.
func ParseTaskStatus(v string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "todo", "to do", "to-do", "":
		return StatusTodo, nil
	case "inprogress", "in progress", "in-progress", "doing":
		return StatusInProgress, nil
	case "done", "complete", "completed":
		return StatusDone, nil
	}
	return StatusTodo, fmt.Errorf("unknown task status %q", v)
}

// Priority is one of the four Eisenhower quadrants.
type Priority string

const (
	PriorityUrgentImportant       Priority = config.PriorityUrgentImportant
	PriorityNotUrgentImportant    Priority = config.PriorityNotUrgentImportant
	PriorityUrgentNotImportant    Priority = config.PriorityUrgentNotImportant
	PriorityNotUrgentNotImportant Priority = config.PriorityNotUrgentNotImportant
)

// Priorities lists the quadrants from most to least pressing.
var Priorities = []Priority{
	PriorityUrgentImportant,
	PriorityNotUrgentImportant,
	PriorityUrgentNotImportant,
	PriorityNotUrgentNotImportant,
}

func (p Priority) Label() string {
	switch p {
	case PriorityUrgentImportant:
		return "Do first"
	case PriorityNotUrgentImportant:
		return "Schedule"
	case PriorityUrgentNotImportant:
		return "Delegate"
	case PriorityNotUrgentNotImportant:
		return "Later"
	}
	return "Unset"
}

// Next cycles to the following quadrant.
func (p Priority) Next() Priority {
	for i, q := range Priorities {
		if q == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityUrgentImportant
}

// ParsePriority accepts quadrant names and plain high/medium/low labels.
func ParsePriority(v string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(PriorityUrgentImportant), "high", "urgent", "critical", "do first":
		return PriorityUrgentImportant, nil
	case string(PriorityNotUrgentImportant), "medium", "important", "schedule", "":
		return PriorityNotUrgentImportant, nil
	case string(PriorityUrgentNotImportant), "delegate":
		return PriorityUrgentNotImportant, nil
	case string(PriorityNotUrgentNotImportant), "low", "later", "eliminate":
		return PriorityNotUrgentNotImportant, nil
	}
	return PriorityNotUrgentImportant, fmt.Errorf("unknown priority %q", v)
}

// ReviewStatus is the flat three-state flashcard tag.
type ReviewStatus string

const (
	ReviewNew         ReviewStatus = "new"
	ReviewNeedsReview ReviewStatus = "needs-review"
	ReviewLearned     ReviewStatus = "learned"
)

func (r ReviewStatus) Normalize() ReviewStatus {
	switch r {
	case ReviewNeedsReview, ReviewLearned:
		return r
	}
	return ReviewNew
}

// FileSource tells whether a file's content lives in the blob store.
type FileSource string

const (
	SourceLocal FileSource = "local"
	SourceLink  FileSource = "link"
)

// Subtask is a checklist item owned by exactly one task.
type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Flashcard is a question/answer pair; text may embed $...$ or $$...$$ math.
type Flashcard struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Status   ReviewStatus `json:"status,omitempty"`
}

// FlashcardDeck is a standalone deck not attached to a task.
type FlashcardDeck struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Task is a single card on the board.
type Task struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Status          TaskStatus  `json:"status"`
	Priority        Priority    `json:"priority"`
	EstimateMinutes int         `json:"estimatedTime"`
	DueDate         *time.Time  `json:"dueDate,omitempty"`
	Subtasks        []Subtask   `json:"subtasks,omitempty"`
	Flashcards      []Flashcard `json:"flashcards,omitempty"`
	SprintDay       int         `json:"sprintDay,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// SubtaskProgress returns completed and total subtask counts.
func (t Task) SubtaskProgress() (int, int) {
	done := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// ProjectFile is file metadata; local content is stored in the blob store under ID.
type ProjectFile struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	MimeType         string     `json:"type"`
	Size             int64      `json:"size"`
	Source           FileSource `json:"source"`
	URL              string     `json:"url,omitempty"`
	NeedsRehydration bool       `json:"needsRehydration,omitempty"`
}

// TimerSettings configures the three countdown presets and the start ritual.
type TimerSettings struct {
	FocusMinutes  int  `json:"focusMinutes"`
	BreakMinutes  int  `json:"breakMinutes"`
	ExamMinutes   int  `json:"examMinutes"`
	RitualEnabled bool `json:"ritualEnabled"`
}

// Project owns its tasks, files and decks.
type Project struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Tasks         []Task          `json:"tasks"`
	Notes         string          `json:"notes"`
	Timer         TimerSettings   `json:"timerSettings"`
	PomodoroCount int             `json:"pomodoroCount"`
	Files         []ProjectFile   `json:"files"`
	Decks         []FlashcardDeck `json:"decks,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	t.Subtasks = slices.Clone(t.Subtasks)
	t.Flashcards = slices.Clone(t.Flashcards)
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	tasks := make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		tasks[i] = t.Clone()
	}
	p.Tasks = tasks
	p.Files = slices.Clone(p.Files)
	if p.Decks != nil {
		decks := make([]FlashcardDeck, len(p.Decks))
		for i, d := range p.Decks {
			d.Cards = slices.Clone(d.Cards)
			decks[i] = d
		}
		p.Decks = decks
	}
	return p
}

// TaskIndex returns the position of a task or -1.
func (p Project) TaskIndex(id string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// FileIndex returns the position of a file or -1.
func (p Project) FileIndex(id string) int {
	for i := range p.Files {
		if p.Files[i].ID == id {
			return i
		}
	}
	return -1
}

// TasksByStatus returns the tasks of one column, preserving board order.
func (p Project) TasksByStatus(status TaskStatus) []Task {
	var out []Task
	for _, t := range p.Tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// DefaultTimerSettings returns the preset lengths used for new projects.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		FocusMinutes:  config.DefaultFocusMinutes,
		BreakMinutes:  config.DefaultBreakMinutes,
		ExamMinutes:   config.DefaultExamMinutes,
		RitualEnabled: true,
	}
}
