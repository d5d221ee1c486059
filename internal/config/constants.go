package config

import "time"

// Timer defaults for new projects.
const (
	DefaultFocusMinutes = 25
	DefaultBreakMinutes = 5
	DefaultExamMinutes  = 180
	TimerTickInterval   = time.Second
)

// UndoWindow is how long a deleted task can be restored.
const UndoWindow = 5 * time.Second

// Task statuses (kanban columns).
const (
	StatusTodo       = "todo"
	StatusInProgress = "inprogress"
	StatusDone       = "done"
)

// Priority quadrants.
const (
	PriorityUrgentImportant       = "urgent-important"
	PriorityNotUrgentImportant    = "not-urgent-important"
	PriorityUrgentNotImportant    = "urgent-not-important"
	PriorityNotUrgentNotImportant = "not-urgent-not-important"
)

// Application settings.
const (
	AppName            = "studyboard"
	DBFileName         = "studyboard.db"
	LockFileName       = "studyboard.lock"
	LogFileName        = "studyboard.log"
	DefaultProjectName = "My Study Plan"
)

// AI request limits.
const (
	DefaultMaxAttachmentBytes = 8 << 20
	DefaultFlashcardCount     = 12
	MaxSprintDays             = 30
)
