package config

// Board layout.
const (
	MinColumnWidth = 18
	// CompactModeThreshold switches the board to a single focused column.
	CompactModeThreshold = 60
	TargetTitleWidth     = 30
	MinTitleWidth        = 10
	// MaxVisibleTasks limits cards drawn per column; the rest scroll.
	MaxVisibleTasks = 15
)

// TruncationSuffix is appended to text cut to fit a width.
const TruncationSuffix = "..."

// Input limits for TUI forms.
const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 1000
	// MaxPromptLength caps free-form AI prompts.
	MaxPromptLength = 2000
)
