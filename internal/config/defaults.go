package config

import "github.com/akyairhashvil/studyboard/internal/util"

const (
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultAIBaseURL         = "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"
	defaultAIModel           = "gemini-2.5-flash"
	defaultAITimeoutSeconds  = 60
	defaultSheetsTimeoutSecs = 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: util.DataDir(AppName),
			LogDir:  util.StateDir(AppName),
		},
		AI: AI{
			BaseURL:            defaultAIBaseURL,
			Model:              defaultAIModel,
			TimeoutSeconds:     defaultAITimeoutSeconds,
			MaxAttachmentBytes: DefaultMaxAttachmentBytes,
		},
		Sheets: Sheets{
			TimeoutSeconds: defaultSheetsTimeoutSecs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Timer: Timer{
			FocusMinutes: DefaultFocusMinutes,
			BreakMinutes: DefaultBreakMinutes,
			ExamMinutes:  DefaultExamMinutes,
			Ritual:       true,
		},
	}
}
