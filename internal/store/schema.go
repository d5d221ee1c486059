package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/akyairhashvil/studyboard/internal/config"
	"github.com/google/uuid"
)

// CurrentSchemaVersion is the version written with every save.
const CurrentSchemaVersion = 3

const (
	keyProjects = "projects"
	keyActiveID = "active_project_id"
	keyTheme    = "theme"
)

type envelope struct {
	Version  int             `json:"version"`
	Projects json.RawMessage `json:"projects"`
}

type rawProject = map[string]any

// migrations upgrade raw project documents from the keyed version to the next one.
var migrations = map[int]func([]rawProject) error{
	0: migrateV0,
	1: migrateV1,
	2: migrateV2,
}

// decodeProjects accepts either the versioned envelope or the legacy bare array and
// returns raw documents plus the version they were stored at.
func decodeProjects(raw []byte) ([]rawProject, int, error) {
	var docs []rawProject
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, 0, fmt.Errorf("decode legacy projects: %w", err)
		}
		return docs, 0, nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, fmt.Errorf("decode projects envelope: %w", err)
	}
	if env.Version > CurrentSchemaVersion {
		return nil, 0, fmt.Errorf("projects stored at version %d, newer than supported %d", env.Version, CurrentSchemaVersion)
	}
	if len(env.Projects) > 0 && string(env.Projects) != "null" {
		if err := json.Unmarshal(env.Projects, &docs); err != nil {
			return nil, 0, fmt.Errorf("decode projects: %w", err)
		}
	}
	return docs, env.Version, nil
}

// migrate applies every migration from version up to CurrentSchemaVersion.
func migrate(docs []rawProject, version int) error {
	for v := version; v < CurrentSchemaVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return fmt.Errorf("no migration from schema version %d", v)
		}
		if err := step(docs); err != nil {
			return fmt.Errorf("migrate schema %d -> %d: %w", v, v+1, err)
		}
	}
	return nil
}

// migrateV0 back-fills the fields early builds did not write.
func migrateV0(docs []rawProject) error {
	for _, p := range docs {
		if id, _ := p["id"].(string); id == "" {
			p["id"] = uuid.NewString()
		}
		if name, _ := p["name"].(string); name == "" {
			p["name"] = config.DefaultProjectName
		}
		setDefault(p, "notes", "")
		setDefault(p, "pomodoroCount", 0)
		setDefault(p, "files", []any{})
		setDefault(p, "tasks", []any{})
		setDefault(p, "timerSettings", map[string]any{
			"focusMinutes":  config.DefaultFocusMinutes,
			"breakMinutes":  config.DefaultBreakMinutes,
			"examMinutes":   config.DefaultExamMinutes,
			"ritualEnabled": true,
		})
	}
	return nil
}

// migrateV1 normalizes task enums and turns the old numeric priority into quadrants.
func migrateV1(docs []rawProject) error {
	for _, p := range docs {
		tasks, _ := p["tasks"].([]any)
		for _, item := range tasks {
			task, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("task entry is %T, want object", item)
			}
			if id, _ := task["id"].(string); id == "" {
				task["id"] = uuid.NewString()
			}
			if status, _ := task["status"].(string); status == "" {
				task["status"] = "todo"
			}
			switch prio := task["priority"].(type) {
			case float64:
				task["priority"] = legacyPriority(int(prio))
			case string:
				if prio == "" {
					task["priority"] = "not-urgent-important"
				}
			default:
				task["priority"] = "not-urgent-important"
			}
			if due, ok := task["dueDate"].(string); ok {
				switch {
				case due == "":
					delete(task, "dueDate")
				case len(due) == len("2006-01-02"):
					task["dueDate"] = due + "T00:00:00Z"
				}
			}
			if cards, ok := task["flashcards"].([]any); ok {
				for _, c := range cards {
					if card, ok := c.(map[string]any); ok {
						if status, _ := card["status"].(string); status == "" {
							card["status"] = "new"
						}
					}
				}
			}
		}
	}
	return nil
}

// migrateV2 introduces standalone decks and creation timestamps.
func migrateV2(docs []rawProject) error {
	stamp := time.Now().UTC().Format(time.RFC3339)
	for _, p := range docs {
		setDefault(p, "decks", []any{})
		setDefault(p, "createdAt", stamp)
		tasks, _ := p["tasks"].([]any)
		for _, item := range tasks {
			if task, ok := item.(map[string]any); ok {
				setDefault(task, "createdAt", stamp)
			}
		}
	}
	return nil
}

func legacyPriority(level int) string {
	switch {
	case level <= 1:
		return "urgent-important"
	case level == 2:
		return "not-urgent-important"
	case level == 3:
		return "urgent-not-important"
	}
	return "not-urgent-not-important"
}

func setDefault(doc map[string]any, key string, value any) {
	if v, ok := doc[key]; !ok || v == nil {
		doc[key] = value
	}
}
