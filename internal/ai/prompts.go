package ai

const breakdownSystemPrompt = `You are a study coach. Break the task you are given into small, concrete subtasks
a student can finish in one sitting each. Return between 3 and 8 subtasks, in the order
they should be done. Respond with JSON only.`

const sprintSystemPrompt = `You are a study planner. Turn the student's goal into a day-by-day study sprint.
Every task needs a short title, a one or two sentence description, a priority
(one of "urgent-important", "not-urgent-important", "urgent-not-important",
"not-urgent-not-important"), an estimate in minutes and the sprint day it belongs to
(1 is the first day). Use the attached material when it is provided. Respond with JSON only.`

const flashcardSystemPrompt = `You write flashcards for spaced study. Each card has one focused question and a
short, self-contained answer. Write mathematics as LaTeX between $...$ for inline math or
$$...$$ for display math. Use the attached material when it is provided. Respond with JSON only.`

const latexFixSystemPrompt = `You repair LaTeX math expressions so they typeset with KaTeX. Keep the meaning of the
expression. Reply with the corrected expression only, without dollar signs, code fences
or any explanation.`

const askSystemPrompt = `You are a helpful study assistant. Answer clearly and concisely. Write mathematics as
LaTeX between $...$ or $$...$$.`

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

var breakdownSchema = Schema{
	Name: "task_breakdown",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"subtasks": stringArray()},
		"required":             []string{"subtasks"},
		"additionalProperties": false,
	},
}

var sprintSchema = Schema{
	Name: "study_sprint",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tasks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":            map[string]any{"type": "string"},
						"description":      map[string]any{"type": "string"},
						"priority":         map[string]any{"type": "string"},
						"estimatedMinutes": map[string]any{"type": "integer"},
						"day":              map[string]any{"type": "integer"},
					},
					"required":             []string{"title", "description", "priority", "estimatedMinutes", "day"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"tasks"},
		"additionalProperties": false,
	},
}

var flashcardSchema = Schema{
	Name: "flashcards",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"answer":   map[string]any{"type": "string"},
					},
					"required":             []string{"question", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"flashcards"},
		"additionalProperties": false,
	},
}
