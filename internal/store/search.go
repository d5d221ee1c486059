package store

import (
	"slices"
	"strconv"
	"strings"

	"github.com/akyairhashvil/studyboard/internal/models"
	"github.com/akyairhashvil/studyboard/internal/util"
)

// MatchTask reports whether t satisfies every term of q. Text words must all appear in
// the title, description or a subtask.
func MatchTask(t models.Task, q util.SearchQuery) bool {
	if len(q.Status) > 0 && !matchesAny(string(t.Status), q.Status) {
		return false
	}
	if len(q.Priority) > 0 && !matchesAny(string(t.Priority), q.Priority) {
		return false
	}
	if len(q.Day) > 0 && !slices.Contains(q.Day, strconv.Itoa(t.SprintDay)) {
		return false
	}
	if len(q.Text) == 0 {
		return true
	}
	var haystack strings.Builder
	haystack.WriteString(strings.ToLower(t.Title))
	haystack.WriteByte('\n')
	haystack.WriteString(strings.ToLower(t.Description))
	for _, st := range t.Subtasks {
		haystack.WriteByte('\n')
		haystack.WriteString(strings.ToLower(st.Text))
	}
	text := haystack.String()
	for _, word := range q.Text {
		if !strings.Contains(text, word) {
			return false
		}
	}
	return true
}

// FilterTasks keeps the tasks matching q, preserving order.
func FilterTasks(tasks []models.Task, q util.SearchQuery) []models.Task {
	if q.Empty() {
		return tasks
	}
	var out []models.Task
	for _, t := range tasks {
		if MatchTask(t, q) {
			out = append(out, t)
		}
	}
	return out
}

// matchesAny accepts a prefix so "urgent" matches "urgent-important".
func matchesAny(value string, terms []string) bool {
	for _, term := range terms {
		if value == term || (len(term) > 1 && strings.HasPrefix(value, term)) {
			return true
		}
	}
	return false
}
