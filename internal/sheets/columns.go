package sheets

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/akyairhashvil/studyboard/internal/models"
)

var (
	titleHeaders    = []string{"task", "title"}
	doneHeaders     = []string{"done", "completed", "status"}
	priorityHeaders = []string{"priority"}
	dueHeaders      = []string{"due date", "due"}
	notesHeaders    = []string{"description", "notes"}
	estimateHeaders = []string{"estimate", "minutes"}
)

var doneValues = map[string]bool{
	"true": true, "yes": true, "y": true, "x": true, "done": true, "1": true, "completed": true, "✓": true,
}

var inProgressValues = map[string]bool{
	"in progress": true, "inprogress": true, "doing": true, "started": true,
}

var dueLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006", "Jan 2, 2006", "January 2, 2006", "2006/01/02"}

type columns struct {
	title, done, priority, due, notes, estimate int
}

// fold normalizes a header or cell for comparison. Casers keep state, so each call
// gets its own.
func fold(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

func mapColumns(header []string) columns {
	folded := make([]string, len(header))
	for i, h := range header {
		folded[i] = fold(strings.TrimPrefix(h, "\ufeff"))
	}
	find := func(names []string) int {
		for _, name := range names {
			for i, h := range folded {
				if h == name {
					return i
				}
			}
		}
		return -1
	}
	return columns{
		title:    find(titleHeaders),
		done:     find(doneHeaders),
		priority: find(priorityHeaders),
		due:      find(dueHeaders),
		notes:    find(notesHeaders),
		estimate: find(estimateHeaders),
	}
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (c columns) task(record []string) (models.Task, bool) {
	title := cell(record, c.title)
	if title == "" {
		return models.Task{}, false
	}
	t := models.Task{
		Title:       title,
		Description: cell(record, c.notes),
		Status:      parseStatus(cell(record, c.done)),
		Priority:    parsePriority(cell(record, c.priority)),
	}
	if due, ok := parseDue(cell(record, c.due)); ok {
		t.DueDate = &due
	}
	t.EstimateMinutes = parseMinutes(cell(record, c.estimate))
	return t, true
}

func parseStatus(v string) models.TaskStatus {
	v = fold(v)
	switch {
	case doneValues[v]:
		return models.StatusDone
	case inProgressValues[v]:
		return models.StatusInProgress
	}
	return models.StatusTodo
}

func parsePriority(v string) models.Priority {
	p, _ := models.ParsePriority(fold(v))
	return p
}

func parseDue(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseMinutes(v string) int {
	v = fold(v)
	for _, suffix := range []string{"minutes", "mins", "min", "m"} {
		if strings.HasSuffix(v, suffix) {
			v = strings.TrimSpace(strings.TrimSuffix(v, suffix))
			break
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
