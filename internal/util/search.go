package util

import (
	"regexp"
	"strings"
)

// SearchQuery is a parsed board filter such as "status:doing priority:urgent lab".
type SearchQuery struct {
	Status   []string
	Priority []string
	Day      []string
	Text     []string
}

var filterTerm = regexp.MustCompile(`(?i)\b(status|priority|day):([\w-]+)`)

// ParseSearchQuery splits raw into field filters and lower-cased free-text words.
// A day: value must be numeric; anything else stays free text.
func ParseSearchQuery(raw string) SearchQuery {
	var sq SearchQuery
	rest := filterTerm.ReplaceAllStringFunc(raw, func(term string) string {
		m := filterTerm.FindStringSubmatch(term)
		key, value := strings.ToLower(m[1]), strings.ToLower(m[2])
		switch key {
		case "status":
			sq.Status = append(sq.Status, value)
		case "priority":
			sq.Priority = append(sq.Priority, value)
		case "day":
			if strings.Trim(value, "0123456789") != "" {
				return term
			}
			sq.Day = append(sq.Day, value)
		}
		return " "
	})
	sq.Text = strings.Fields(strings.ToLower(rest))
	return sq
}

// Empty reports whether the query has no constraints.
func (q SearchQuery) Empty() bool {
	return len(q.Status) == 0 && len(q.Priority) == 0 && len(q.Day) == 0 && len(q.Text) == 0
}
