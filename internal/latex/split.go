// Package latex finds math spans in flashcard text, checks that they typeset, and repairs
// broken ones on a best-effort basis.
package latex

import (
	"regexp"
	"strings"
)

var mathSpan = regexp.MustCompile(`\$\$[\s\S]+?\$\$|\$[^$\n]+?\$`)

// Segment is one piece of split text. Math segments carry the undelimited expression.
type Segment struct {
	Raw     string
	Expr    string
	Display bool
	Math    bool
}

// Split cuts text into alternating plain and math segments. Joining every Raw field
// reproduces the input exactly.
func Split(text string) []Segment {
	var segs []Segment
	last := 0
	for _, loc := range mathSpan.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segs = append(segs, Segment{Raw: text[last:loc[0]]})
		}
		raw := text[loc[0]:loc[1]]
		seg := Segment{Raw: raw, Math: true}
		if strings.HasPrefix(raw, "$$") {
			seg.Display = true
			seg.Expr = raw[2 : len(raw)-2]
		} else {
			seg.Expr = raw[1 : len(raw)-1]
		}
		segs = append(segs, seg)
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Raw: text[last:]})
	}
	return segs
}

// Join concatenates segments back into text.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Raw)
	}
	return b.String()
}

// Wrap delimits expr in the inline or display style.
func Wrap(expr string, display bool) string {
	if display {
		return "$$" + expr + "$$"
	}
	return "$" + expr + "$"
}

// HasMath reports whether text contains at least one math span.
func HasMath(text string) bool {
	return mathSpan.MatchString(text)
}

var codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\n?```$")

// StripDelimiters removes code fences and math delimiters a model may wrap around an
// expression, leaving only the body.
func StripDelimiters(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	for {
		before := s
		switch {
		case len(s) >= 4 && strings.HasPrefix(s, "$$") && strings.HasSuffix(s, "$$"):
			s = s[2 : len(s)-2]
		case len(s) >= 2 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$"):
			s = s[1 : len(s)-1]
		case strings.HasPrefix(s, `\[`) && strings.HasSuffix(s, `\]`) && len(s) >= 4:
			s = s[2 : len(s)-2]
		case strings.HasPrefix(s, `\(`) && strings.HasSuffix(s, `\)`) && len(s) >= 4:
			s = s[2 : len(s)-2]
		}
		s = strings.TrimSpace(s)
		if s == before {
			break
		}
	}
	s = strings.Trim(s, "$")
	return strings.TrimSpace(s)
}
