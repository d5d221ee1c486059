package ai

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/akyairhashvil/studyboard/internal/latex"
)

// textSanitizer strips markup from generated text while leaving math spans untouched.
type textSanitizer struct {
	policy *bluemonday.Policy
}

func newTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean removes HTML from the plain parts of s. The policy escapes entities, which are
// unescaped again since the text is rendered in a terminal.
func (s *textSanitizer) Clean(text string) string {
	segs := latex.Split(text)
	for i, seg := range segs {
		if seg.Math {
			continue
		}
		segs[i].Raw = html.UnescapeString(s.policy.Sanitize(seg.Raw))
	}
	return strings.TrimSpace(latex.Join(segs))
}
