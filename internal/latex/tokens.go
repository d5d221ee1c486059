package latex

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokChar
	tokCommand
	tokOpen
	tokClose
	tokSup
	tokSub
	tokAmp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// tokenize splits an expression into control sequences, group markers, scripts and
// single characters. Whitespace and % comments are dropped.
func tokenize(expr string) ([]token, error) {
	var toks []token
	for i := 0; i < len(expr); {
		r, size := utf8.DecodeRuneInString(expr[i:])
		switch {
		case r == '\\':
			if i+1 >= len(expr) {
				return nil, &ParseError{Pos: i, Msg: "trailing backslash"}
			}
			next, nsize := utf8.DecodeRuneInString(expr[i+1:])
			if isASCIILetter(next) {
				j := i + 1
				for j < len(expr) && isASCIILetter(rune(expr[j])) {
					j++
				}
				toks = append(toks, token{kind: tokCommand, text: expr[i:j], pos: i})
				i = j
				continue
			}
			toks = append(toks, token{kind: tokCommand, text: expr[i : i+1+nsize], pos: i})
			i += 1 + nsize
			continue
		case r == '%':
			for i < len(expr) && expr[i] != '\n' {
				i++
			}
			continue
		case unicode.IsSpace(r):
		case r == '{':
			toks = append(toks, token{kind: tokOpen, text: "{", pos: i})
		case r == '}':
			toks = append(toks, token{kind: tokClose, text: "}", pos: i})
		case r == '^':
			toks = append(toks, token{kind: tokSup, text: "^", pos: i})
		case r == '_':
			toks = append(toks, token{kind: tokSub, text: "_", pos: i})
		case r == '&':
			toks = append(toks, token{kind: tokAmp, text: "&", pos: i})
		default:
			toks = append(toks, token{kind: tokChar, text: expr[i : i+size], pos: i})
		}
		i += size
	}
	toks = append(toks, token{kind: tokEOF, pos: len(expr)})
	return toks, nil
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
