package latex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEngineUnavailable is returned when the typesetting engine was never initialized.
var ErrEngineUnavailable = errors.New("math typesetting engine unavailable")

// Typesetter checks that an undelimited expression renders.
type Typesetter interface {
	Check(expr string, display bool) error
}

// ParseError describes why an expression does not typeset.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

// Checker is a KaTeX-compatible syntax validator. Use NewChecker; a zero Checker reports
// ErrEngineUnavailable.
type Checker struct {
	commands   map[string]cmdSpec
	delimiters map[string]struct{}
}

func NewChecker() *Checker {
	return &Checker{commands: buildCommandTable(), delimiters: buildDelimiterSet()}
}

// Check typesets expr in inline or display mode and discards the result.
func (c *Checker) Check(expr string, display bool) error {
	if c == nil || c.commands == nil {
		return ErrEngineUnavailable
	}
	toks, err := tokenize(expr)
	if err != nil {
		return err
	}
	p := &parser{c: c, toks: toks, display: display}
	if err := p.parseSeq(display, false); err != nil {
		return err
	}
	tok := p.peek()
	switch tok.kind {
	case tokEOF:
		return nil
	case tokClose:
		return p.errAt(tok, "unexpected '}'")
	}
	return p.unmatched(tok)
}

type parser struct {
	c       *Checker
	toks    []token
	pos     int
	display bool
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errAt(tok token, msg string) error {
	return &ParseError{Pos: tok.pos, Msg: msg}
}

// parseSeq consumes atoms until EOF, '}', \right, \middle or \end, leaving the
// terminator unread. allowRow permits row breaks and align permits & at this level.
func (p *parser) parseSeq(allowRow, align bool) error {
	var sup, sub, infix bool
	for {
		tok := p.peek()
		switch tok.kind {
		case tokEOF, tokClose:
			return nil
		case tokSup, tokSub:
			p.next()
			if tok.kind == tokSup {
				if sup {
					return p.errAt(tok, "double superscript")
				}
				sup = true
			} else {
				if sub {
					return p.errAt(tok, "double subscript")
				}
				sub = true
			}
			if err := p.parseArg(tok.text); err != nil {
				return err
			}
			continue
		case tokAmp:
			if !align {
				return p.errAt(tok, "'&' used outside an alignment environment")
			}
			p.next()
			infix = false
		case tokCommand:
			if isTerminator(tok) {
				return nil
			}
			switch p.c.commands[tok.text].kind {
			case cmdRow:
				if !allowRow {
					return p.errAt(tok, fmt.Sprintf("'%s' used outside an alignment environment", tok.text))
				}
				p.next()
				infix = false
			case cmdInfix:
				if infix {
					return p.errAt(tok, "only one infix operator per group")
				}
				infix = true
				p.next()
			default:
				var err error
				if tok.text == `\begin` {
					err = p.parseEnvironment()
				} else {
					err = p.parseCommand()
				}
				if err != nil {
					return err
				}
			}
		case tokOpen:
			if err := p.parseGroup(); err != nil {
				return err
			}
		case tokChar:
			p.next()
			if tok.text == "$" {
				return p.errAt(tok, "'$' not allowed in math mode")
			}
		}
		sup, sub = false, false
	}
}

func isTerminator(tok token) bool {
	return tok.kind == tokCommand && (tok.text == `\right` || tok.text == `\middle` || tok.text == `\end`)
}

// unmatched reports a terminator that no enclosing construct accepts.
func (p *parser) unmatched(tok token) error {
	switch tok.text {
	case `\right`:
		return p.errAt(tok, `\right without matching \left`)
	case `\middle`:
		return p.errAt(tok, `\middle without preceding \left`)
	case `\end`:
		return p.errAt(tok, `\end without matching \begin`)
	}
	return p.errAt(tok, fmt.Sprintf("unexpected %q", tok.text))
}

func (p *parser) parseGroup() error {
	open := p.next()
	if err := p.parseSeq(false, false); err != nil {
		return err
	}
	tok := p.next()
	switch tok.kind {
	case tokClose:
		return nil
	case tokEOF:
		return p.errAt(open, "expected '}' to close group")
	}
	return p.unmatched(tok)
}

// parseArg reads one argument: a group, a single character or an argument-free command.
func (p *parser) parseArg(owner string) error {
	tok := p.peek()
	switch tok.kind {
	case tokOpen:
		return p.parseGroup()
	case tokChar:
		p.next()
		return nil
	case tokCommand:
		if isTerminator(tok) || tok.text == `\begin` {
			return p.errAt(tok, "expected group after "+owner)
		}
		spec, ok := p.c.commands[tok.text]
		if !ok {
			return p.errAt(tok, "undefined control sequence "+tok.text)
		}
		if spec.kind != cmdSymbol {
			return p.errAt(tok, fmt.Sprintf("got function %s with no arguments as argument to %s", tok.text, owner))
		}
		p.next()
		return nil
	}
	return p.errAt(tok, "expected group after "+owner)
}

// skipRawGroup consumes a braced argument without interpreting its contents.
func (p *parser) skipRawGroup(owner string) error {
	open := p.peek()
	if open.kind == tokChar {
		p.next()
		return nil
	}
	if open.kind != tokOpen {
		return p.errAt(open, "expected group after "+owner)
	}
	p.next()
	depth := 1
	for depth > 0 {
		tok := p.next()
		switch tok.kind {
		case tokEOF:
			return p.errAt(open, "expected '}' to close argument of "+owner)
		case tokOpen:
			depth++
		case tokClose:
			depth--
		}
	}
	return nil
}

func (p *parser) parseCommand() error {
	tok := p.next()
	spec, ok := p.c.commands[tok.text]
	if !ok {
		return p.errAt(tok, "undefined control sequence "+tok.text)
	}
	switch spec.kind {
	case cmdSymbol:
		return nil
	case cmdText:
		return p.skipRawGroup(tok.text)
	case cmdSqrt:
		if next := p.peek(); next.kind == tokChar && next.text == "[" {
			if err := p.skipOptional(tok.text); err != nil {
				return err
			}
		}
		return p.parseArg(tok.text)
	case cmdDelimSize:
		if err := p.parseDelimiter(tok.text); err != nil {
			return err
		}
		if tok.text == `\left` {
			return p.parseLeftRight(tok)
		}
		return nil
	}
	for i := 0; i < spec.args; i++ {
		var err error
		if i < spec.raw {
			err = p.skipRawGroup(tok.text)
		} else {
			err = p.parseArg(tok.text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) skipOptional(owner string) error {
	open := p.next()
	depth := 0
	for {
		tok := p.next()
		switch {
		case tok.kind == tokEOF:
			return p.errAt(open, "expected ']' to close optional argument of "+owner)
		case tok.kind == tokOpen:
			depth++
		case tok.kind == tokClose:
			if depth == 0 {
				return p.errAt(tok, "unexpected '}' in optional argument of "+owner)
			}
			depth--
		case tok.kind == tokChar && tok.text == "]" && depth == 0:
			return nil
		}
	}
}

func (p *parser) parseDelimiter(owner string) error {
	tok := p.peek()
	if tok.kind == tokChar || tok.kind == tokCommand {
		if _, ok := p.c.delimiters[tok.text]; ok {
			p.next()
			return nil
		}
	}
	if tok.kind == tokEOF {
		return p.errAt(tok, "missing delimiter after "+owner)
	}
	return p.errAt(tok, fmt.Sprintf("invalid delimiter %q after %s", tok.text, owner))
}

func (p *parser) parseLeftRight(left token) error {
	for {
		if err := p.parseSeq(false, false); err != nil {
			return err
		}
		tok := p.peek()
		if tok.kind == tokCommand && tok.text == `\right` {
			p.next()
			return p.parseDelimiter(`\right`)
		}
		if tok.kind == tokCommand && tok.text == `\middle` {
			p.next()
			if err := p.parseDelimiter(`\middle`); err != nil {
				return err
			}
			continue
		}
		return p.errAt(left, `\left without matching \right`)
	}
}

func (p *parser) readEnvName(owner token) (string, error) {
	open := p.next()
	if open.kind != tokOpen {
		return "", p.errAt(open, "expected environment name after "+owner.text)
	}
	var name strings.Builder
	for {
		tok := p.next()
		switch tok.kind {
		case tokClose:
			return name.String(), nil
		case tokChar:
			name.WriteString(tok.text)
		default:
			return "", p.errAt(tok, "invalid environment name after "+owner.text)
		}
	}
}

func (p *parser) parseEnvironment() error {
	begin := p.next()
	name, err := p.readEnvName(begin)
	if err != nil {
		return err
	}
	env, ok := environments[name]
	if !ok {
		return p.errAt(begin, fmt.Sprintf("no such environment: %s", name))
	}
	if env.displayOnly && !p.display {
		return p.errAt(begin, fmt.Sprintf("%s can be used only in display mode", name))
	}
	for i := 0; i < env.rawArgs; i++ {
		if err := p.skipRawGroup(`\begin{` + name + `}`); err != nil {
			return err
		}
	}
	if err := p.parseSeq(true, true); err != nil {
		return err
	}
	end := p.peek()
	if end.kind != tokCommand || end.text != `\end` {
		if isTerminator(end) {
			return p.unmatched(end)
		}
		return p.errAt(begin, fmt.Sprintf(`missing \end{%s}`, name))
	}
	p.next()
	closing, err := p.readEnvName(end)
	if err != nil {
		return err
	}
	if closing != name {
		return p.errAt(end, fmt.Sprintf(`mismatch: \begin{%s} matched by \end{%s}`, name, closing))
	}
	return nil
}
