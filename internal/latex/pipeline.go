package latex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akyairhashvil/studyboard/internal/models"
)

//go:generate mockgen -source=pipeline.go -destination=mock_fixer_test.go -package=latex

// Fixer asks an external service to repair a broken expression.
type Fixer interface {
	FixLatex(ctx context.Context, expr string, display bool) (string, error)
}

// Report counts what a correction pass did.
type Report struct {
	Cards       int
	Expressions int
	Broken      int
	Fixed       int
	Kept        int
}

// Problem is one expression that failed to typeset.
type Problem struct {
	Card  int
	Field string
	Expr  string
	Err   error
}

// Pipeline checks flashcard math and repairs what it can. A nil Fixer turns correction
// off; broken expressions are then always kept.
type Pipeline struct {
	engine Typesetter
	fixer  Fixer
	logger *slog.Logger
}

func NewPipeline(engine Typesetter, fixer Fixer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{engine: engine, fixer: fixer, logger: logger.With("component", "latex")}
}

// ready checks the engine once so a missing engine fails the whole batch up front.
func (p *Pipeline) ready() error {
	if p == nil || p.engine == nil {
		return ErrEngineUnavailable
	}
	if err := p.engine.Check("x", false); errors.Is(err, ErrEngineUnavailable) {
		return err
	}
	return nil
}

// Verify reports every expression that does not typeset, without changing anything.
func (p *Pipeline) Verify(cards []models.Flashcard) ([]Problem, Report, error) {
	rep := Report{Cards: len(cards)}
	if err := p.ready(); err != nil {
		return nil, rep, err
	}
	var problems []Problem
	for i, card := range cards {
		for _, field := range []struct {
			name string
			text string
		}{{"question", card.Question}, {"answer", card.Answer}} {
			for _, seg := range Split(field.text) {
				if !seg.Math {
					continue
				}
				rep.Expressions++
				if err := p.engine.Check(seg.Expr, seg.Display); err != nil {
					rep.Broken++
					rep.Kept++
					problems = append(problems, Problem{Card: i, Field: field.name, Expr: seg.Raw, Err: err})
				}
			}
		}
	}
	return problems, rep, nil
}

// CorrectCards returns copies of cards with broken expressions repaired where possible.
// Expressions that cannot be repaired are left exactly as they were. A cancelled context
// stops further repair attempts and is returned alongside the partial result.
func (p *Pipeline) CorrectCards(ctx context.Context, cards []models.Flashcard) ([]models.Flashcard, Report, error) {
	rep := Report{Cards: len(cards)}
	if err := p.ready(); err != nil {
		return nil, rep, err
	}
	out := make([]models.Flashcard, len(cards))
	for i, card := range cards {
		card.Question = p.correctText(ctx, card.Question, &rep)
		card.Answer = p.correctText(ctx, card.Answer, &rep)
		out[i] = card
	}
	if rep.Broken > 0 {
		p.logger.Info("latex correction finished",
			"cards", rep.Cards, "expressions", rep.Expressions, "broken", rep.Broken, "fixed", rep.Fixed)
	}
	return out, rep, ctx.Err()
}

// CorrectText repairs the math spans of a single text.
func (p *Pipeline) CorrectText(ctx context.Context, text string) (string, Report, error) {
	var rep Report
	if err := p.ready(); err != nil {
		return text, rep, err
	}
	return p.correctText(ctx, text, &rep), rep, ctx.Err()
}

func (p *Pipeline) correctText(ctx context.Context, text string, rep *Report) string {
	segs := Split(text)
	changed := false
	for i, seg := range segs {
		if !seg.Math {
			continue
		}
		rep.Expressions++
		checkErr := p.engine.Check(seg.Expr, seg.Display)
		if checkErr == nil {
			continue
		}
		rep.Broken++
		if fixed, ok := p.repair(ctx, seg, checkErr); ok {
			segs[i].Raw = fixed
			rep.Fixed++
			changed = true
			continue
		}
		rep.Kept++
	}
	if !changed {
		return text
	}
	return Join(segs)
}

func (p *Pipeline) repair(ctx context.Context, seg Segment, cause error) (fixed string, ok bool) {
	if p.fixer == nil || ctx.Err() != nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("latex fixer panicked", "expr", seg.Expr, "panic", fmt.Sprint(r))
			fixed, ok = "", false
		}
	}()
	reply, err := p.fixer.FixLatex(ctx, seg.Expr, seg.Display)
	if err != nil {
		p.logger.Debug("latex fixer failed", "expr", seg.Expr, "error", err)
		return "", false
	}
	body := StripDelimiters(reply)
	if strings.TrimSpace(body) == "" {
		return "", false
	}
	if err := p.engine.Check(body, seg.Display); err != nil {
		p.logger.Debug("latex correction still broken", "expr", seg.Expr, "correction", body, "cause", cause, "error", err)
		return "", false
	}
	wrapped := Wrap(body, seg.Display)
	// The repaired span must split back into exactly one math segment.
	if again := Split(wrapped); len(again) != 1 || !again[0].Math {
		return "", false
	}
	return wrapped, true
}
