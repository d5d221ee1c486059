package latex

import (
	"errors"
	"testing"
)

func TestCheckerAcceptsWellFormed(t *testing.T) {
	c := NewChecker()
	cases := []struct {
		expr    string
		display bool
	}{
		{"x^2 + y_1^3", false},
		{"\\frac{a}{b} + \\frac12", false},
		{"\\sqrt[3]{x} + \\sqrt2", false},
		{"\\left( \\frac{1}{2} \\right]", false},
		{"\\left\\{ x \\middle| x > 0 \\right.", false},
		{"\\begin{pmatrix} 1 & 0 \\\\ 0 & 1 \\end{pmatrix}", false},
		{"\\begin{array}{cc} a & b \\end{array}", false},
		{"\\begin{align} a &= b \\\\ c &= d \\end{align}", true},
		{"a \\\\ b", true},
		{"\\text{speed } v = \\frac{d}{t}", false},
		{"\\operatorname{sgn}(x) \\cdot \\mathbb{R}", false},
		{"\\sum_{i=1}^{n} i = \\frac{n(n+1)}{2}", false},
		{"\\int_0^\\infty e^{-x}\\,dx", false},
		{"\\color{red}{x} \\textcolor{blue}{y}", false},
		{"f'(x) % comment\n+ 1", false},
		{"\\$5 \\{a\\}", false},
		{"^2", false},
		{"a \\newline b", true},
		{"\\begin{matrix} a \\over b & c \\over d \\\\ e \\choose f & 1 \\end{matrix}", false},
		{"\\begin{cases} 1 \\cr 0 \\end{cases}", false},
	}
	for _, tc := range cases {
		if err := c.Check(tc.expr, tc.display); err != nil {
			t.Fatalf("Check(%q) failed: %v", tc.expr, err)
		}
	}
}

func TestCheckerRejectsMalformed(t *testing.T) {
	c := NewChecker()
	cases := []struct {
		expr    string
		display bool
	}{
		{"\\frac{a}{b", false},
		{"a}", false},
		{"x\\", false},
		{"\\fracc{a}{b}", false},
		{"\\frac{a}", false},
		{"\\frac\\sqrt 2", false},
		{"\\sqrt", false},
		{"\\left( x", false},
		{"x \\right)", false},
		{"\\left\\foo x \\right)", false},
		{"\\begin{pmatrix} 1 \\end{bmatrix}", false},
		{"\\begin{nosuch} x \\end{nosuch}", false},
		{"\\begin{align} a \\end{align}", false},
		{"x^2^3", false},
		{"x_1_2", false},
		{"x^", false},
		{"a & b", false},
		{"a \\\\ b", false},
		{"{a & b}", true},
		{"\\text{unclosed", false},
		{"a $ b", false},
		{"\\middle| x", false},
		{"\\left( {a \\middle| b} \\right)", false},
		{"a \\newline b", false},
		{"a \\cr b", false},
		{"{a \\over b \\over c}", false},
		{"n \\choose k \\atop j", false},
	}
	for _, tc := range cases {
		err := c.Check(tc.expr, tc.display)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Check(%q) = %v, want *ParseError", tc.expr, err)
		}
	}
}

func TestCheckerAcceptsCommonKaTeX(t *testing.T) {
	c := NewChecker()
	cases := []string{
		`a \equiv b \mod n`,
		`a \lt b \gt c`,
		`{n \choose k} = {a \over b}`,
		`a \atop b`,
		`A \Longleftrightarrow B \longleftrightarrow C`,
		`A \subsetneq B`,
		`p \nmid q`,
		`\lbrace x \rbrace`,
		`\left\lbrace x \right\rbrace`,
		`f \colon X \to Y`,
		`\left\lt x \right\gt`,
		`x \xRightarrow{f} y \twoheadrightarrow z`,
		`\mathrel{R} \ket{\psi} \Bbb{R}`,
		`\rm d x \enspace \thinspace`,
		`\varGamma \mho \nleq \lesssim \leadsto`,
	}
	for _, expr := range cases {
		if err := c.Check(expr, false); err != nil {
			t.Fatalf("Check(%q) failed: %v", expr, err)
		}
	}
}

func TestMiddleNeedsLeft(t *testing.T) {
	err := NewChecker().Check(`a \middle| b`, false)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Msg != `\middle without preceding \left` {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestParseErrorPosition(t *testing.T) {
	err := NewChecker().Check("ab\\nope", false)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Pos != 2 {
		t.Fatalf("expected error at position 2, got %v", err)
	}
}

func TestZeroCheckerUnavailable(t *testing.T) {
	var c Checker
	if err := c.Check("x", false); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
	var nilChecker *Checker
	if err := nilChecker.Check("x", false); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable for nil, got %v", err)
	}
}
