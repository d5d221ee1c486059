package latex

import "testing"

func TestSplitPreservesInput(t *testing.T) {
	inputs := []string{
		"",
		"no math here",
		"Euler: $e^{i\\pi}+1=0$ is neat",
		"$$\\int_0^1 x\\,dx$$ then $a$ and $b$",
		"price is $5 and $6",
		"unclosed $x + y",
		"multi\n$$a\n+b$$\nline",
	}
	for _, in := range inputs {
		if got := Join(Split(in)); got != in {
			t.Fatalf("Join(Split(%q)) = %q", in, got)
		}
	}
}

func TestSplitSegments(t *testing.T) {
	segs := Split("A $x^2$ B $$\\frac12$$")
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d: %+v", len(segs), segs)
	}
	if segs[1].Expr != "x^2" || segs[1].Display || !segs[1].Math {
		t.Fatalf("unexpected inline segment %+v", segs[1])
	}
	if segs[3].Expr != "\\frac12" || !segs[3].Display {
		t.Fatalf("unexpected display segment %+v", segs[3])
	}
	if segs[0].Math || segs[2].Math {
		t.Fatalf("plain segments flagged as math")
	}
}

func TestStripDelimiters(t *testing.T) {
	cases := map[string]string{
		"x^2":                      "x^2",
		"$x^2$":                    "x^2",
		"$$\\frac{a}{b}$$":         "\\frac{a}{b}",
		"\\(a+b\\)":                "a+b",
		"\\[a+b\\]":                "a+b",
		"```latex\n\\sqrt{2}\n```": "\\sqrt{2}",
		"  $ $y$ $  ":              "y",
		"$stray":                   "stray",
	}
	for in, want := range cases {
		if got := StripDelimiters(in); got != want {
			t.Fatalf("StripDelimiters(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWrapAndHasMath(t *testing.T) {
	if Wrap("x", false) != "$x$" || Wrap("x", true) != "$$x$$" {
		t.Fatalf("Wrap produced wrong delimiters")
	}
	if !HasMath("a $b$") || HasMath("a b") {
		t.Fatalf("HasMath misreported")
	}
}
