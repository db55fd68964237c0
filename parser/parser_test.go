package parser

import (
	"testing"

	"github.com/nihei9/dil/source"
	"github.com/nihei9/dil/tree"
)

func parse(t *testing.T, text string) (*tree.Tree, *source.Source) {
	t.Helper()
	src := source.New("test.dil", []byte(text))
	tr := Parse(src)
	return tr, src
}

func TestParseSimpleRule(t *testing.T) {
	tr, src := parse(t, "Main = 'a';")
	if src.Errors != 0 {
		t.Fatalf("unexpected errors: %+v", src.Diagnostics)
	}
	root := tr.At(0)
	if root.Children != 1 {
		t.Fatalf("want 1 statement, got %d", root.Children)
	}
	rule := tr.At(tr.WalkChild(0, 0))
	if rule.Symbol != tree.Rule {
		t.Fatalf("want Rule, got %v", rule.Symbol)
	}
}

func TestParseOutputAndStartAndSkip(t *testing.T) {
	tr, src := parse(t, `output "go";
start Main;
skip ' \t\n';
Main = 'a';
`)
	if src.Errors != 0 {
		t.Fatalf("unexpected errors: %+v", src.Diagnostics)
	}
	if tr.At(0).Children != 4 {
		t.Fatalf("want 4 statements, got %d", tr.At(0).Children)
	}
	kinds := []tree.Symbol{tree.Output, tree.Start, tree.Skip, tree.Rule}
	for i, want := range kinds {
		got := tr.At(tr.WalkChild(0, i)).Symbol
		if got != want {
			t.Fatalf("statement %d: want %v, got %v", i, want, got)
		}
	}
}

func TestParseAlternationAndGroupAndModifiers(t *testing.T) {
	tr, src := parse(t, "Main = +('a' | 'b') *Digit ?'c' 3Digit;")
	if src.Errors != 0 {
		t.Fatalf("unexpected errors: %+v", src.Diagnostics)
	}
	rule := tr.WalkChild(0, 0)
	pattern := tr.WalkChild(rule, 2)
	alt := tr.WalkChild(pattern, 0)
	if got, want := tr.At(alt).Children, 4; got != want {
		t.Fatalf("want %d units in alternative, got %d", want, got)
	}
	unit0 := tr.At(tr.WalkChild(alt, 0))
	if unit0.Symbol != tree.OneOrMore {
		t.Fatalf("want OneOrMore, got %v", unit0.Symbol)
	}
}

func TestParseNotSetAndReference(t *testing.T) {
	tr, src := parse(t, "Main = !'a' Other;\nOther = 'b';")
	if src.Errors != 0 {
		t.Fatalf("unexpected errors: %+v", src.Diagnostics)
	}
	rule := tr.WalkChild(0, 0)
	pattern := tr.WalkChild(rule, 2)
	alt := tr.WalkChild(pattern, 0)
	if got := tr.At(tr.WalkChild(alt, 0)).Symbol; got != tree.NotSet {
		t.Fatalf("want NotSet, got %v", got)
	}
	if got := tr.At(tr.WalkChild(alt, 1)).Symbol; got != tree.Reference {
		t.Fatalf("want Reference, got %v", got)
	}
}

// TestParseMissingSemicolonRecovers exercises Scenario E's shape (a
// missing ";" after a start directive's pattern). Here recovery does
// not stop at the following newline: Start's pattern is a single
// alternative, and an alternative is "unit (skip+ unit)*", so before
// ";" is even tried the still-open Alternative accepts the next line's
// leading identifier as a second Reference unit — consuming "Main" out
// of what would otherwise be the next rule's definition. The ";" is
// then reported missing at the "=", and the remaining "'a';" cannot
// start a statement, so it produces a second, file-level diagnostic.
// This cascade is intended, documented behavior (DESIGN.md's
// cascading-recovery Open Question decision), not a bug, so this test
// only pins the first diagnostic's exact message and asserts at least
// one error.
func TestParseMissingSemicolonRecovers(t *testing.T) {
	_, src := parse(t, "start Main\nMain = 'a';")
	if src.Errors == 0 {
		t.Fatalf("want at least 1 error, got 0")
	}
	want := "Expected `;` in `Start`!"
	if got := src.Diagnostics[0].Message; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestParseTrailingGarbage(t *testing.T) {
	_, src := parse(t, "Main = 'a'; $$$")
	if src.Errors != 1 {
		t.Fatalf("want 1 error, got %d: %+v", src.Errors, src.Diagnostics)
	}
	want := "Unexpected characters in the file!"
	if got := src.Diagnostics[0].Message; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestParseEscapedHexAndLetter(t *testing.T) {
	tr, src := parse(t, `Main = '\41~\7a' "\n\"";`)
	if src.Errors != 0 {
		t.Fatalf("unexpected errors: %+v", src.Diagnostics)
	}
	rule := tr.WalkChild(0, 0)
	if tr.At(rule).Symbol != tree.Rule {
		t.Fatalf("want Rule, got %v", tr.At(rule).Symbol)
	}
}

func TestParseMalformedEscapeRecovers(t *testing.T) {
	_, src := parse(t, `Main = '\z ';`)
	if src.Errors != 1 {
		t.Fatalf("want 1 error, got %d: %+v", src.Errors, src.Diagnostics)
	}
	want := "Expected one of `t`, `n`, `\\`, `'`, `~`, `\"` or two hex digits in `Set`!"
	if got := src.Diagnostics[0].Message; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestParseRecoversAndContinuesAfterRule(t *testing.T) {
	tr, src := parse(t, "output ;\nMain = 'a';")
	if src.Errors != 1 {
		t.Fatalf("want exactly 1 error (recovered), got %d: %+v", src.Errors, src.Diagnostics)
	}
	if tr.At(0).Children != 2 {
		t.Fatalf("want both statements recognized, got %d", tr.At(0).Children)
	}
	if got := tr.At(tr.WalkChild(0, 1)).Symbol; got != tree.Rule {
		t.Fatalf("want second statement to parse as Rule, got %v", got)
	}
}
