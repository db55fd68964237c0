package analyzer

import (
	"strings"
	"testing"

	"github.com/nihei9/dil/parser"
	"github.com/nihei9/dil/source"
)

func run(t *testing.T, text string) *source.Source {
	t.Helper()
	src := source.New("test.dil", []byte(text))
	tr := parser.Parse(src)
	if src.Errors != 0 {
		t.Fatalf("unexpected parse errors on %q: %+v", text, src.Diagnostics)
	}
	Analyze(src, tr)
	return src
}

func countMessage(src *source.Source, msg string) int {
	n := 0
	for _, d := range src.Diagnostics {
		if d.Message == msg {
			n++
		}
	}
	return n
}

func TestSkipStartAndOneRule(t *testing.T) {
	src := run(t, "skip ' \\t\\n';\nstart Main;\nMain = 'a';")
	if src.Errors != 0 || src.Warnings != 0 {
		t.Fatalf("want 0 errors and 0 warnings, got %d/%d: %+v", src.Errors, src.Warnings, src.Diagnostics)
	}
}

func TestDirectLeftRecursion(t *testing.T) {
	src := run(t, "start A;\nA = A;")
	if got := countMessage(src, diagLeftRecursion); got != 1 {
		t.Fatalf("want exactly 1 left-recursion diagnostic, got %d: %+v", got, src.Diagnostics)
	}
}

func TestIndirectLeftRecursion(t *testing.T) {
	src := run(t, "start A;\nA = B;\nB = A;")
	if got := countMessage(src, diagLeftRecursion); got != 2 {
		t.Fatalf("want exactly 2 left-recursion diagnostics, got %d: %+v", got, src.Diagnostics)
	}
}

// TestLeftRecursionPointsAtReference confirms the diagnostic underlines
// the FIRST-position reference occurrence that closes the cycle (as
// original_source/src/dil/analyzer.c's dil_analyze_left_recursion
// does), not the rule being checked.
func TestLeftRecursionPointsAtReference(t *testing.T) {
	text := "start A;\nA = B;\nB = A;"
	src := run(t, text)

	var spans []int
	for _, d := range src.Diagnostics {
		if d.Message == diagLeftRecursion {
			spans = append(spans, d.Slice.First)
		}
	}
	if len(spans) != 2 {
		t.Fatalf("want 2 left-recursion diagnostics, got %d: %+v", len(spans), src.Diagnostics)
	}

	// Checking rule A finds the cycle via B's reference to A, written
	// inside "B = A;" — the rightmost "A" in the text.
	wantA := strings.LastIndex(text, "A")
	// Checking rule B finds the cycle via A's reference to B, written
	// inside "A = B;" — the leftmost "B" in the text.
	wantB := strings.Index(text, "B")

	if spans[0] != wantA {
		t.Fatalf("want first diagnostic at offset %d (the reference in `B = A;`), got %d", wantA, spans[0])
	}
	if spans[1] != wantB {
		t.Fatalf("want second diagnostic at offset %d (the reference in `A = B;`), got %d", wantB, spans[1])
	}
}

func TestThreeRuleCycle(t *testing.T) {
	src := run(t, "start A;\nA = B;\nB = C;\nC = A;")
	if got := countMessage(src, diagLeftRecursion); got != 3 {
		t.Fatalf("want exactly 3 left-recursion diagnostics, got %d: %+v", got, src.Diagnostics)
	}
	if src.Errors != 3 {
		t.Fatalf("want errors == 3, got %d", src.Errors)
	}
}

func TestRedefinition(t *testing.T) {
	src := run(t, "start A;\nA = 'a';\nA = 'b';")
	if got := countMessage(src, diagRedefinition); got != 1 {
		t.Fatalf("want 1 redefinition diagnostic, got %d: %+v", got, src.Diagnostics)
	}
}

func TestUndefinedReference(t *testing.T) {
	src := run(t, "start A;\nA = B;")
	if got := countMessage(src, diagUndefinedReference); got != 1 {
		t.Fatalf("want 1 undefined-reference diagnostic, got %d: %+v", got, src.Diagnostics)
	}
}

func TestLeftFactoringSimple(t *testing.T) {
	src := run(t, "start A;\nA = 'a' | 'a' 'b';")
	if got := countMessage(src, diagLeftFactoring); got != 2 {
		t.Fatalf("want 2 left-factoring diagnostics, got %d: %+v", got, src.Diagnostics)
	}
}

func TestLeftFactoringRangeOverlap(t *testing.T) {
	src := run(t, "start A;\nA = 'a~m' | 'f';")
	if got := countMessage(src, diagLeftFactoring); got != 2 {
		t.Fatalf("want 2 left-factoring diagnostics, got %d: %+v", got, src.Diagnostics)
	}
}

func TestRedundantSkipDirectives(t *testing.T) {
	src := run(t, "start A;\nskip ' ';\nskip ' ';\nA = 'a';")
	if got := countMessage(src, diagRedundantSkip); got != 1 {
		t.Fatalf("want 1 redundant-skip diagnostic, got %d: %+v", got, src.Diagnostics)
	}
}

func TestRedundantNoSkipDirective(t *testing.T) {
	src := run(t, "start A;\nskip;\nA = 'a';")
	if got := countMessage(src, diagRedundantNoSkip); got != 1 {
		t.Fatalf("want 1 redundant-no-skip diagnostic, got %d: %+v", got, src.Diagnostics)
	}
	if src.Warnings != 1 {
		t.Fatalf("want the diagnostic reported as a warning, got warnings=%d", src.Warnings)
	}
}

// Scenario A.
func TestScenarioMinimalWellFormed(t *testing.T) {
	src := run(t, "start Main;\nMain = 'a';")
	if src.Errors != 0 || src.Warnings != 0 {
		t.Fatalf("want 0/0, got %d/%d: %+v", src.Errors, src.Warnings, src.Diagnostics)
	}
}

// Scenario B.
func TestScenarioMissingStart(t *testing.T) {
	src := run(t, "Main = 'a';")
	if src.Errors != 1 {
		t.Fatalf("want errors == 1, got %d", src.Errors)
	}
	if got := countMessage(src, diagMissingStart); got != 1 {
		t.Fatalf("want 1 missing-start diagnostic, got %d: %+v", got, src.Diagnostics)
	}
}

// Scenario D.
func TestScenarioThreeWayLeftFactoring(t *testing.T) {
	src := run(t, "start A;\nA = 'x' 'y' | 'x' 'z' | 'w';")
	if got := countMessage(src, diagLeftFactoring); got != 2 {
		t.Fatalf("want 2 left-factoring diagnostics (one conflicting pair), got %d: %+v", got, src.Diagnostics)
	}
}

// Scenario F.
func TestScenarioNegatedOverlap(t *testing.T) {
	src := run(t, "start A;\nA = !'0~9' | 'a';")
	if got := countMessage(src, diagLeftFactoring); got != 2 {
		t.Fatalf("want 2 left-factoring diagnostics, got %d: %+v", got, src.Diagnostics)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	src := source.New("test.dil", []byte("start A;\nA = A;"))
	tr := parser.Parse(src)
	Analyze(src, tr)
	first := src.Errors
	Analyze(src, tr)
	if src.Errors != 2*first {
		t.Fatalf("want errors to double on a second analysis pass, got %d (first was %d)", src.Errors, first)
	}
}
