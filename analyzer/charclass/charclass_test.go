package charclass

import (
	"testing"

	"github.com/nihei9/dil/parser"
	"github.com/nihei9/dil/source"
	"github.com/nihei9/dil/tree"
)

// setNode parses text (expected to be a single rule whose pattern is
// one Set literal, e.g. "Main = 'm~a';") and returns the tree and the
// index of that Set node.
func setNode(t *testing.T, text string) (*tree.Tree, int) {
	t.Helper()
	src := source.New("test.dil", []byte(text))
	tr := parser.Parse(src)
	if src.Errors != 0 {
		t.Fatalf("unexpected parse errors on %q: %+v", text, src.Diagnostics)
	}
	rule := tr.WalkChild(0, 0)
	pattern := tr.WalkChild(rule, 2)
	alt := tr.WalkChild(pattern, 0)
	setIdx := tr.WalkChild(alt, 0)
	if tr.At(setIdx).Symbol != tree.Set {
		t.Fatalf("want Set, got %v", tr.At(setIdx).Symbol)
	}
	return tr, setIdx
}

func TestDecodeEscaped(t *testing.T) {
	cases := []struct {
		text string
		want byte
	}{
		{"a", 'a'},
		{"\\t", '\t'},
		{"\\n", '\n'},
		{"\\'", '\''},
		{"\\41", 0x41},
		{"\\7a", 0x7a},
	}
	for _, c := range cases {
		if got := DecodeEscaped(c.text); got != c.want {
			t.Fatalf("DecodeEscaped(%q): want %v, got %v", c.text, c.want, got)
		}
	}
}

func TestOverlapPositivePositive(t *testing.T) {
	a := Class{Chars: map[byte]bool{'a': true, 'b': true}}
	b := Class{Chars: map[byte]bool{'b': true, 'c': true}}
	if !Overlap(a, b) {
		t.Fatalf("expected overlap")
	}
	c := Class{Chars: map[byte]bool{'x': true}}
	if Overlap(a, c) {
		t.Fatalf("expected no overlap")
	}
}

func TestOverlapPositiveNegated(t *testing.T) {
	digits := map[byte]bool{}
	for c := byte('0'); c <= '9'; c++ {
		digits[c] = true
	}
	neg := Class{Negated: true, Chars: digits}
	a := Class{Chars: map[byte]bool{'a': true}}
	if !Overlap(neg, a) {
		t.Fatalf("expected overlap: 'a' is not a digit, so the negated digit set contains it")
	}
	five := Class{Chars: map[byte]bool{'5': true}}
	if Overlap(neg, five) {
		t.Fatalf("expected no overlap: '5' is a digit, excluded from the negated set")
	}
}

func TestFromSetRange(t *testing.T) {
	tr, setIdx := setNode(t, "Main = '0~9';")
	got := FromSet(tr, setIdx)
	for c := byte('0'); c <= '9'; c++ {
		if !got[c] {
			t.Fatalf("want %q in range, missing", c)
		}
	}
	if len(got) != 10 {
		t.Fatalf("want exactly 10 chars, got %d: %v", len(got), got)
	}
}

// TestFromSetInvertedRange guards against the range loop wrapping
// around the full byte alphabet when a range is written backwards
// (lo > hi): it must expand to the same 10 characters as '0~9', not to
// everything outside ['9', '0'].
func TestFromSetInvertedRange(t *testing.T) {
	tr, setIdx := setNode(t, "Main = '9~0';")
	got := FromSet(tr, setIdx)
	if len(got) != 10 {
		t.Fatalf("want exactly 10 chars for an inverted range, got %d: %v", len(got), got)
	}
	for c := byte('0'); c <= '9'; c++ {
		if !got[c] {
			t.Fatalf("want %q in the swapped range, missing", c)
		}
	}
}

func TestOverlapNegatedNegated(t *testing.T) {
	a := Class{Negated: true, Chars: map[byte]bool{'a': true}}
	b := Class{Negated: true, Chars: map[byte]bool{'b': true}}
	if !Overlap(a, b) {
		t.Fatalf("two negated sets always overlap")
	}
}
