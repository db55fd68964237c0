package analyzer

import (
	"github.com/nihei9/dil/source"
	"github.com/nihei9/dil/tree"
)

// childOfSymbol returns the first direct child of parent whose symbol
// is sym. Productions interleave Terminal children (keywords,
// punctuation) among their meaningful children, so callers look up by
// symbol rather than by fixed position.
func childOfSymbol(t *tree.Tree, parent int, sym tree.Symbol) (int, bool) {
	n := t.At(parent).Children
	for k := 0; k < n; k++ {
		c := t.WalkChild(parent, k)
		if t.At(c).Symbol == sym {
			return c, true
		}
	}
	return 0, false
}

// childrenOfSymbol returns every direct child of parent whose symbol is
// sym, in tree order.
func childrenOfSymbol(t *tree.Tree, parent int, sym tree.Symbol) []int {
	var out []int
	n := t.At(parent).Children
	for k := 0; k < n; k++ {
		c := t.WalkChild(parent, k)
		if t.At(c).Symbol == sym {
			out = append(out, c)
		}
	}
	return out
}

// lastChild returns the last direct child of parent.
func lastChild(t *tree.Tree, parent int) int {
	n := t.At(parent).Children
	return t.WalkChild(parent, n-1)
}

// unitsOfAlternative returns an Alternative's direct children in order;
// unlike Pattern and the directive productions, Alternative never
// interleaves Terminal children among its units.
func unitsOfAlternative(t *tree.Tree, altIdx int) []int {
	n := t.At(altIdx).Children
	out := make([]int, n)
	for k := 0; k < n; k++ {
		out[k] = t.WalkChild(altIdx, k)
	}
	return out
}

func sliceOf(t *tree.Tree, idx int) source.Slice {
	s := t.At(idx).Slice
	return source.Slice{First: s.First, Last: s.Last}
}
