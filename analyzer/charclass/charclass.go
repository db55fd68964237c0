// Package charclass expands Set, NotSet, and String nodes into concrete
// character sets and implements the overlap rules spec.md §4.4 requires
// for left-factoring detection: two positive sets overlap iff their
// intersection is non-empty, a positive and a negated set overlap iff
// the positive set is not a subset of the negated one, and two negated
// sets always overlap.
//
// Grounded on original_source/src/dil/analyzer.c's set-comparison
// helpers, translated from the tree's pointer walk to tree.WalkChild.
package charclass

import (
	"strconv"

	"github.com/nihei9/dil/tree"
)

// Class is an expanded character class: either the positive set Chars,
// or (if Negated) its complement.
type Class struct {
	Negated bool
	Chars   map[byte]bool
}

// DecodeEscaped interprets the source text of one Escaped node (with or
// without its leading backslash) into the single byte it denotes.
func DecodeEscaped(text string) byte {
	if len(text) == 0 || text[0] != '\\' {
		if len(text) == 0 {
			return 0
		}
		return text[0]
	}
	rest := text[1:]
	switch rest {
	case "t":
		return '\t'
	case "n":
		return '\n'
	case "\\":
		return '\\'
	case "'":
		return '\''
	case "~":
		return '~'
	case "\"":
		return '"'
	default:
		v, err := strconv.ParseUint(rest, 16, 8)
		if err != nil {
			return 0
		}
		return byte(v)
	}
}

// FromSet expands a Set node's children — escaped characters and
// optional "~" range pairs — into the set of bytes it matches.
func FromSet(t *tree.Tree, setIdx int) map[byte]bool {
	chars := map[byte]bool{}
	n := t.At(setIdx).Children
	k := 0
	for k < n {
		child := t.WalkChild(setIdx, k)
		if t.At(child).Symbol != tree.Escaped {
			k++
			continue
		}
		lo := DecodeEscaped(t.Text(child))
		k++
		if k < n {
			next := t.WalkChild(setIdx, k)
			if t.At(next).Symbol == tree.Terminal && t.Text(next) == "~" {
				k++
				if k < n {
					hiIdx := t.WalkChild(setIdx, k)
					hi := DecodeEscaped(t.Text(hiIdx))
					k++
					// An inverted range (lo > hi, e.g. 'm~a') has no
					// well-formed meaning; treat it as written the
					// other way around rather than looping on byte
					// wraparound.
					if lo > hi {
						lo, hi = hi, lo
					}
					for c := lo; ; c++ {
						chars[c] = true
						if c == hi {
							break
						}
					}
					continue
				}
			}
		}
		chars[lo] = true
	}
	return chars
}

// Set expands a Set node (symbol == tree.Set) into a positive Class.
func Set(t *tree.Tree, setIdx int) Class {
	return Class{Negated: false, Chars: FromSet(t, setIdx)}
}

// NotSet expands a NotSet node (symbol == tree.NotSet) into a negated
// Class over its inner Set.
func NotSet(t *tree.Tree, notSetIdx int) Class {
	n := t.At(notSetIdx).Children
	for k := 0; k < n; k++ {
		c := t.WalkChild(notSetIdx, k)
		if t.At(c).Symbol == tree.Set {
			return Class{Negated: true, Chars: FromSet(t, c)}
		}
	}
	return Class{Negated: true, Chars: map[byte]bool{}}
}

// String expands a String node into the singleton Class of its first
// character, or the zero Class if the string is empty.
func String(t *tree.Tree, stringIdx int) (Class, bool) {
	n := t.At(stringIdx).Children
	for k := 0; k < n; k++ {
		first := t.WalkChild(stringIdx, k)
		if t.At(first).Symbol == tree.Escaped {
			c := DecodeEscaped(t.Text(first))
			return Class{Negated: false, Chars: map[byte]bool{c: true}}, true
		}
	}
	return Class{}, false
}

// Overlap reports whether a and b share at least one matching byte,
// applying the three overlap rules spec.md §4.4 fixes.
func Overlap(a, b Class) bool {
	if !a.Negated && !b.Negated {
		for c := range a.Chars {
			if b.Chars[c] {
				return true
			}
		}
		return false
	}
	if a.Negated && b.Negated {
		return true
	}
	pos, neg := a, b
	if a.Negated {
		pos, neg = b, a
	}
	for c := range pos.Chars {
		if !neg.Chars[c] {
			return true
		}
	}
	return false
}
