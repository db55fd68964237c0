// Package tree implements the flat, depth-first node store described in
// spec.md §3 and §4.1: a single contiguous, pre-order sequence of
// (symbol, slice, child-count) triples backing the DIL parse tree.
//
// The design is a direct translation of the original C implementation's
// DilTree (original_source/src/dil/tree.c): a growable array indexed by
// position rather than a pointer tree, so that left-to-right traversal and
// source-order analysis are simple index increments and no per-node heap
// allocation is needed.
package tree

import "bytes"

// Slice is a half-open [First, Last) range of byte positions into a
// source buffer. Slices are borrowed: they are only meaningful alongside
// the buffer they were cut from.
type Slice struct {
	First int
	Last  int
}

// Len reports the number of bytes the slice covers.
func (s Slice) Len() int {
	return s.Last - s.First
}

// Bytes returns the portion of src the slice covers.
func (s Slice) Bytes(src []byte) []byte {
	return src[s.First:s.Last]
}

// Text returns the portion of src the slice covers, as a string.
func (s Slice) Text(src []byte) string {
	return string(s.Bytes(src))
}

// Node is a single entry in the flat tree: a symbol, the slice of source
// it spans, and the number of direct children that immediately follow it
// in the pre-order sequence.
type Node struct {
	Symbol   Symbol
	Slice    Slice
	Children int
}

// Tree is the append-only, pre-order serialization of a parse tree. Index
// 0 always holds the synthetic Root node.
type Tree struct {
	nodes []Node
	// source is the byte buffer every slice in nodes borrows into. It is
	// never mutated or copied; the tree only reads from it to compare
	// subtree content in Equal and to return node text in Text.
	source []byte
}

// New creates an empty tree over source. The caller (the builder) is
// responsible for appending the Root node before anything else.
func New(source []byte) *Tree {
	return &Tree{source: source}
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// At returns the node at index i.
func (t *Tree) At(i int) Node {
	return t.nodes[i]
}

// SetChildren overwrites the child count of the node at index i. Used by
// the builder to record that a new child was attached to its parent.
func (t *Tree) SetChildren(i, children int) {
	t.nodes[i].Children = children
}

// SetLast overwrites the closing bound of the node's slice at index i.
// Used by the builder when a production finishes and its span becomes
// known.
func (t *Tree) SetLast(i, last int) {
	t.nodes[i].Slice.Last = last
}

// Append pushes a node to the end of the tree and returns its index.
func (t *Tree) Append(n Node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// Pop drops the last node in the tree. It is the caller's responsibility
// to have already fixed up any parent's child count.
func (t *Tree) Pop() {
	t.nodes = t.nodes[:len(t.nodes)-1]
}

// subtreeEnd returns the index immediately after the full subtree rooted
// at i (1 + sum of descendant counts, computed by recursing over the
// child-count field rather than storing subtree sizes).
func (t *Tree) subtreeEnd(i int) int {
	n := t.nodes[i]
	j := i + 1
	for c := 0; c < n.Children; c++ {
		j = t.subtreeEnd(j)
	}
	return j
}

// WalkChild advances parent by one (onto its first child) then skips k
// full subtrees, landing on the (k+1)-th child... i.e. the 0-indexed k-th
// child of parent.
func (t *Tree) WalkChild(parent, k int) int {
	i := parent + 1
	for ; k > 0; k-- {
		i = t.subtreeEnd(i)
	}
	return i
}

// Equal reports whether the subtrees rooted at a and b are structurally
// equal: same symbol, same child count, byte-equal slice content (NOT
// equal slice positions), and pairwise-equal children.
func (t *Tree) Equal(a, b int) bool {
	na, nb := t.nodes[a], t.nodes[b]
	if na.Symbol != nb.Symbol || na.Children != nb.Children {
		return false
	}
	if !bytes.Equal(na.Slice.Bytes(t.source), nb.Slice.Bytes(t.source)) {
		return false
	}
	ca, cb := a+1, b+1
	for i := 0; i < na.Children; i++ {
		if !t.Equal(ca, cb) {
			return false
		}
		ca = t.subtreeEnd(ca)
		cb = t.subtreeEnd(cb)
	}
	return true
}

// Text returns the source text the node at i spans.
func (t *Tree) Text(i int) string {
	return t.nodes[i].Slice.Text(t.source)
}
