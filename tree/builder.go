package tree

// Builder is the thin incremental constructor over a Tree, described in
// spec.md §3/§4.2. It maintains a stack of indices identifying the
// currently open parents; during parsing, the stack depth equals the
// currently open syntactic context depth.
//
// Grounded on original_source/src/dil/builder.c's DilBuilder: push marks
// the last-added node as the active parent, add appends unconditionally
// and increments the active parent's child count, and pop closes the
// current parent.
type Builder struct {
	tree    *Tree
	parents []int
}

// NewBuilder creates a builder over tree, with the tree expected to be
// empty; it appends the synthetic Root node and opens it as the first
// parent.
func NewBuilder(t *Tree) *Builder {
	b := &Builder{tree: t}
	root := t.Append(Node{Symbol: Root})
	b.parents = append(b.parents, root)
	return b
}

// Tree returns the tree the builder is constructing.
func (b *Builder) Tree() *Tree {
	return b.tree
}

// Add appends a node with zero children, increments the active parent's
// child count, and returns the new node's index.
func (b *Builder) Add(n Node) int {
	i := b.tree.Append(n)
	top := b.parents[len(b.parents)-1]
	b.tree.SetChildren(top, b.tree.At(top).Children+1)
	return i
}

// Push opens index i as the new active parent.
func (b *Builder) Push(i int) {
	b.parents = append(b.parents, i)
}

// PushLast opens the most recently added node as the new active parent.
// Equivalent to Push(lastIndex), matching dil_builder_push's "push the
// last added object" semantics.
func (b *Builder) PushLast() {
	b.Push(b.tree.Size() - 1)
}

// Pop closes the current parent.
func (b *Builder) Pop() {
	b.parents = b.parents[:len(b.parents)-1]
}

// RemoveLast drops the last node in the tree and decrements the active
// parent's child count. Used by the parser to roll back a speculative
// production that failed before consuming any input.
func (b *Builder) RemoveLast() {
	b.tree.Pop()
	top := b.parents[len(b.parents)-1]
	b.tree.SetChildren(top, b.tree.At(top).Children-1)
}

// Top returns the index of the currently active parent.
func (b *Builder) Top() int {
	return b.parents[len(b.parents)-1]
}

// Depth reports how many parents are currently open.
func (b *Builder) Depth() int {
	return len(b.parents)
}
