package tree

// Builder gives tests a terse way to assemble a Tree without manually
// threading parent indices through every Add call.
type Builder struct {
	t   *Tree
	cur Index
}

// NewBuilder starts a Builder over a fresh Tree with no current node.
func NewBuilder() *Builder {
	return &Builder{t: New(), cur: NoIndex}
}

// Tree returns the Tree assembled so far.
func (b *Builder) Tree() *Tree { return b.t }

// Add appends n as a child of the builder's current node and returns
// its Index. It does not change the current node; use Enter for that.
func (b *Builder) Add(n Node) Index {
	return b.t.Add(n, b.cur)
}

// Enter appends n as a child of the current node, then descends into
// it so subsequent Add calls become its children. Call Exit to return
// to the previous level.
func (b *Builder) Enter(n Node) Index {
	idx := b.Add(n)
	b.cur = idx
	return idx
}

// Exit moves the current node back up to its parent.
func (b *Builder) Exit() {
	b.cur = b.t.ParentOf(b.cur)
}

// Name is a convenience for the common leaf case.
func (b *Builder) Name(name string) Index {
	return b.Add(Node{Kind: KindName, Name: name})
}
