package syntax

import "sync/atomic"

// MemTree is an in-memory Tree implementation. It backs rule-table
// validation (predicates are type-checked against synthetic node shapes
// before first use) and the engine's tests, where constructing real parser
// output would couple them to a concrete grammar.
type MemTree struct {
	src   []byte
	root  *MemNode
	index *LineIndex
	stale atomic.Bool
}

// NewMemTree builds a tree over source rooted at root, wiring parent links.
func NewMemTree(source string, root *MemNode) *MemTree {
	tree := &MemTree{src: []byte(source), root: root}

	if root != nil {
		root.attach(tree, nil)
	}

	tree.index = NewLineIndex(tree.src)

	return tree
}

// Root returns the root node, or nil for an empty tree.
func (t *MemTree) Root() Node {
	if t.root == nil {
		return nil
	}

	return t.root
}

// Source returns the backing buffer.
func (t *MemTree) Source() []byte { return t.src }

// Stale reports whether Invalidate has been called.
func (t *MemTree) Stale() bool { return t.stale.Load() }

// Invalidate marks the snapshot stale, as a re-parse would.
func (t *MemTree) Invalidate() { t.stale.Store(true) }

// MemNode is a node in a MemTree.
type MemNode struct {
	kind     string
	field    string
	start    uint
	end      uint
	named    bool
	children []*MemNode
	parent   *MemNode
	tree     *MemTree
}

// Mem constructs a named node spanning [start, end) with the given children.
func Mem(kind string, start, end uint, children ...*MemNode) *MemNode {
	return &MemNode{kind: kind, start: start, end: end, named: true, children: children}
}

// WithField sets the node's role within its parent.
func (n *MemNode) WithField(field string) *MemNode {
	n.field = field

	return n
}

// Anon marks the node as an anonymous token.
func (n *MemNode) Anon() *MemNode {
	n.named = false

	return n
}

func (n *MemNode) attach(tree *MemTree, parent *MemNode) {
	n.tree = tree
	n.parent = parent

	for _, child := range n.children {
		child.attach(tree, n)
	}
}

// Kind returns the node's type tag.
func (n *MemNode) Kind() string { return n.kind }

// IsNamed reports whether the node is a named grammar node.
func (n *MemNode) IsNamed() bool { return n.named }

// StartByte returns the start of the node's span.
func (n *MemNode) StartByte() uint { return n.start }

// EndByte returns one past the end of the node's span.
func (n *MemNode) EndByte() uint { return n.end }

// StartPoint returns the node's start row/column.
func (n *MemNode) StartPoint() Point { return n.pointAt(n.start) }

// EndPoint returns the node's end row/column.
func (n *MemNode) EndPoint() Point { return n.pointAt(n.end) }

func (n *MemNode) pointAt(offset uint) Point {
	row := n.tree.index.RowOf(offset)

	return Point{Row: row, Column: offset - n.tree.index.LineStart(row)}
}

// Parent returns the parent node, or nil at the root.
func (n *MemNode) Parent() Node {
	if n.parent == nil {
		return nil
	}

	return n.parent
}

// ChildCount returns the number of children, anonymous tokens included.
func (n *MemNode) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil when out of range.
func (n *MemNode) Child(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}

	return n.children[i]
}

// NamedChildCount returns the number of named children.
func (n *MemNode) NamedChildCount() int {
	count := 0

	for _, child := range n.children {
		if child.named {
			count++
		}
	}

	return count
}

// NamedChild returns the i-th named child, or nil when out of range.
func (n *MemNode) NamedChild(i int) Node {
	seen := 0

	for _, child := range n.children {
		if !child.named {
			continue
		}

		if seen == i {
			return child
		}

		seen++
	}

	return nil
}

// ChildByField returns the first child with the given field name, or nil.
func (n *MemNode) ChildByField(name string) Node {
	for _, child := range n.children {
		if child.field == name {
			return child
		}
	}

	return nil
}

// NextSibling returns the following sibling, or nil.
func (n *MemNode) NextSibling() Node { return n.sibling(1) }

// PrevSibling returns the preceding sibling, or nil.
func (n *MemNode) PrevSibling() Node { return n.sibling(-1) }

func (n *MemNode) sibling(offset int) Node {
	if n.parent == nil {
		return nil
	}

	for i, child := range n.parent.children {
		if child != n {
			continue
		}

		j := i + offset
		if j < 0 || j >= len(n.parent.children) {
			return nil
		}

		return n.parent.children[j]
	}

	return nil
}

// Text returns the source text covered by the node's span.
func (n *MemNode) Text() string {
	src := n.tree.src

	start := min(n.start, uint(len(src)))
	end := min(n.end, uint(len(src)))

	return string(src[start:end])
}

// Tree returns the owning snapshot.
func (n *MemNode) Tree() Tree { return n.tree }
