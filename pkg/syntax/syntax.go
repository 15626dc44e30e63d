// Package syntax provides a read-only view over a concrete syntax tree
// produced by an external incremental parser. The engine only ever borrows
// node references; the tree is owned and mutated by the parser alone.
//
// Two implementations are provided: an adapter over tree-sitter trees
// (NewSitterTree) and an in-memory tree (MemTree) used by rule-table
// validation and tests.
package syntax

import "errors"

// Sentinel errors for tree access.
var (
	// ErrStaleTree reports a node or tree reference that predates a
	// re-parse. Stale references are never resolved to a plausible-looking
	// answer; callers must re-query against the fresh snapshot.
	ErrStaleTree = errors.New("syntax: stale tree snapshot")

	// ErrNoNode reports a position that no node encloses (empty file).
	ErrNoNode = errors.New("syntax: no node at position")
)

// Point is a zero-based row/column pair, in bytes.
type Point struct {
	Row    uint
	Column uint
}

// ByteRange bounds a traversal to [Start, End). A zero End leaves the
// range open-ended above Start; the zero value covers the whole buffer.
type ByteRange struct {
	Start uint
	End   uint
}

// Contains reports whether the byte span [start, end) intersects the
// range. Zero-width spans are treated as points.
func (r ByteRange) Contains(start, end uint) bool {
	if start == end {
		return start >= r.Start && (r.End == 0 || start < r.End)
	}

	if end <= r.Start {
		return false
	}

	return r.End == 0 || start < r.End
}

// Node is a borrowed reference into a syntax tree.
//
// Child/ChildCount enumerate every child including anonymous tokens;
// NamedChild/NamedChildCount skip anonymous tokens. Navigation methods
// return nil when the requested node does not exist.
type Node interface {
	// Kind returns the grammar's type tag for this node.
	Kind() string

	// IsNamed reports whether the node is a named grammar node rather
	// than an anonymous token.
	IsNamed() bool

	StartByte() uint
	EndByte() uint
	StartPoint() Point
	EndPoint() Point

	Parent() Node
	ChildCount() int
	Child(i int) Node
	NamedChildCount() int
	NamedChild(i int) Node
	ChildByField(name string) Node
	NextSibling() Node
	PrevSibling() Node

	// Text returns the source text covered by the node's span.
	Text() string

	// Tree returns the owning snapshot.
	Tree() Tree
}

// Tree is an immutable snapshot of a parsed buffer.
type Tree interface {
	Root() Node
	Source() []byte

	// Stale reports whether the snapshot has been invalidated by an edit.
	// All engine entry points fail fast with ErrStaleTree on stale input.
	Stale() bool
}

// Same reports whether two node references denote the same node. Borrowed
// references have no stable identity across implementations, so nodes are
// compared by kind and span.
func Same(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Kind() == b.Kind() && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// Walk visits nodes in pre-order, skipping subtrees that fall entirely
// outside bound. The visitor returns false to prune a node's children.
func Walk(root Node, bound ByteRange, visit func(Node) bool) {
	if root == nil {
		return
	}

	if !bound.Contains(root.StartByte(), root.EndByte()) {
		return
	}

	if !visit(root) {
		return
	}

	for i := range root.ChildCount() {
		Walk(root.Child(i), bound, visit)
	}
}
