package syntax

import (
	"context"
	"fmt"
	"sync/atomic"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/treelens/pkg/safeconv"
)

// SitterTree adapts a tree-sitter parse tree to the Tree interface.
// The underlying tree remains exclusively owned by the parser; this
// adapter never mutates it.
type SitterTree struct {
	tree  *sitter.Tree
	src   []byte
	stale atomic.Bool
}

// NewSitterTree wraps a parsed tree together with the source it was
// parsed from. The caller must Invalidate the wrapper when the buffer is
// re-parsed; outstanding node references are not update-safe across edits.
func NewSitterTree(tree *sitter.Tree, src []byte) *SitterTree {
	return &SitterTree{tree: tree, src: src}
}

// Parse parses src with the given grammar and returns a Tree snapshot.
func Parse(ctx context.Context, lang *sitter.Language, src []byte) (*SitterTree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("syntax: parse: %w", err)
	}

	return NewSitterTree(tree, src), nil
}

// Root returns the root node, or nil for an empty parse.
func (t *SitterTree) Root() Node {
	root := t.tree.RootNode()
	if root.IsNull() {
		return nil
	}

	return &sitterNode{n: root, t: t}
}

// Source returns the buffer the tree was parsed from.
func (t *SitterTree) Source() []byte { return t.src }

// Stale reports whether Invalidate has been called.
func (t *SitterTree) Stale() bool { return t.stale.Load() }

// Invalidate marks the snapshot stale. Call on every re-parse.
func (t *SitterTree) Invalidate() { t.stale.Store(true) }

// sitterNode adapts a tree-sitter node. Nodes are value types in the
// binding; the adapter wraps them behind the Node interface.
type sitterNode struct {
	n sitter.Node
	t *SitterTree
}

func (t *SitterTree) wrap(n sitter.Node) Node {
	if n.IsNull() {
		return nil
	}

	return &sitterNode{n: n, t: t}
}

// Kind returns the grammar's type tag.
func (sn *sitterNode) Kind() string { return sn.n.Type() }

// IsNamed reports whether the node is a named grammar node.
func (sn *sitterNode) IsNamed() bool { return sn.n.IsNamed() }

// StartByte returns the start of the node's span.
func (sn *sitterNode) StartByte() uint { return sn.n.StartByte() }

// EndByte returns one past the end of the node's span.
func (sn *sitterNode) EndByte() uint { return sn.n.EndByte() }

// StartPoint returns the node's start row/column.
func (sn *sitterNode) StartPoint() Point {
	pt := sn.n.StartPoint()

	return Point{Row: pt.Row, Column: pt.Column}
}

// EndPoint returns the node's end row/column.
func (sn *sitterNode) EndPoint() Point {
	pt := sn.n.EndPoint()

	return Point{Row: pt.Row, Column: pt.Column}
}

// Parent returns the parent node, or nil at the root.
func (sn *sitterNode) Parent() Node { return sn.t.wrap(sn.n.Parent()) }

// ChildCount returns the number of children, anonymous tokens included.
func (sn *sitterNode) ChildCount() int { return safeconv.MustUint32ToInt(sn.n.ChildCount()) }

// Child returns the i-th child, or nil when out of range.
func (sn *sitterNode) Child(i int) Node {
	if i < 0 || i >= sn.ChildCount() {
		return nil
	}

	return sn.t.wrap(sn.n.Child(safeconv.MustIntToUint32(i)))
}

// NamedChildCount returns the number of named children.
func (sn *sitterNode) NamedChildCount() int { return safeconv.MustUint32ToInt(sn.n.NamedChildCount()) }

// NamedChild returns the i-th named child, or nil when out of range.
func (sn *sitterNode) NamedChild(i int) Node {
	if i < 0 || i >= sn.NamedChildCount() {
		return nil
	}

	return sn.t.wrap(sn.n.NamedChild(safeconv.MustIntToUint32(i)))
}

// ChildByField returns the child reachable under the field name, or nil.
func (sn *sitterNode) ChildByField(name string) Node {
	return sn.t.wrap(sn.n.ChildByFieldName(name))
}

// NextSibling returns the following sibling, or nil.
func (sn *sitterNode) NextSibling() Node { return sn.t.wrap(sn.n.NextSibling()) }

// PrevSibling returns the preceding sibling, or nil.
func (sn *sitterNode) PrevSibling() Node { return sn.t.wrap(sn.n.PrevSibling()) }

// Text returns the source text covered by the node's span.
func (sn *sitterNode) Text() string { return sn.n.Content(sn.t.src) }

// Tree returns the owning snapshot.
func (sn *sitterNode) Tree() Tree { return sn.t }
