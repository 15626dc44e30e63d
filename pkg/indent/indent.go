// Package indent computes the indentation column for a line by resolving
// the node at the line start against an ordered rule table. A rule yields
// an anchor policy plus a signed offset; the final column is the resolved
// anchor column plus the offset, clamped at zero.
package indent

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/treelens/pkg/rules"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

// Anchor selects the reference column an indentation offset is added to.
type Anchor int

// Anchor policies, in the precedence order rule tables reference them.
const (
	// AnchorColumnZero anchors at column 0.
	AnchorColumnZero Anchor = iota

	// AnchorParentBOL anchors at the first non-blank column of the line
	// on which the target's parent starts.
	AnchorParentBOL

	// AnchorStandaloneParent anchors at the start column of the nearest
	// ancestor that begins its own line, falling back to AnchorParentBOL
	// when no ancestor does.
	AnchorStandaloneParent

	// AnchorGrandparent anchors at the first non-blank column of the line
	// on which the target's grandparent starts.
	AnchorGrandparent

	// AnchorPrevAdaptivePrefix anchors at the first non-blank column of
	// the nearest preceding non-blank line.
	AnchorPrevAdaptivePrefix
)

// Action is the result of a matching indentation rule.
type Action struct {
	Anchor Anchor
	Offset int
}

// Options configures a Calculator for one document session.
type Options struct {
	// ChainKinds names the node kinds forming left-nested member chains.
	// A target inside such a chain is lifted to the outermost link before
	// rule resolution, so every link line indents uniformly instead of by
	// its nesting depth.
	ChainKinds []string

	// Continuation resolves interior lines of multi-line tokens (block
	// comments, raw strings). Anchors other than AnchorColumnZero resolve
	// to the token's own start column. When nil, interior lines keep
	// their current column.
	Continuation *rules.Table[Action]
}

// Calculator computes indentation columns against a validated rule table.
// Immutable after construction.
type Calculator struct {
	table        *rules.Table[Action]
	continuation *rules.Table[Action]
	chainKinds   map[string]struct{}
}

// NewCalculator validates the table (a catch-all is required for totality)
// and builds a calculator.
func NewCalculator(table *rules.Table[Action], opts Options) (*Calculator, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}

	chains := make(map[string]struct{}, len(opts.ChainKinds))
	for _, kind := range opts.ChainKinds {
		chains[kind] = struct{}{}
	}

	return &Calculator{
		table:        table,
		continuation: opts.Continuation,
		chainKinds:   chains,
	}, nil
}

// IndentFor returns the absolute indentation column for row. Recomputed on
// every request; results are never reused across edits.
func (c *Calculator) IndentFor(tree syntax.Tree, row uint) (int, error) {
	if tree.Stale() {
		return 0, syntax.ErrStaleTree
	}

	lines := syntax.NewLineIndex(tree.Source())
	lineStart := lines.LineStart(row)

	node, err := locateTarget(tree, lineStart)
	if err != nil {
		return 0, err
	}

	if node != nil && node.ChildCount() == 0 && node.StartPoint().Row < row {
		return c.continuationColumn(node, row, lines), nil
	}

	node = c.flattenChain(node)

	action, ok := c.table.Resolve(node)
	if !ok {
		return 0, nil
	}

	return clamp(anchorColumn(action.Anchor, node, row, lines) + action.Offset), nil
}

// locateTarget resolves the line start to the smallest enclosing node, or
// to the first node after it when nothing encloses it. A nil node is the
// sentinel for an empty file; NoNode rules match it.
func locateTarget(tree syntax.Tree, offset uint) (syntax.Node, error) {
	root := tree.Root()
	if root == nil {
		return nil, nil
	}

	if offset < root.StartByte() || offset >= root.EndByte() {
		return syntax.FirstNodeAfter(tree, offset), nil
	}

	node, err := syntax.SmallestNodeAt(tree, offset)
	if err != nil {
		if errors.Is(err, syntax.ErrNoNode) {
			return nil, nil
		}

		return nil, err
	}

	return node, nil
}

// continuationColumn indents an interior line of a multi-line token.
func (c *Calculator) continuationColumn(node syntax.Node, row uint, lines *syntax.LineIndex) int {
	tokenColumn := int(node.StartPoint().Column)

	if c.continuation == nil {
		if _, column, ok := lines.FirstNonBlank(row); ok {
			return int(column)
		}

		return tokenColumn
	}

	action, ok := c.continuation.Resolve(node)
	if !ok {
		return tokenColumn
	}

	base := tokenColumn
	if action.Anchor == AnchorColumnZero {
		base = 0
	}

	return clamp(base + action.Offset)
}

// flattenChain lifts a member-chain target to the outermost link.
func (c *Calculator) flattenChain(node syntax.Node) syntax.Node {
	if node == nil || len(c.chainKinds) == 0 {
		return node
	}

	current := node

	if _, chained := c.chainKinds[current.Kind()]; !chained {
		parent := current.Parent()
		if parent == nil {
			return node
		}

		if _, chained := c.chainKinds[parent.Kind()]; !chained {
			return node
		}

		current = parent
	}

	for parent := current.Parent(); parent != nil; parent = current.Parent() {
		if _, chained := c.chainKinds[parent.Kind()]; !chained {
			break
		}

		current = parent
	}

	return current
}

func anchorColumn(anchor Anchor, node syntax.Node, row uint, lines *syntax.LineIndex) int {
	switch anchor {
	case AnchorColumnZero:
		return 0
	case AnchorParentBOL:
		return bolColumn(parentOf(node), lines)
	case AnchorStandaloneParent:
		for anc := parentOf(node); anc != nil; anc = anc.Parent() {
			if standsAlone(anc, lines) {
				return int(anc.StartPoint().Column)
			}
		}

		return bolColumn(parentOf(node), lines)
	case AnchorGrandparent:
		return bolColumn(parentOf(parentOf(node)), lines)
	case AnchorPrevAdaptivePrefix:
		return prevPrefixColumn(row, lines)
	default:
		return 0
	}
}

func parentOf(node syntax.Node) syntax.Node {
	if node == nil {
		return nil
	}

	return node.Parent()
}

// bolColumn returns the first non-blank column of the line on which the
// node starts.
func bolColumn(node syntax.Node, lines *syntax.LineIndex) int {
	if node == nil {
		return 0
	}

	if _, column, ok := lines.FirstNonBlank(node.StartPoint().Row); ok {
		return int(column)
	}

	return int(node.StartPoint().Column)
}

// standsAlone reports whether the node is the first non-blank content of
// its start line.
func standsAlone(node syntax.Node, lines *syntax.LineIndex) bool {
	offset, _, ok := lines.FirstNonBlank(node.StartPoint().Row)

	return ok && offset == node.StartByte()
}

// prevPrefixColumn returns the first non-blank column of the nearest
// preceding non-blank line.
func prevPrefixColumn(row uint, lines *syntax.LineIndex) int {
	for r := row; r > 0; r-- {
		if _, column, ok := lines.FirstNonBlank(r - 1); ok {
			return int(column)
		}
	}

	return 0
}

func clamp(column int) int {
	if column < 0 {
		return 0
	}

	return column
}
