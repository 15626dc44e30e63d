// Package outline classifies syntax nodes into coarse navigable
// categories and extracts human-readable names for definition-like nodes.
// It backs outline construction and structural motion commands.
package outline

import (
	"github.com/Sumatoshi-tech/treelens/pkg/rules"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

// Category is a coarse node classification used for navigation.
type Category int

// Categories, ordered by how outlines group them.
const (
	// CategoryNone marks an unclassified node. Not an error.
	CategoryNone Category = iota
	CategoryDefinition
	CategoryExpression
	CategoryStatement
	CategoryComment
	CategoryString
	CategoryText
)

var categoryNames = map[Category]string{
	CategoryNone:       "none",
	CategoryDefinition: "definition",
	CategoryExpression: "expression",
	CategoryStatement:  "statement",
	CategoryComment:    "comment",
	CategoryString:     "string",
	CategoryText:       "text",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}

	return "none"
}

// NameSpec locates a node's human-readable name. Exactly one selector is
// set; the zero value extracts nothing. Which selector applies varies per
// concrete node type: most grammars expose a "name" field, some put the
// name at a fixed child position, and constructor-like nodes are named by
// their leading keyword token.
type NameSpec struct {
	Field        string
	ChildIndex   *int
	FirstLiteral bool
}

// Child returns a NameSpec selecting the i-th named child.
func Child(i int) NameSpec {
	return NameSpec{ChildIndex: &i}
}

// Entry maps a type pattern to a category, with an optional name selector.
// Entries are evaluated in order; the first matching pattern wins.
type Entry struct {
	Pattern  rules.TypePattern
	Category Category
	Name     NameSpec
}

// Classifier applies an ordered entry list to nodes. Immutable after
// construction.
type Classifier struct {
	entries []Entry
}

// NewClassifier builds a classifier from entries in priority order.
func NewClassifier(entries ...Entry) *Classifier {
	return &Classifier{entries: entries}
}

func (c *Classifier) entryFor(node syntax.Node) (Entry, bool) {
	if node == nil {
		return Entry{}, false
	}

	for _, entry := range c.entries {
		if entry.Pattern.Match(node.Kind()) {
			return entry, true
		}
	}

	return Entry{}, false
}

// Classify returns the node's category. Unmatched nodes report
// CategoryNone and ok=false.
func (c *Classifier) Classify(node syntax.Node) (Category, bool) {
	entry, ok := c.entryFor(node)
	if !ok {
		return CategoryNone, false
	}

	return entry.Category, true
}

// NameOf extracts the node's name per its entry's selector. Returns
// ok=false for unclassified nodes, entries without a selector, and nodes
// missing the selected child.
func (c *Classifier) NameOf(node syntax.Node) (string, bool) {
	entry, ok := c.entryFor(node)
	if !ok {
		return "", false
	}

	return extractName(entry.Name, node)
}

func extractName(spec NameSpec, node syntax.Node) (string, bool) {
	switch {
	case spec.Field != "":
		if named := node.ChildByField(spec.Field); named != nil {
			return named.Text(), true
		}
	case spec.ChildIndex != nil:
		if child := node.NamedChild(*spec.ChildIndex); child != nil {
			return child.Text(), true
		}
	case spec.FirstLiteral:
		for i := range node.ChildCount() {
			if child := node.Child(i); !child.IsNamed() {
				return child.Text(), true
			}
		}
	}

	return "", false
}

// Item is one outline row.
type Item struct {
	Category Category
	Name     string
	Start    uint
	End      uint
	Point    syntax.Point
}

// Outline lists every classified node within bound in tree traversal
// order. A zero bound covers the whole tree.
func (c *Classifier) Outline(tree syntax.Tree, bound syntax.ByteRange) ([]Item, error) {
	if tree.Stale() {
		return nil, syntax.ErrStaleTree
	}

	var items []Item

	syntax.Walk(tree.Root(), bound, func(node syntax.Node) bool {
		entry, ok := c.entryFor(node)
		if !ok {
			return true
		}

		name, _ := extractName(entry.Name, node)

		items = append(items, Item{
			Category: entry.Category,
			Name:     name,
			Start:    node.StartByte(),
			End:      node.EndByte(),
			Point:    node.StartPoint(),
		})

		return true
	})

	return items, nil
}

// Group is the outline of one category, in traversal order.
type Group struct {
	Category Category
	Items    []Item
}

// Grouped arranges outline items by category, categories in declaration
// order, items in their original traversal order.
func Grouped(items []Item) []Group {
	byCategory := make(map[Category][]Item)

	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	order := []Category{
		CategoryDefinition,
		CategoryExpression,
		CategoryStatement,
		CategoryComment,
		CategoryString,
		CategoryText,
	}

	var groups []Group

	for _, cat := range order {
		if grouped, ok := byCategory[cat]; ok {
			groups = append(groups, Group{Category: cat, Items: grouped})
		}
	}

	return groups
}

// NextOfCategory returns the first node of the category starting after
// offset in document order, or nil when none follows.
func (c *Classifier) NextOfCategory(tree syntax.Tree, offset uint, cat Category) (syntax.Node, error) {
	if tree.Stale() {
		return nil, syntax.ErrStaleTree
	}

	var found syntax.Node

	syntax.Walk(tree.Root(), syntax.ByteRange{}, func(node syntax.Node) bool {
		if found != nil {
			return false
		}

		if node.EndByte() <= offset {
			return false
		}

		if node.StartByte() > offset {
			if got, ok := c.Classify(node); ok && got == cat {
				found = node

				return false
			}
		}

		return true
	})

	return found, nil
}

// PrevOfCategory returns the last node of the category starting before
// offset in document order, or nil when none precedes.
func (c *Classifier) PrevOfCategory(tree syntax.Tree, offset uint, cat Category) (syntax.Node, error) {
	if tree.Stale() {
		return nil, syntax.ErrStaleTree
	}

	var found syntax.Node

	syntax.Walk(tree.Root(), syntax.ByteRange{}, func(node syntax.Node) bool {
		if node.StartByte() >= offset {
			return false
		}

		if got, ok := c.Classify(node); ok && got == cat {
			found = node
		}

		return true
	})

	return found, nil
}

// Enclosing returns the nearest node of the category at or above the given
// node, or nil when no ancestor qualifies. Used to expand a selection.
func (c *Classifier) Enclosing(node syntax.Node, cat Category) syntax.Node {
	for current := node; current != nil; current = current.Parent() {
		if got, ok := c.Classify(current); ok && got == cat {
			return current
		}
	}

	return nil
}
