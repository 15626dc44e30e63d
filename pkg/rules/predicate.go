package rules

import "regexp"

// Predicate is a pure structural test against a syntax node. The variants
// form a closed sum; evaluation lives in Matches.
type Predicate interface{ pred() }

// Always matches every node, including the no-node sentinel. Tables end in
// an Always rule to guarantee totality.
type Always struct{}

// NoNode matches only the nil node, the sentinel for a position no node
// encloses (empty file).
type NoNode struct{}

// NodeIs matches the candidate's own type tag.
type NodeIs struct {
	Pattern TypePattern
}

// ParentIs matches the type tag of the candidate's parent.
type ParentIs struct {
	Pattern TypePattern
}

// FieldIs requires the candidate to be reachable from its parent under the
// given field name. Inner, when non-nil, is applied to the candidate after
// the field check.
type FieldIs struct {
	Field string
	Inner Predicate
}

// ChainElem is one element of an AncestorChain. A nil Pattern is a
// wildcard; Missing requires that no ancestor exists at this depth (the
// chain has walked off the tree root).
type ChainElem struct {
	Pattern *TypePattern
	Missing bool
}

// AncestorChain matches the candidate and its ancestors by depth:
// Elems[0] applies to the node itself, Elems[1] to its parent, Elems[2]
// to its grandparent, and so on.
type AncestorChain struct {
	Elems []ChainElem
}

// TextMatches applies a regular expression to a node's source text. When
// Capture names a structural-query capture, the test applies to the
// captured sub-node; otherwise it applies to the candidate itself.
type TextMatches struct {
	Capture string
	Pattern *regexp.Regexp
}

// QueryNode is one node of a structural-query pattern tree: a type
// pattern, an optional field constraint, an optional capture name, and
// child patterns. An Anchored child must match immediately after the
// preceding matched child rather than anywhere later.
type QueryNode struct {
	Kind     TypePattern
	Field    string
	Capture  string
	Anchored bool
	Children []*QueryNode
}

// StructuralQuery matches a declarative subtree shape rooted at or above
// the candidate. Used where ancestor-chain predicates are insufficiently
// expressive (e.g. "this block is the body of an if, not an else").
type StructuralQuery struct {
	Root *QueryNode
}

// And matches when every sub-predicate matches.
type And struct {
	Preds []Predicate
}

// Not inverts its inner predicate.
type Not struct {
	Inner Predicate
}

func (Always) pred()          {}
func (NoNode) pred()          {}
func (NodeIs) pred()          {}
func (ParentIs) pred()        {}
func (FieldIs) pred()         {}
func (AncestorChain) pred()   {}
func (TextMatches) pred()     {}
func (StructuralQuery) pred() {}
func (And) pred()             {}
func (Not) pred()             {}
