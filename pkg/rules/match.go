package rules

import "github.com/Sumatoshi-tech/treelens/pkg/syntax"

// Matches evaluates a predicate against a node. The node may be nil (the
// no-node sentinel); only Always and NoNode match it. Pure: no state
// escapes, identical input yields identical output.
func Matches(pred Predicate, node syntax.Node) bool {
	return match(pred, node, make(map[string]syntax.Node))
}

// Captures evaluates a predicate and, on success, returns the sub-nodes
// bound by structural-query captures. The map is nil when the predicate
// binds nothing.
func Captures(pred Predicate, node syntax.Node) (map[string]syntax.Node, bool) {
	caps := make(map[string]syntax.Node)

	if !match(pred, node, caps) {
		return nil, false
	}

	if len(caps) == 0 {
		return nil, true
	}

	return caps, true
}

//nolint:cyclop // Closed sum dispatch; one case per predicate variant.
func match(pred Predicate, node syntax.Node, caps map[string]syntax.Node) bool {
	switch p := pred.(type) {
	case Always:
		return true
	case NoNode:
		return node == nil
	case NodeIs:
		return node != nil && p.Pattern.Match(node.Kind())
	case ParentIs:
		return node != nil && node.Parent() != nil && p.Pattern.Match(node.Parent().Kind())
	case FieldIs:
		return matchField(p, node, caps)
	case AncestorChain:
		return matchChain(p, node)
	case TextMatches:
		return matchText(p, node, caps)
	case StructuralQuery:
		return matchQuery(p, node, caps)
	case And:
		for _, sub := range p.Preds {
			if !match(sub, node, caps) {
				return false
			}
		}

		return true
	case Not:
		return !match(p.Inner, node, caps)
	default:
		return false
	}
}

func matchField(p FieldIs, node syntax.Node, caps map[string]syntax.Node) bool {
	if node == nil {
		return false
	}

	parent := node.Parent()
	if parent == nil {
		return false
	}

	if !syntax.Same(parent.ChildByField(p.Field), node) {
		return false
	}

	if p.Inner == nil {
		return true
	}

	return match(p.Inner, node, caps)
}

func matchChain(p AncestorChain, node syntax.Node) bool {
	current := node

	for _, elem := range p.Elems {
		if elem.Missing {
			if current != nil {
				return false
			}

			continue
		}

		if current == nil {
			return false
		}

		if elem.Pattern != nil && !elem.Pattern.Match(current.Kind()) {
			return false
		}

		current = current.Parent()
	}

	return true
}

func matchText(p TextMatches, node syntax.Node, caps map[string]syntax.Node) bool {
	target := node

	if p.Capture != "" {
		target = caps[p.Capture]
	}

	if target == nil {
		return false
	}

	return p.Pattern.MatchString(target.Text())
}

// matchQuery matches the pattern tree rooted at the candidate or at any of
// its ancestors. On success the candidate must lie inside the matched
// subtree, which holds by construction when matching at an ancestor.
func matchQuery(p StructuralQuery, node syntax.Node, caps map[string]syntax.Node) bool {
	if node == nil || p.Root == nil {
		return false
	}

	for anchor := node; anchor != nil; anchor = anchor.Parent() {
		trial := make(map[string]syntax.Node)

		if matchQueryNode(p.Root, anchor, trial) {
			for name, captured := range trial {
				caps[name] = captured
			}

			return true
		}
	}

	return false
}

func matchQueryNode(q *QueryNode, node syntax.Node, caps map[string]syntax.Node) bool {
	if node == nil {
		return false
	}

	if !q.Kind.IsZero() && !q.Kind.Match(node.Kind()) {
		return false
	}

	if q.Field != "" {
		parent := node.Parent()
		if parent == nil || !syntax.Same(parent.ChildByField(q.Field), node) {
			return false
		}
	}

	if !matchQueryChildren(q.Children, node, caps) {
		return false
	}

	if q.Capture != "" {
		caps[q.Capture] = node
	}

	return true
}

// matchQueryChildren matches pattern children against the node's named
// children in order. Anchored patterns must match at the position
// immediately after the previous match; unanchored patterns scan forward.
func matchQueryChildren(patterns []*QueryNode, node syntax.Node, caps map[string]syntax.Node) bool {
	next := 0

	for _, pattern := range patterns {
		matched := false

		for idx := next; idx < node.NamedChildCount(); idx++ {
			child := node.NamedChild(idx)

			if matchQueryNode(pattern, child, caps) {
				next = idx + 1
				matched = true

				break
			}

			if pattern.Anchored {
				break
			}
		}

		if !matched {
			return false
		}
	}

	return true
}
