package ruleset

import (
	"fmt"
	"regexp"

	"github.com/Sumatoshi-tech/treelens/pkg/rules"
)

// buildPredicate compiles a match block into a typed predicate. All present
// keys are conjoined; predicates that bind captures (query) are evaluated
// before those that consume them (text with capture).
func buildPredicate(m matchDoc) (rules.Predicate, error) {
	var preds []rules.Predicate

	if m.Always {
		preds = append(preds, rules.Always{})
	}

	if m.NoNode {
		preds = append(preds, rules.NoNode{})
	}

	if m.Kind != "" {
		pattern, err := rules.Compile(m.Kind)
		if err != nil {
			return nil, err
		}

		preds = append(preds, rules.NodeIs{Pattern: pattern})
	}

	if m.Parent != "" {
		pattern, err := rules.Compile(m.Parent)
		if err != nil {
			return nil, err
		}

		preds = append(preds, rules.ParentIs{Pattern: pattern})
	}

	if m.Field != "" {
		preds = append(preds, rules.FieldIs{Field: m.Field})
	}

	if len(m.Ancestors) > 0 {
		chain, err := buildChain(m.Ancestors)
		if err != nil {
			return nil, err
		}

		preds = append(preds, chain)
	}

	if m.Query != nil {
		root, err := buildQueryNode(m.Query)
		if err != nil {
			return nil, err
		}

		preds = append(preds, rules.StructuralQuery{Root: root})
	}

	if m.Text != "" {
		re, err := regexp.Compile(m.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: text %q: %w", rules.ErrInvalidPredicate, m.Text, err)
		}

		preds = append(preds, rules.TextMatches{Capture: m.Capture, Pattern: re})
	}

	if m.Not != nil {
		inner, err := buildPredicate(*m.Not)
		if err != nil {
			return nil, err
		}

		preds = append(preds, rules.Not{Inner: inner})
	}

	switch len(preds) {
	case 0:
		return nil, ErrEmptyMatch
	case 1:
		return preds[0], nil
	default:
		return rules.And{Preds: preds}, nil
	}
}

// buildChain maps the ancestors list onto an AncestorChain. The list
// describes the parent upward; the node itself is matched by the kind key,
// so the chain's own first element is a wildcard. A null entry requires
// the ancestor to not exist (the chain has reached past the root); "_"
// matches any type.
func buildChain(ancestors []*string) (rules.AncestorChain, error) {
	elems := make([]rules.ChainElem, 0, len(ancestors)+1)
	elems = append(elems, rules.ChainElem{})

	for _, anc := range ancestors {
		switch {
		case anc == nil:
			elems = append(elems, rules.ChainElem{Missing: true})
		case *anc == wildcardKind:
			elems = append(elems, rules.ChainElem{})
		default:
			pattern, err := rules.Compile(*anc)
			if err != nil {
				return rules.AncestorChain{}, err
			}

			elems = append(elems, rules.ChainElem{Pattern: &pattern})
		}
	}

	return rules.AncestorChain{Elems: elems}, nil
}

func buildQueryNode(doc *queryDoc) (*rules.QueryNode, error) {
	node := &rules.QueryNode{
		Field:    doc.Field,
		Capture:  doc.Capture,
		Anchored: doc.Anchored,
	}

	if doc.Kind != "" {
		pattern, err := rules.Compile(doc.Kind)
		if err != nil {
			return nil, err
		}

		node.Kind = pattern
	}

	for _, child := range doc.Children {
		built, err := buildQueryNode(child)
		if err != nil {
			return nil, err
		}

		node.Children = append(node.Children, built)
	}

	return node, nil
}
