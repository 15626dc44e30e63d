package rules

import (
	"fmt"

	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

// Rule pairs a predicate with the action taken when it matches. Within a
// table, rule order encodes priority: the first matching rule wins.
type Rule[A any] struct {
	Name   string
	When   Predicate
	Action A
}

// Table is an ordered rule list for one consumer. Tables intended to be
// total must end in a catch-all (Always) rule; Validate enforces this at
// configuration time.
type Table[A any] struct {
	name  string
	rules []Rule[A]
}

// NewTable builds a table from rules in priority order.
func NewTable[A any](name string, tableRules ...Rule[A]) *Table[A] {
	return &Table[A]{name: name, rules: tableRules}
}

// Name returns the table's configured name.
func (t *Table[A]) Name() string { return t.name }

// Rules returns the rules in priority order.
func (t *Table[A]) Rules() []Rule[A] { return t.rules }

// Validate checks totality: the table must contain a catch-all rule.
// Reported once at configuration time, never per request.
func (t *Table[A]) Validate() error {
	for _, rule := range t.rules {
		if _, ok := rule.When.(Always); ok {
			return nil
		}
	}

	return fmt.Errorf("%w: table %q", ErrNoCatchAll, t.name)
}

// Resolve returns the action of the first rule matching the node. The
// second result is false when no rule matched; callers treat that as the
// documented neutral default for their view.
func (t *Table[A]) Resolve(node syntax.Node) (A, bool) {
	for _, rule := range t.rules {
		if Matches(rule.When, node) {
			return rule.Action, true
		}
	}

	var zero A

	return zero, false
}

// ResolveCaptures is Resolve, additionally returning the sub-nodes bound
// by the winning rule's structural-query captures.
func (t *Table[A]) ResolveCaptures(node syntax.Node) (A, map[string]syntax.Node, bool) {
	for _, rule := range t.rules {
		if caps, ok := Captures(rule.When, node); ok {
			return rule.Action, caps, true
		}
	}

	var zero A

	return zero, nil, false
}
