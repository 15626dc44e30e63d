// Package highlight projects a syntax tree through per-feature rule tables
// into a sequence of tagged spans. Features are independently toggleable;
// later-evaluated features marked Override replace earlier tags on the
// spans they cover, everything else accumulates.
package highlight

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/treelens/pkg/rules"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

// ErrDuplicateFeature reports two features configured under the same name.
var ErrDuplicateFeature = errors.New("highlight: duplicate feature name")

// Tag labels a highlighted span ("keyword", "comment", "doc-comment", ...).
// Tags are opaque to the engine; the host maps them to faces or styles.
type Tag string

// Action is the result of a matching highlight rule: the tag to apply,
// and optionally the capture whose span receives it instead of the
// matched node's own span.
type Action struct {
	Tag     Tag
	Capture string
}

// Feature is a named, independently toggleable group of highlighting
// rules. A rule belongs to exactly one feature. Features are evaluated in
// declaration order; Override lets this feature's tags replace overlapping
// tags produced by earlier features.
type Feature struct {
	Name     string
	Override bool
	Table    *rules.Table[Action]
}

// FeatureSet holds the configured features in evaluation order. Built once
// per buffer-open; static for the session.
type FeatureSet struct {
	features []Feature
}

// NewFeatureSet validates and assembles a feature list. Highlight tables
// are accumulating: they do not require a catch-all (an unmatched node is
// simply left untagged).
func NewFeatureSet(features ...Feature) (*FeatureSet, error) {
	seen := make(map[string]struct{}, len(features))

	for _, feature := range features {
		if _, dup := seen[feature.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFeature, feature.Name)
		}

		seen[feature.Name] = struct{}{}
	}

	return &FeatureSet{features: features}, nil
}

// Names returns the feature names in evaluation order.
func (fs *FeatureSet) Names() []string {
	names := make([]string, 0, len(fs.features))

	for _, feature := range fs.features {
		names = append(names, feature.Name)
	}

	return names
}

// Span is one tagged region of the buffer, [Start, End) in bytes.
type Span struct {
	Start   uint
	End     uint
	Tag     Tag
	Feature string
}

// Options bounds a projection. A zero Range means the whole tree; a nil
// Enabled list means every feature.
type Options struct {
	Range   syntax.ByteRange
	Enabled []string
}

// Project evaluates the enabled features against the tree and returns the
// layered spans ordered by start offset. Stateless: it never mutates the
// tree and holds nothing between requests.
func Project(tree syntax.Tree, set *FeatureSet, opts Options) ([]Span, error) {
	if tree.Stale() {
		return nil, syntax.ErrStaleTree
	}

	enabled := enabledSet(opts.Enabled)
	layered := &overlay{}

	for _, feature := range set.features {
		if enabled != nil {
			if _, on := enabled[feature.Name]; !on {
				continue
			}
		}

		for _, span := range featureSpans(tree, feature, opts.Range) {
			layered.add(span, feature.Override)
		}
	}

	return layered.result(), nil
}

func enabledSet(names []string) map[string]struct{} {
	if names == nil {
		return nil
	}

	set := make(map[string]struct{}, len(names))

	for _, name := range names {
		set[name] = struct{}{}
	}

	return set
}

// featureSpans evaluates one feature's table over every node in range.
// A structural-query rule matches once per capture site but is observed
// from every node of the matched subtree, so identical results are
// deduplicated before layering.
func featureSpans(tree syntax.Tree, feature Feature, bound syntax.ByteRange) []Span {
	var spans []Span

	seen := make(map[Span]struct{})

	syntax.Walk(tree.Root(), bound, func(node syntax.Node) bool {
		action, caps, ok := feature.Table.ResolveCaptures(node)
		if !ok {
			return true
		}

		target := node
		if action.Capture != "" {
			if captured := caps[action.Capture]; captured != nil {
				target = captured
			}
		}

		span := Span{
			Start:   target.StartByte(),
			End:     target.EndByte(),
			Tag:     action.Tag,
			Feature: feature.Name,
		}

		if _, dup := seen[span]; !dup && span.End > span.Start {
			seen[span] = struct{}{}
			spans = append(spans, span)
		}

		return true
	})

	return spans
}

// sortSpans orders spans by start, then end, preserving layer order for
// identical spans.
func sortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}

		return spans[i].End < spans[j].End
	})
}
