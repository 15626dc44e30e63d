package engine

import (
	"context"
	"time"

	"github.com/Sumatoshi-tech/treelens/pkg/highlight"
	"github.com/Sumatoshi-tech/treelens/pkg/outline"
	"github.com/Sumatoshi-tech/treelens/pkg/ruleset"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

// Session computes the three views over one document snapshot. A session
// is bound to a single buffer; swap in a fresh tree with Replace after
// every re-parse. Not safe for concurrent use.
type Session struct {
	engine *Engine
	rules  *ruleset.Ruleset
	tree   syntax.Tree
}

// Language returns the session's ruleset language.
func (s *Session) Language() string { return s.rules.Language }

// Ruleset returns the loaded ruleset backing this session.
func (s *Session) Ruleset() *ruleset.Ruleset { return s.rules }

// Tree returns the current document snapshot.
func (s *Session) Tree() syntax.Tree { return s.tree }

// Replace swaps in a re-parsed tree after a buffer edit. The previous
// snapshot should be invalidated by the caller once no view holds it.
func (s *Session) Replace(tree syntax.Tree) error {
	if err := s.engine.checkSize(tree); err != nil {
		return err
	}

	s.tree = tree
	s.engine.metrics.RecordDocumentSize(context.Background(), s.rules.Language, len(tree.Source()))

	return nil
}

// Highlight computes the highlighting overlay. When opts does not name
// enabled features, the engine configuration's feature list applies.
func (s *Session) Highlight(ctx context.Context, opts highlight.Options) ([]highlight.Span, error) {
	ctx, span := s.engine.startSpan(ctx, viewHighlight, s.rules.Language)
	defer span.End()

	if opts.Enabled == nil && len(s.engine.cfg.EnabledFeatures) > 0 {
		opts.Enabled = s.engine.cfg.EnabledFeatures
	}

	start := time.Now()
	spans, err := highlight.Project(s.tree, s.rules.Features, opts)
	s.engine.observe(ctx, span, viewHighlight, s.rules.Language, start, err)

	if err != nil {
		return nil, err
	}

	return spans, nil
}

// Indent computes the indentation column for one row.
func (s *Session) Indent(ctx context.Context, row uint) (int, error) {
	if s.rules.Calculator == nil {
		return 0, ErrNoIndentRules
	}

	ctx, span := s.engine.startSpan(ctx, viewIndent, s.rules.Language)
	defer span.End()

	start := time.Now()
	column, err := s.rules.Calculator.IndentFor(s.tree, row)
	s.engine.observe(ctx, span, viewIndent, s.rules.Language, start, err)

	if err != nil {
		return 0, err
	}

	return column, nil
}

// IndentRange computes indentation columns for rows [fromRow, toRow],
// inclusive. Result index 0 corresponds to fromRow.
func (s *Session) IndentRange(ctx context.Context, fromRow, toRow uint) ([]int, error) {
	if s.rules.Calculator == nil {
		return nil, ErrNoIndentRules
	}

	if toRow < fromRow {
		return nil, nil
	}

	ctx, span := s.engine.startSpan(ctx, viewIndent, s.rules.Language)
	defer span.End()

	start := time.Now()
	columns := make([]int, 0, toRow-fromRow+1)

	var err error

	for row := fromRow; row <= toRow; row++ {
		var column int

		column, err = s.rules.Calculator.IndentFor(s.tree, row)
		if err != nil {
			break
		}

		columns = append(columns, column)
	}

	s.engine.observe(ctx, span, viewIndent, s.rules.Language, start, err)

	if err != nil {
		return nil, err
	}

	return columns, nil
}

// Outline computes the navigation items within bound, in traversal order.
func (s *Session) Outline(ctx context.Context, bound syntax.ByteRange) ([]outline.Item, error) {
	ctx, span := s.engine.startSpan(ctx, viewOutline, s.rules.Language)
	defer span.End()

	start := time.Now()
	items, err := s.rules.Classifier.Outline(s.tree, bound)
	s.engine.observe(ctx, span, viewOutline, s.rules.Language, start, err)

	if err != nil {
		return nil, err
	}

	return items, nil
}

// OutlineGrouped computes the navigation items within bound, grouped by
// category in fixed category order.
func (s *Session) OutlineGrouped(ctx context.Context, bound syntax.ByteRange) ([]outline.Group, error) {
	items, err := s.Outline(ctx, bound)
	if err != nil {
		return nil, err
	}

	return outline.Grouped(items), nil
}
