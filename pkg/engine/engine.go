// Package engine ties the view computations together behind a per-document
// session facade. The engine resolves rulesets, gates document size, and
// wraps every view computation in tracing and metrics.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/treelens/pkg/config"
	"github.com/Sumatoshi-tech/treelens/pkg/observability"
	"github.com/Sumatoshi-tech/treelens/pkg/rules"
	"github.com/Sumatoshi-tech/treelens/pkg/ruleset"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

// Sentinel errors for session construction and view computation.
var (
	// ErrDocumentTooLarge reports a document over the configured size cap.
	ErrDocumentTooLarge = errors.New("engine: document too large")

	// ErrNoIndentRules reports an indentation request against a ruleset
	// that declares no indentation rules.
	ErrNoIndentRules = errors.New("engine: ruleset has no indentation rules")
)

// View names used in span names and metric attributes.
const (
	viewHighlight = "highlight"
	viewIndent    = "indent"
	viewOutline   = "outline"
)

// Engine resolves rulesets and opens document sessions. Safe for
// concurrent use; each Session is single-document.
type Engine struct {
	cfg     config.EngineConfig
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics *observability.EngineMetrics

	mu         sync.Mutex
	lastHits   int64
	lastMisses int64
}

// New creates an engine from configuration and observability providers.
func New(cfg config.EngineConfig, providers observability.Providers) (*Engine, error) {
	metrics, err := observability.NewEngineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return &Engine{
		cfg:     cfg,
		tracer:  providers.Tracer,
		logger:  providers.Logger,
		metrics: metrics,
	}, nil
}

// Ruleset resolves the ruleset for a language. A "<language>.yaml" file in
// the configured ruleset directory overrides the embedded default.
func (e *Engine) Ruleset(language string) (*ruleset.Ruleset, error) {
	opts := ruleset.Options{IndentWidth: e.cfg.IndentWidth}

	if e.cfg.RulesetDir != "" {
		path := filepath.Join(e.cfg.RulesetDir, language+".yaml")
		if _, err := os.Stat(path); err == nil {
			rs, err := ruleset.LoadFile(path, opts)
			if err != nil {
				return nil, fmt.Errorf("engine: load %s: %w", path, err)
			}

			return rs, nil
		}
	}

	rs, err := ruleset.Builtin(language, opts)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return rs, nil
}

// Open resolves the language's ruleset and opens a session over the tree.
func (e *Engine) Open(language string, tree syntax.Tree) (*Session, error) {
	rs, err := e.Ruleset(language)
	if err != nil {
		return nil, err
	}

	return e.OpenWith(rs, tree)
}

// OpenWith opens a session over the tree using an already-loaded ruleset.
func (e *Engine) OpenWith(rs *ruleset.Ruleset, tree syntax.Tree) (*Session, error) {
	if err := e.checkSize(tree); err != nil {
		return nil, err
	}

	size := len(tree.Source())
	e.metrics.RecordDocumentSize(context.Background(), rs.Language, size)
	e.logger.Debug("session opened", "language", rs.Language, "size", size)

	return &Session{engine: e, rules: rs, tree: tree}, nil
}

func (e *Engine) checkSize(tree syntax.Tree) error {
	limit := e.cfg.MaxFileSizeBytes()
	size := uint64(len(tree.Source()))

	if limit > 0 && size > limit {
		return fmt.Errorf("%w: %s exceeds %s",
			ErrDocumentTooLarge, humanize.Bytes(size), humanize.Bytes(limit))
	}

	return nil
}

// observe closes out one view computation: span status, the view metrics,
// and the pattern-cache counter delta accumulated since the last flush.
func (e *Engine) observe(
	ctx context.Context, span trace.Span, view, language string, start time.Time, err error,
) {
	status := observability.StatusOK

	if err != nil {
		status = observability.StatusError

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.WarnContext(ctx, "view computation failed",
			"view", view, "language", language, "error", err)
	}

	e.metrics.RecordView(ctx, view, language, status, time.Since(start))
	e.flushCacheStats(ctx)
}

func (e *Engine) flushCacheStats(ctx context.Context) {
	hits, misses := rules.CacheStats()

	e.mu.Lock()
	deltaHits, deltaMisses := hits-e.lastHits, misses-e.lastMisses
	e.lastHits, e.lastMisses = hits, misses
	e.mu.Unlock()

	e.metrics.RecordCacheStats(ctx, deltaHits, deltaMisses)
}

func (e *Engine) startSpan(ctx context.Context, view, language string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "engine."+view, trace.WithAttributes(
		attribute.String("language", language),
	))
}
