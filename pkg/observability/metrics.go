package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricViewsTotal        = "treelens.views.total"
	metricViewDuration      = "treelens.view.duration.seconds"
	metricErrorsTotal       = "treelens.errors.total"
	metricPatternCacheHits  = "treelens.pattern_cache.hits"
	metricPatternCacheMiss  = "treelens.pattern_cache.misses"
	metricDocumentSizeBytes = "treelens.document.size.bytes"

	attrView     = "view"
	attrLanguage = "language"
	attrStatus   = "status"

	// StatusOK and StatusError label completed view computations.
	StatusOK    = "ok"
	StatusError = "error"
)

// durationBucketBoundaries covers 0.1ms to 5s; view computations are
// single traversals and normally finish well under a frame budget.
var durationBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// sizeBucketBoundaries covers 1KB to 16MB of parsed source.
var sizeBucketBoundaries = []float64{1 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20, 4 << 20, 16 << 20}

// EngineMetrics holds the OTel instruments for view computations.
type EngineMetrics struct {
	viewsTotal   metric.Int64Counter
	viewDuration metric.Float64Histogram
	errorsTotal  metric.Int64Counter
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
	documentSize metric.Float64Histogram
}

// NewEngineMetrics creates the engine's metric instruments from the meter.
func NewEngineMetrics(mt metric.Meter) (*EngineMetrics, error) {
	viewsTotal, err := mt.Int64Counter(metricViewsTotal,
		metric.WithDescription("Total number of view computations"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricViewsTotal, err)
	}

	viewDuration, err := mt.Float64Histogram(metricViewDuration,
		metric.WithDescription("View computation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricViewDuration, err)
	}

	errorsTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of failed view computations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	cacheHits, err := mt.Int64Counter(metricPatternCacheHits,
		metric.WithDescription("Compiled-pattern cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPatternCacheHits, err)
	}

	cacheMisses, err := mt.Int64Counter(metricPatternCacheMiss,
		metric.WithDescription("Compiled-pattern cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPatternCacheMiss, err)
	}

	documentSize, err := mt.Float64Histogram(metricDocumentSizeBytes,
		metric.WithDescription("Size of parsed documents in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(sizeBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDocumentSizeBytes, err)
	}

	return &EngineMetrics{
		viewsTotal:   viewsTotal,
		viewDuration: viewDuration,
		errorsTotal:  errorsTotal,
		cacheHits:    cacheHits,
		cacheMisses:  cacheMisses,
		documentSize: documentSize,
	}, nil
}

// RecordView records a completed view computation.
func (em *EngineMetrics) RecordView(ctx context.Context, view, language, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrView, view),
		attribute.String(attrLanguage, language),
		attribute.String(attrStatus, status),
	)

	em.viewsTotal.Add(ctx, 1, attrs)
	em.viewDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		em.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrView, view),
			attribute.String(attrLanguage, language),
		))
	}
}

// RecordCacheStats records the delta of pattern-cache hits and misses
// since the previous call site snapshot.
func (em *EngineMetrics) RecordCacheStats(ctx context.Context, hits, misses int64) {
	if hits > 0 {
		em.cacheHits.Add(ctx, hits)
	}

	if misses > 0 {
		em.cacheMisses.Add(ctx, misses)
	}
}

// RecordDocumentSize records the size of a parsed document.
func (em *EngineMetrics) RecordDocumentSize(ctx context.Context, language string, size int) {
	em.documentSize.Record(ctx, float64(size), metric.WithAttributes(
		attribute.String(attrLanguage, language),
	))
}
