package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"

	"github.com/Sumatoshi-tech/treelens/pkg/observability"
)

func TestEngineMetrics(t *testing.T) {
	t.Parallel()

	meter := noopmetric.NewMeterProvider().Meter("test")

	metrics, err := observability.NewEngineMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()

	// Recording against no-op instruments must not panic.
	metrics.RecordView(ctx, "highlight", "go", observability.StatusOK, 2*time.Millisecond)
	metrics.RecordView(ctx, "indent", "go", observability.StatusError, time.Millisecond)
	metrics.RecordCacheStats(ctx, 10, 2)
	metrics.RecordCacheStats(ctx, 0, 0)
	metrics.RecordDocumentSize(ctx, "go", 4096)
}
