package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/treelens/pkg/observability"
)

func TestInitWithoutEndpoint(t *testing.T) {
	providers, err := observability.Init(observability.Config{
		ServiceName: "treelens-test",
	})
	require.NoError(t, err)

	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Logger)
	require.NotNil(t, providers.Shutdown)

	// No-op providers still hand out working instruments.
	_, span := providers.Tracer.Start(context.Background(), "test-span")
	span.End()

	counter, err := providers.Meter.Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", nil},
		{"single", "authorization=Bearer tok", map[string]string{"authorization": "Bearer tok"}},
		{
			"multiple",
			"a=1, b=2",
			map[string]string{"a": "1", "b": "2"},
		},
		{"malformed", "novalue", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, observability.ParseOTLPHeaders(tt.raw))
		})
	}
}
