package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/treelens/pkg/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultIndentWidth, cfg.Engine.IndentWidth)
	assert.Equal(t, config.DefaultMaxFileSize, cfg.Engine.MaxFileSize)
	assert.Empty(t, cfg.Engine.EnabledFeatures)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "treelens", cfg.Telemetry.ServiceName)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	configContent := `
engine:
  indent_width: 2
  enabled_features: [keywords, comments]
  max_file_size: "512KB"

logging:
  level: debug
  format: json

telemetry:
  enabled: true
  otlp_endpoint: "localhost:4317"
`

	tmpDir := t.TempDir()

	tmpFile, err := os.CreateTemp(tmpDir, "treelens-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(configContent)
	require.NoError(t, writeErr)

	tmpFile.Close()

	cfg, loadErr := config.LoadConfig(tmpFile.Name())
	require.NoError(t, loadErr)

	assert.Equal(t, 2, cfg.Engine.IndentWidth)
	assert.Equal(t, []string{"keywords", "comments"}, cfg.Engine.EnabledFeatures)
	assert.Equal(t, uint64(512_000), cfg.Engine.MaxFileSizeBytes())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("TREELENS_ENGINE_INDENT_WIDTH", "8")
	t.Setenv("TREELENS_LOGGING_LEVEL", "warn")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Engine.IndentWidth)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "negative_indent_width",
			content: "engine:\n  indent_width: -1\n",
			wantErr: config.ErrInvalidIndentWidth,
		},
		{
			name:    "bad_log_level",
			content: "logging:\n  level: verbose\n",
			wantErr: config.ErrInvalidLogLevel,
		},
		{
			name:    "bad_log_format",
			content: "logging:\n  format: xml\n",
			wantErr: config.ErrInvalidLogFormat,
		},
		{
			name:    "bad_max_file_size",
			content: "engine:\n  max_file_size: huge\n",
			wantErr: config.ErrInvalidMaxFileSize,
		},
		{
			name:    "bad_sample_ratio",
			content: "telemetry:\n  sample_ratio: 2.5\n",
			wantErr: config.ErrInvalidSampleRatio,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()

			tmpFile, err := os.CreateTemp(tmpDir, "treelens-*.yaml")
			require.NoError(t, err)

			_, writeErr := tmpFile.WriteString(tt.content)
			require.NoError(t, writeErr)

			tmpFile.Close()

			_, loadErr := config.LoadConfig(tmpFile.Name())
			require.ErrorIs(t, loadErr, tt.wantErr)
		})
	}
}

func TestMaxFileSizeBytesFallback(t *testing.T) {
	t.Parallel()

	engine := config.EngineConfig{MaxFileSize: ""}

	assert.Equal(t, uint64(config.DefaultMaxFileSizeBytes), engine.MaxFileSizeBytes())
}
