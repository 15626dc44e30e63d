package config

// Engine defaults.
const (
	// DefaultIndentWidth of 0 defers to each ruleset's declared width.
	DefaultIndentWidth = 0

	DefaultMaxFileSize      = "1MB"
	DefaultMaxFileSizeBytes = 1 << 20
)

// Telemetry defaults.
const (
	DefaultSampleRatio = 1.0
)
