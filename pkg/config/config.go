// Package config provides configuration loading and validation for the
// treelens CLI and LSP server. The result is an explicit struct handed to
// the engine entry points, set once per document session and immutable
// during traversal.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidIndentWidth = errors.New("indent width must not be negative")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidMaxFileSize = errors.New("invalid max file size")
	ErrInvalidSampleRatio = errors.New("trace sample ratio must be in [0, 1]")
)

// Config holds all configuration for treelens.
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// EngineConfig holds rule-engine configuration.
type EngineConfig struct {
	// RulesetDir holds per-language YAML rulesets overriding the embedded
	// defaults. Empty means embedded rulesets only.
	RulesetDir string `mapstructure:"ruleset_dir"`

	// IndentWidth overrides the per-ruleset indentation width when positive.
	IndentWidth int `mapstructure:"indent_width"`

	// EnabledFeatures restricts highlighting to the named features.
	// Empty means all features.
	EnabledFeatures []string `mapstructure:"enabled_features"`

	// MaxFileSize caps the files the CLI will parse ("1MB", "512KB").
	MaxFileSize string `mapstructure:"max_file_size"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TelemetryConfig holds OTLP trace/metric export configuration.
type TelemetryConfig struct {
	Endpoint    string  `mapstructure:"otlp_endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Enabled     bool    `mapstructure:"enabled"`
}

// MaxFileSizeBytes returns the parsed file-size cap in bytes.
func (c *EngineConfig) MaxFileSizeBytes() uint64 {
	size, err := humanize.ParseBytes(c.MaxFileSize)
	if err != nil {
		return DefaultMaxFileSizeBytes
	}

	return size
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("treelens")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/treelens")
		viperCfg.AddConfigPath("/etc/treelens")
	}

	viperCfg.SetEnvPrefix("TREELENS")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Engine defaults.
	viperCfg.SetDefault("engine.ruleset_dir", "")
	viperCfg.SetDefault("engine.indent_width", DefaultIndentWidth)
	viperCfg.SetDefault("engine.enabled_features", []string{})
	viperCfg.SetDefault("engine.max_file_size", DefaultMaxFileSize)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")
	viperCfg.SetDefault("logging.output", "stderr")

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.enabled", false)
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.service_name", "treelens")
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Engine.IndentWidth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIndentWidth, config.Engine.IndentWidth)
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Engine.MaxFileSize != "" {
		if _, err := humanize.ParseBytes(config.Engine.MaxFileSize); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidMaxFileSize, config.Engine.MaxFileSize)
		}
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}
