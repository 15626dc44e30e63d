// Package commands implements CLI command handlers for treelens.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treelens/pkg/config"
	"github.com/Sumatoshi-tech/treelens/pkg/engine"
	"github.com/Sumatoshi-tech/treelens/pkg/language"
	"github.com/Sumatoshi-tech/treelens/pkg/observability"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
	"github.com/Sumatoshi-tech/treelens/pkg/textutil"
	"github.com/Sumatoshi-tech/treelens/pkg/version"
)

// ErrBinaryFile is returned for files failing the null-byte sniff.
var ErrBinaryFile = errors.New("binary file")

// app bundles the pieces every command needs: configuration, the engine,
// and the observability providers it must shut down on exit.
type app struct {
	cfg       *config.Config
	eng       *engine.Engine
	providers observability.Providers
}

// newApp loads configuration and wires the engine. Flags are read from
// the command's persistent flag set.
func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global.
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	obsCfg := observability.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version.Version,
		SampleRatio:    cfg.Telemetry.SampleRatio,
		LogLevel:       parseLogLevel(cfg.Logging.Level),
		LogJSON:        cfg.Logging.Format == "json",
	}

	if cfg.Telemetry.Enabled {
		obsCfg.OTLPEndpoint = cfg.Telemetry.Endpoint
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg.Engine, providers)
	if err != nil {
		shutdownErr := providers.Shutdown(context.Background())

		return nil, errors.Join(err, shutdownErr)
	}

	return &app{cfg: cfg, eng: eng, providers: providers}, nil
}

// Close flushes pending telemetry.
func (a *app) Close(ctx context.Context) error {
	return a.providers.Shutdown(ctx)
}

// openFile reads and parses a source file into an engine session.
func (a *app) openFile(ctx context.Context, path, langOverride string) (*engine.Session, []byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // CLI reads user-named files.
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	if textutil.IsBinary(data) {
		return nil, nil, fmt.Errorf("%w: %s", ErrBinaryFile, path)
	}

	lang := langOverride
	if lang == "" {
		lang, err = language.Detect(path, data)
		if err != nil {
			return nil, nil, err
		}
	}

	grammar, err := language.Grammar(lang)
	if err != nil {
		return nil, nil, err
	}

	tree, err := syntax.Parse(ctx, grammar, data)
	if err != nil {
		return nil, nil, err
	}

	session, err := a.eng.Open(lang, tree)
	if err != nil {
		return nil, nil, err
	}

	return session, data, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
