package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ccollicutt/oceanpack/pkg/config"
	"github.com/ccollicutt/oceanpack/pkg/dataset"
	"github.com/ccollicutt/oceanpack/pkg/export"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Globals holds the persistent flags shared by all commands.
type Globals struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool

	// Logger is built by the root command before any command runs.
	Logger *zap.Logger
}

// BuildLogger creates the console logger selected by the verbosity flags.
func (g *Globals) BuildLogger() error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	switch {
	case g.Verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case g.Quiet:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	g.Logger = logger
	return nil
}

func (g *Globals) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// loadConfig loads the --config file, or the defaults without one.
func (g *Globals) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, g.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// OutputOptions holds the flags of commands that write a dataset.
type OutputOptions struct {
	Path   string
	Format string
}

// writeDataset writes ds with the configured compression.
func (g *Globals) writeDataset(ctx context.Context, cfg *config.Config, ds *dataset.Dataset, out OutputOptions) error {
	w, err := export.NewWriter(export.FormatFor(out.Path, out.Format),
		export.WithCompression(export.Compression{
			Codec: export.Codec(cfg.Compression.Codec),
			Level: cfg.Compression.Level,
		}),
		export.WithLogger(g.logger()))
	if err != nil {
		return err
	}
	if err := w.Write(ctx, ds, out.Path); err != nil {
		return fmt.Errorf("writing %s: %w", out.Path, err)
	}
	return nil
}
