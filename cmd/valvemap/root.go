package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mercator-hq/valvemap/pkg/catalog"
	"mercator-hq/valvemap/pkg/cli"
	"mercator-hq/valvemap/pkg/config"
	"mercator-hq/valvemap/pkg/mapfile/parser"
	"mercator-hq/valvemap/pkg/telemetry/logging"
	"mercator-hq/valvemap/pkg/telemetry/tracing"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "valvemap",
	Short: "Parse, lint and catalog Valve/Quake .map files",
	Long: `valvemap reads the text .map level format used by Quake, Quake 2 and
Half-Life editors, in both the standard and Valve 220 texture alignment
dialects.

It checks maps for syntax and lint errors, prints their structure, and keeps
a SQLite catalog of map contents that can be refreshed on demand or kept up
to date by watching map directories.

Configuration is read from the file given with --config; without one the
built-in defaults apply. Any setting can be overridden with a VALVEMAP_*
environment variable (for example VALVEMAP_CATALOG_PATH).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads the configuration named by --config and applies --verbose.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError(configName(), err.Error())
	}

	cfg := config.GetConfig()
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

func configName() string {
	if cfgFile == "" {
		return "defaults"
	}
	return cfgFile
}

// newLogger builds the process logger from cfg and installs it as the slog
// default. Logs go to stderr so command output on stdout stays parseable.
func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, w))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())
	return logger, nil
}

// newTracer returns the tracer configured in telemetry.tracing and a
// function that flushes it. A disabled tracer records nothing.
func newTracer(cfg *config.Config, logger *logging.Logger) (*tracing.Tracer, func(), error) {
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.OTLP.Timeout)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}
	return tracer, shutdown, nil
}

// newParser returns a parser configured from the parser section of cfg.
func newParser(cfg *config.Config) *parser.Parser {
	return parser.NewParser().
		WithMaxFileSize(cfg.Parser.MaxFileSize).
		WithEditorKeys(!cfg.Parser.StripEditorKeys)
}

// openCatalog opens the catalog, creating its directory when needed.
func openCatalog(cfg *config.Config, logger *logging.Logger) (*catalog.Store, error) {
	if cfg.Catalog.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Catalog.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	store, err := catalog.Open(cfg.Catalog, logger.Slog())
	if err != nil {
		return nil, err
	}
	return store, nil
}

// outputFormat validates a --format flag value against the formats a
// command supports.
func outputFormat(value string, allowed ...cli.OutputFormat) (cli.OutputFormat, error) {
	format, err := cli.ParseFormat(value)
	if err != nil {
		return "", cli.NewConfigError("--format", err.Error())
	}
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", cli.NewConfigError("--format", fmt.Sprintf("format %q is not supported by this command", format))
}
