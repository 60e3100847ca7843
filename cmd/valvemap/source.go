package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/valvemap/pkg/cli"
	"mercator-hq/valvemap/pkg/config"
	"mercator-hq/valvemap/pkg/source"
	"mercator-hq/valvemap/pkg/telemetry/logging"
	"mercator-hq/valvemap/pkg/telemetry/metrics"
)

var sourceFlags struct {
	format string
}

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage the Git map source",
	Long: `Clone or update the Git repository configured in source.git.

When source.git.enabled is true, "valvemap index" and "valvemap watch" sync
the repository themselves and index its map directory in place of
watch.paths. These commands sync or inspect the clone on their own.

Examples:
  # Clone or pull the map repository
  valvemap source sync --config valvemap.yaml

  # Show the checked out commit
  valvemap source status --format json`,
}

var sourceSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Clone or pull the map repository",
	Args:  cobra.NoArgs,
	RunE:  runSourceSync,
}

var sourceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the commit checked out in the local clone",
	Args:  cobra.NoArgs,
	RunE:  runSourceStatus,
}

func init() {
	rootCmd.AddCommand(sourceCmd)
	sourceCmd.AddCommand(sourceSyncCmd, sourceStatusCmd)

	sourceCmd.PersistentFlags().StringVarP(&sourceFlags.format, "format", "f", "text", "output format: text, json, yaml")
}

// newSource returns the configured Git map source, or nil when it is disabled.
func newSource(cfg *config.Config, collector *metrics.Collector, logger *logging.Logger) (*source.Repository, error) {
	if !cfg.Source.Git.Enabled {
		return nil, nil
	}
	repo, err := source.NewRepository(&cfg.Source.Git, cfg.Watch.Extensions, logger.Slog())
	if err != nil {
		return nil, cli.NewConfigError("source.git", err.Error())
	}
	return repo.WithMetrics(collector), nil
}

// syncSource syncs the Git map source when one is configured and returns
// the paths to index: args when given, else the clone's map directory, else
// watch.paths.
func syncSource(ctx context.Context, cfg *config.Config, args []string, collector *metrics.Collector, logger *logging.Logger) (*source.Repository, []string, error) {
	repo, err := newSource(cfg, collector, logger)
	if err != nil {
		return nil, nil, err
	}
	if repo != nil {
		if _, err := repo.Sync(ctx); err != nil {
			return nil, nil, cli.NewCommandError("source sync", err)
		}
	}

	switch {
	case len(args) > 0:
		return repo, args, nil
	case repo != nil:
		return repo, []string{repo.MapPath()}, nil
	default:
		return nil, cfg.Watch.Paths, nil
	}
}

func sourceContext(cmd *cobra.Command) (*config.Config, *logging.Logger, cli.OutputFormat, error) {
	format, err := outputFormat(sourceFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return nil, nil, "", err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	if !cfg.Source.Git.Enabled {
		return nil, nil, "", cli.NewConfigError("source.git.enabled", "no Git map source is configured")
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, logger, format, nil
}

func runSourceSync(cmd *cobra.Command, _ []string) error {
	cfg, logger, format, err := sourceContext(cmd)
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	repo, err := newSource(cfg, nil, logger)
	if err != nil {
		return err
	}
	result, err := repo.Sync(ctx)
	if err != nil {
		return cli.NewCommandError("source sync", err)
	}

	var out any = result
	if format == cli.FormatText {
		out = (*syncView)(result)
	}
	return formatOutput(cmd, "source sync", format, out)
}

func runSourceStatus(cmd *cobra.Command, _ []string) error {
	cfg, logger, format, err := sourceContext(cmd)
	if err != nil {
		return err
	}

	repo, err := newSource(cfg, nil, logger)
	if err != nil {
		return err
	}
	// Status reads the clone without contacting the remote.
	head, err := repo.Open()
	if err != nil {
		return cli.NewCommandError("source status", err)
	}

	var out any = head
	if format == cli.FormatText {
		out = &commitView{head, repo.MapPath()}
	}
	return formatOutput(cmd, "source status", format, out)
}

type syncView source.SyncResult

func (v *syncView) RenderText(w io.Writer) error {
	r := (*source.SyncResult)(v)
	switch r.Result {
	case source.ResultCloned:
		fmt.Fprintf(w, "Cloned at %s\n", short(r.ToSHA))
	case source.ResultUnchanged:
		fmt.Fprintf(w, "Already up to date at %s\n", short(r.ToSHA))
	default:
		fmt.Fprintf(w, "Updated %s..%s, %d map(s) changed\n", short(r.FromSHA), short(r.ToSHA), len(r.ChangedMaps))
		for _, p := range r.ChangedMaps {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	return nil
}

type commitView struct {
	*source.CommitInfo
	mapPath string
}

func (v *commitView) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "%s (%s)\n", v.ShortSHA(), v.Branch)
	fmt.Fprintf(w, "  author:  %s <%s>\n", v.Author, v.Email)
	fmt.Fprintf(w, "  date:    %s\n", v.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "  message: %s\n", v.Message)
	fmt.Fprintf(w, "  maps:    %s\n", v.mapPath)
	return nil
}

func short(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
