package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/valvemap/pkg/cli"
	"mercator-hq/valvemap/pkg/indexer"
	"mercator-hq/valvemap/pkg/telemetry/metrics"
)

var indexFlags struct {
	force    bool
	progress bool
	format   string
}

var indexCmd = &cobra.Command{
	Use:   "index [file|dir]...",
	Short: "Parse map files and record them in the catalog",
	Long: `Parse and lint map files and store a summary of each in the catalog:
entity and brush counts, texture usage, classnames and lint results.

Files whose content has not changed since the last run are skipped unless
--force is given. Catalogued maps under an indexed directory that no longer
exist on disk are removed. Without arguments the configured watch paths are
indexed, or, when source.git is enabled, the map directory of the Git clone
after pulling it.

Examples:
  # Index the configured paths
  valvemap index

  # Re-index one directory regardless of content hashes
  valvemap index maps/episode1 --force

  # CSV summary
  valvemap index --format csv > index.csv`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().BoolVar(&indexFlags.force, "force", false, "re-index files even if their content is unchanged")
	indexCmd.Flags().BoolVar(&indexFlags.progress, "progress", false, "show a progress bar on stderr")
	indexCmd.Flags().StringVarP(&indexFlags.format, "format", "f", "text", "output format: text, json, yaml, csv")
}

func runIndex(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(indexFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML, cli.FormatCSV)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, err := openCatalog(cfg, logger)
	if err != nil {
		return cli.NewInternalError("index", err)
	}
	defer store.Close()

	tracer, flushTraces, err := newTracer(cfg, logger)
	if err != nil {
		return err
	}
	defer flushTraces()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	_, paths, err := syncSource(ctx, cfg, args, collector, logger)
	if err != nil {
		return err
	}

	ix := indexer.New(cfg, store, collector, logger).
		WithForce(indexFlags.force).
		WithTracer(tracer)
	if indexFlags.progress {
		ix.WithProgress(cli.NewProgressReporter(os.Stderr, "indexing"))
	}

	report, err := ix.Run(ctx, indexer.TriggerCLI, paths)
	if report != nil {
		var out any = report
		if format == cli.FormatText || format == cli.FormatCSV {
			out = &indexReport{report}
		}
		if ferr := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), out); ferr != nil {
			return cli.NewInternalError("index", ferr)
		}
	}
	if err != nil {
		return cli.NewCommandError("index", err)
	}

	if report.Failed > 0 || report.ParseErrors > 0 {
		return cli.NewCommandError("index", fmt.Errorf("%d file(s) failed, %d file(s) did not parse", report.Failed, report.ParseErrors))
	}
	return nil
}

// indexReport renders an indexer.Report for the terminal and as CSV.
type indexReport struct {
	*indexer.Report
}

func (r *indexReport) Header() []string {
	return []string{"PATH", "OUTCOME", "DIALECT", "ENTITIES", "BRUSHES", "FACES", "LINT ERRORS", "LINT WARNINGS", "ERROR"}
}

func (r *indexReport) Rows() [][]string {
	rows := make([][]string, 0, len(r.Files))
	for _, f := range r.Files {
		row := []string{f.Path, string(f.Outcome), "", "", "", "", "", "", f.Error}
		if rec := f.Record; rec != nil {
			row[2] = rec.Dialect
			row[3] = strconv.Itoa(rec.Entities)
			row[4] = strconv.Itoa(rec.Brushes)
			row[5] = strconv.Itoa(rec.Faces)
			row[6] = strconv.Itoa(rec.LintErrors)
			row[7] = strconv.Itoa(rec.LintWarnings)
			if rec.Failed() {
				row[8] = rec.ParseError
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *indexReport) RenderText(w io.Writer) error {
	for _, f := range r.Files {
		switch {
		case f.Outcome == indexer.OutcomeFailed:
			fmt.Fprintf(w, "✗ %s: %s\n", f.Path, f.Error)
		case f.Record != nil && f.Record.Failed():
			fmt.Fprintf(w, "✗ %s: %s\n", f.Path, f.Record.ParseError)
		case f.Outcome == indexer.OutcomeRemoved:
			fmt.Fprintf(w, "- %s (removed)\n", f.Path)
		case f.Outcome == indexer.OutcomeIndexed:
			fmt.Fprintf(w, "✓ %s\n", f.Path)
		}
	}

	fmt.Fprintf(w, "\nRun %s: %d indexed, %d unchanged, %d removed, %d failed, %d parse error(s) in %s\n",
		r.RunID, r.Indexed, r.Unchanged, r.Removed, r.Failed, r.ParseErrors, r.Duration.Round(time.Millisecond))
	return nil
}
