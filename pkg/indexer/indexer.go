package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/valvemap/pkg/catalog"
	"mercator-hq/valvemap/pkg/config"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
	"mercator-hq/valvemap/pkg/mapfile/parser"
	"mercator-hq/valvemap/pkg/mapfile/validator"
	"mercator-hq/valvemap/pkg/telemetry/logging"
	"mercator-hq/valvemap/pkg/telemetry/metrics"
	"mercator-hq/valvemap/pkg/telemetry/tracing"
)

// Indexer parses, lints and catalogs map files.
// Runs may execute concurrently; the catalog serializes writes.
type Indexer struct {
	parser    *parser.Parser
	validator *validator.Validator // nil when linting is disabled
	catalog   Catalog
	metrics   *metrics.Collector
	logger    *logging.Logger
	tracer    *tracing.Tracer
	walker    *Walker
	force     bool
	progress  Progress
}

// New creates an indexer from the parser, lint and watch sections of cfg.
// collector and logger may be nil.
func New(cfg *config.Config, store Catalog, collector *metrics.Collector, logger *logging.Logger) *Indexer {
	if logger == nil {
		logger, _ = logging.New(logging.Config{})
	}

	var v *validator.Validator
	if cfg.Lint.Enabled {
		v = validator.NewValidator().WithStrict(cfg.Lint.Strict)
	}

	return &Indexer{
		parser: parser.NewParser().
			WithMaxFileSize(cfg.Parser.MaxFileSize).
			WithEditorKeys(!cfg.Parser.StripEditorKeys),
		validator: v,
		catalog:   store,
		metrics:   collector,
		logger:    logger.With("component", "indexer"),
		tracer:    tracing.Noop(),
		walker:    NewWalker(cfg.Watch.Extensions, cfg.Watch.Recursive),
	}
}

// WithForce re-indexes files even when their content hash is unchanged.
func (ix *Indexer) WithForce(force bool) *Indexer {
	ix.force = force
	return ix
}

// WithProgress reports per-file progress of each run to p.
func (ix *Indexer) WithProgress(p Progress) *Indexer {
	ix.progress = p
	return ix
}

// WithTracer records a span per run and per file with t.
func (ix *Indexer) WithTracer(t *tracing.Tracer) *Indexer {
	if t != nil {
		ix.tracer = t
	}
	return ix
}

// Matches reports whether path has one of the indexed extensions.
func (ix *Indexer) Matches(path string) bool {
	return ix.walker.Matches(path)
}

// Run indexes every path in paths. Directories are walked for files with an
// indexed extension, and catalog entries under a walked directory whose file
// no longer exists are removed. A path that does not exist is removed from
// the catalog. Run stops early, returning the partial report and the
// context error, when ctx is cancelled.
func (ix *Indexer) Run(ctx context.Context, trigger string, paths []string) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}

	ctx, span := ix.tracer.Start(ctx, "index.run")
	defer span.End()
	tracing.SetRunAttributes(span, report.RunID, trigger, len(paths))

	ctx = logging.WithRunID(ctx, report.RunID)
	ctx = logging.WithTrigger(ctx, trigger)
	ix.logger.InfoContext(ctx, "index run started", "paths", len(paths))

	files, roots, missing := ix.collect(ctx, paths, report)

	for _, path := range missing {
		report.add(ix.remove(ctx, path))
	}

	if ix.progress != nil {
		ix.progress.Start(len(files))
	}
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return ix.finish(ctx, report), err
		}
		report.add(ix.indexFile(ctx, path, report.RunID))
		if ix.progress != nil {
			ix.progress.Update(i + 1)
		}
	}
	if ix.progress != nil {
		ix.progress.Finish()
	}

	if len(roots) > 0 {
		if err := ix.prune(ctx, roots, files, report); err != nil {
			ix.logger.WarnContext(ctx, "pruning catalog failed", "error", err)
		}
	}

	return ix.finish(ctx, report), ctx.Err()
}

// IndexFile indexes a single file outside of a run.
func (ix *Indexer) IndexFile(ctx context.Context, path string) FileResult {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileResult{Path: path, Outcome: OutcomeFailed, Err: &IndexError{Path: path, Op: "resolve", Err: err}}
	}
	return ix.indexFile(ctx, abs, uuid.NewString())
}

func (ix *Indexer) finish(ctx context.Context, report *Report) *Report {
	report.Duration = time.Since(report.StartedAt)
	ix.metrics.RecordRun(report.Trigger, report.Duration)

	span := tracing.SpanFromContext(ctx)
	tracing.SetRunSummary(span, tracing.RunSummary{
		Indexed:     report.Indexed,
		Unchanged:   report.Unchanged,
		Failed:      report.Failed,
		Removed:     report.Removed,
		ParseErrors: report.ParseErrors,
	})
	tracing.SetStatus(span, ctx.Err())

	if n, err := ix.catalog.Count(ctx); err == nil {
		ix.metrics.SetCatalogSize(n)
	}

	ix.logger.InfoContext(ctx, "index run finished",
		"indexed", report.Indexed,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
		"removed", report.Removed,
		"parse_errors", report.ParseErrors,
		"duration", report.Duration,
	)
	return report
}

// collect resolves paths into files to index, walked directory roots and
// paths that no longer exist. Unreadable directories are reported as failed.
func (ix *Indexer) collect(ctx context.Context, paths []string, report *Report) (files, roots, missing []string) {
	seen := make(map[string]bool)

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			report.add(FileResult{Path: p, Outcome: OutcomeFailed, Err: &IndexError{Path: p, Op: "resolve", Err: err}})
			continue
		}

		info, err := os.Stat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, abs)
			continue
		}
		if err != nil {
			report.add(FileResult{Path: abs, Outcome: OutcomeFailed, Err: &IndexError{Path: abs, Op: "stat", Err: err}})
			continue
		}

		if !info.IsDir() {
			if !seen[abs] {
				seen[abs] = true
				files = append(files, abs)
			}
			continue
		}

		roots = append(roots, abs)
		err = ix.walker.Walk(abs, func(path string, err error) error {
			if err != nil {
				report.add(FileResult{Path: path, Outcome: OutcomeFailed, Err: &IndexError{Path: path, Op: "walk", Err: err}})
				return nil
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return ctx.Err()
		})
		if err != nil {
			ix.logger.WarnContext(ctx, "walk stopped", "root", abs, "error", err)
		}
	}

	return files, roots, missing
}

// indexFile reads, parses, lints and catalogs one file.
func (ix *Indexer) indexFile(ctx context.Context, path, runID string) FileResult {
	ctx, span := ix.tracer.Start(ctx, "index.file", trace.WithAttributes(attribute.String(tracing.AttrMapPath, path)))
	defer span.End()

	ctx = logging.WithMapPath(ctx, path)
	result := FileResult{Path: path}

	fail := func(op string, err error) FileResult {
		result.Outcome = OutcomeFailed
		result.Err = &IndexError{Path: path, Op: op, Err: err}
		ix.metrics.RecordIndex(string(OutcomeFailed))
		ix.logger.WarnContext(ctx, "indexing failed", "op", op, "error", err)
		span.SetAttributes(attribute.String(tracing.AttrOutcome, string(OutcomeFailed)))
		tracing.SetError(span, result.Err)
		tracing.SetStatus(span, result.Err)
		return result
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail("stat", err)
	}
	if info.Size() > ix.parser.MaxFileSize() {
		return fail("stat", fmt.Errorf("file size %d exceeds maximum %d bytes", info.Size(), ix.parser.MaxFileSize()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail("read", err)
	}

	rec := newRecord(path, data, info, runID)
	span.SetAttributes(attribute.Int64(tracing.AttrMapSize, rec.SizeBytes))

	if !ix.force {
		previous, err := ix.catalog.Fingerprint(ctx, path)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return fail("fingerprint", err)
		}
		if previous == rec.SHA256 {
			result.Outcome = OutcomeUnchanged
			ix.metrics.RecordIndex(string(OutcomeUnchanged))
			span.SetAttributes(attribute.String(tracing.AttrOutcome, string(OutcomeUnchanged)))
			return result
		}
	}

	start := time.Now()
	doc, err := ix.parser.ParseBytes(data, path)
	duration := time.Since(start)

	if err != nil {
		ix.metrics.RecordParse(len(data), duration, parseErrorType(err))
		rec.ParseError = parseErrorSummary(err)
		ix.logger.WarnContext(ctx, "map does not parse", "error", rec.ParseError)
		tracing.SetParseError(span, parseErrorType(err), rec.ParseError)
	} else {
		ix.metrics.RecordParse(len(data), duration, "")

		var findings *mapErrors.ErrorList
		if ix.validator != nil {
			findings = ix.validator.Check(doc)
			result.Findings = findings.Errors
			ix.metrics.RecordLintFinding(string(mapErrors.SeverityError), len(findings.Failures()))
			ix.metrics.RecordLintFinding(string(mapErrors.SeverityWarning), len(findings.Warnings()))
		}
		fillFromDocument(rec, doc, findings)
		tracing.SetMapAttributes(span, rec.Dialect, rec.Entities, rec.Brushes, rec.Faces)
		tracing.SetLintAttributes(span, rec.LintErrors, rec.LintWarnings)
	}

	if err := ix.catalog.Upsert(ctx, rec); err != nil {
		return fail("catalog", err)
	}

	result.Outcome = OutcomeIndexed
	result.Record = rec
	ix.metrics.RecordIndex(string(OutcomeIndexed))
	span.SetAttributes(attribute.String(tracing.AttrOutcome, string(OutcomeIndexed)))
	ix.logger.InfoContext(ctx, "map indexed",
		"entities", rec.Entities,
		"brushes", rec.Brushes,
		"dialect", rec.Dialect,
		"lint_errors", rec.LintErrors,
		"lint_warnings", rec.LintWarnings,
	)
	return result
}

// remove deletes the catalog entry of a file that no longer exists.
func (ix *Indexer) remove(ctx context.Context, path string) FileResult {
	removed, err := ix.catalog.Remove(ctx, path)
	if err != nil {
		ix.metrics.RecordIndex(string(OutcomeFailed))
		return FileResult{Path: path, Outcome: OutcomeFailed, Err: &IndexError{Path: path, Op: "remove", Err: err}}
	}
	if !removed {
		return FileResult{Path: path, Outcome: OutcomeFailed, Err: &IndexError{Path: path, Op: "stat", Err: fs.ErrNotExist}}
	}

	ix.metrics.RecordIndex(string(OutcomeRemoved))
	ix.logger.InfoContext(logging.WithMapPath(ctx, path), "map removed from catalog")
	return FileResult{Path: path, Outcome: OutcomeRemoved}
}

// prune removes catalog entries under roots that were not found by the walk
// and no longer exist on disk.
func (ix *Indexer) prune(ctx context.Context, roots, files []string, report *Report) error {
	found := make(map[string]bool, len(files))
	for _, f := range files {
		found[f] = true
	}

	catalogued, err := ix.catalog.Paths(ctx)
	if err != nil {
		return err
	}

	for _, path := range catalogued {
		if found[path] || !underAny(path, roots) {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			report.add(ix.remove(ctx, path))
		}
	}
	return nil
}

func underAny(path string, roots []string) bool {
	for _, root := range roots {
		if strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
