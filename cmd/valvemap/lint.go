package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/valvemap/pkg/cli"
	"mercator-hq/valvemap/pkg/mapfile"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

var lintFlags struct {
	strict  bool
	noLint  bool
	format  string
	context bool
}

var lintCmd = &cobra.Command{
	Use:   "lint <file|dir>...",
	Short: "Check map files for syntax and lint errors",
	Long: `Check .map files for syntax errors and, once they parse, run the lint
passes:
  - Structure (classname present, worldspawn first, brushes with >= 4 faces)
  - Geometry (degenerate planes, zero texture scale, zero-length UV axes,
    brushes mixing alignment dialects)

Directories are searched for files with the configured watch extensions.

Examples:
  # Lint a single map
  valvemap lint maps/start.map

  # Lint every map under a directory
  valvemap lint maps/

  # Strict mode (warnings as errors)
  valvemap lint maps/ --strict

  # JSON output for CI
  valvemap lint maps/ --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().BoolVar(&lintFlags.noLint, "syntax-only", false, "only check that files parse")
	lintCmd.Flags().StringVarP(&lintFlags.format, "format", "f", "text", "output format: text, json, yaml")
	lintCmd.Flags().BoolVar(&lintFlags.context, "context", true, "show source lines around syntax errors (text output)")
}

// LintResult is the lint result for one map file.
type LintResult struct {
	File     string    `json:"file" yaml:"file"`
	Valid    bool      `json:"valid" yaml:"valid"`
	Entities int       `json:"entities" yaml:"entities"`
	Brushes  int       `json:"brushes" yaml:"brushes"`
	Errors   []Finding `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []Finding `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Finding is a single syntax error or lint finding.
type Finding struct {
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column     int    `json:"column,omitempty" yaml:"column,omitempty"`
	Offset     int    `json:"offset" yaml:"offset"`
	Type       string `json:"type" yaml:"type"`
	Severity   string `json:"severity" yaml:"severity"`
	Message    string `json:"message" yaml:"message"`
	Expected   string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Context    string `json:"-" yaml:"-"`
}

// lintReport renders a set of LintResults as text.
type lintReport struct {
	results     []LintResult
	strict      bool
	showContext bool
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(lintFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatYAML)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	strict := lintFlags.strict || cfg.Lint.Strict

	files, err := collectMapFiles(args, cfg)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}
	if len(files) == 0 {
		return cli.NewCommandError("lint", errors.New("no map files found"))
	}

	p := newParser(cfg)
	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		result := LintResult{File: file, Valid: true}

		doc, err := p.Parse(file)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, findingFromError(err))
			results = append(results, result)
			continue
		}

		result.Entities = doc.EntityCount()
		result.Brushes = doc.BrushCount()

		if !lintFlags.noLint {
			for _, e := range mapfile.Lint(doc, strict).Errors {
				if e.IsWarning() {
					result.Warnings = append(result.Warnings, newFinding(e))
				} else {
					result.Valid = false
					result.Errors = append(result.Errors, newFinding(e))
				}
			}
		}
		results = append(results, result)
	}

	out := cmd.OutOrStdout()
	var data any = results
	if format == cli.FormatText {
		data = &lintReport{results: results, strict: strict, showContext: lintFlags.context}
	}
	if err := cli.NewFormatter(format).FormatTo(out, data); err != nil {
		return cli.NewInternalError("lint", err)
	}

	if invalid := countInvalid(results); invalid > 0 {
		return cli.NewCommandError("lint", fmt.Errorf("%d of %d file(s) failed", invalid, len(results)))
	}
	return nil
}

func findingFromError(err error) Finding {
	var perr *mapErrors.Error
	if errors.As(err, &perr) {
		return newFinding(perr)
	}
	return Finding{
		Type:     string(mapErrors.ErrorTypeIO),
		Severity: string(mapErrors.SeverityError),
		Message:  err.Error(),
	}
}

func newFinding(e *mapErrors.Error) Finding {
	severity := e.Severity
	if severity == "" {
		severity = mapErrors.SeverityError
	}
	return Finding{
		Line:       e.Location.Line,
		Column:     e.Location.Column,
		Offset:     e.Offset,
		Type:       string(e.Type),
		Severity:   string(severity),
		Message:    e.Message,
		Expected:   e.Expected,
		Suggestion: e.Suggestion,
		Context:    e.Context,
	}
}

func countInvalid(results []LintResult) int {
	n := 0
	for _, r := range results {
		if !r.Valid {
			n++
		}
	}
	return n
}

// RenderText implements cli.TextRenderer.
func (r *lintReport) RenderText(w io.Writer) error {
	totalErrors, totalWarnings := 0, 0

	for _, result := range r.results {
		fmt.Fprintf(w, "Linting %s...\n", result.File)

		if len(result.Errors) == 0 {
			fmt.Fprintf(w, "✓ Parses (%d entities, %d brushes)\n", result.Entities, result.Brushes)
		}
		if len(result.Errors) == 0 && len(result.Warnings) == 0 {
			fmt.Fprintln(w, "✓ No lint findings")
		}

		for _, f := range result.Errors {
			fmt.Fprintf(w, "✗ Error: %s%s [%s]\n", f.Message, position(f), f.Type)
			r.writeDetail(w, f)
			totalErrors++
		}
		for _, f := range result.Warnings {
			fmt.Fprintf(w, "⚠  Warning: %s%s\n", f.Message, position(f))
			r.writeDetail(w, f)
			totalWarnings++
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d file(s), %d error(s), %d warning(s)\n", len(r.results), totalErrors, totalWarnings)
	if r.strict {
		fmt.Fprintln(w, "  Strict mode enabled: warnings are reported as errors")
	}
	return nil
}

func (r *lintReport) writeDetail(w io.Writer, f Finding) {
	if r.showContext && f.Context != "" {
		for _, line := range strings.Split(strings.TrimRight(f.Context, "\n"), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	if f.Suggestion != "" {
		fmt.Fprintf(w, "    suggestion: %s\n", f.Suggestion)
	}
}

func position(f Finding) string {
	if f.Line == 0 {
		return ""
	}
	if f.Column == 0 {
		return fmt.Sprintf(" (line %d)", f.Line)
	}
	return fmt.Sprintf(" (line %d, col %d)", f.Line, f.Column)
}
