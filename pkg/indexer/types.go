package indexer

import (
	"context"
	"fmt"
	"time"

	"mercator-hq/valvemap/pkg/catalog"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

// Catalog is the subset of the catalog store the indexer writes to.
type Catalog interface {
	Upsert(ctx context.Context, rec *catalog.MapRecord) error
	Fingerprint(ctx context.Context, path string) (string, error)
	Remove(ctx context.Context, path string) (bool, error)
	Paths(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// Progress receives per-file progress during a run.
type Progress interface {
	Start(total int)
	Update(current int)
	Finish()
}

// Outcome describes what happened to one file during a run.
type Outcome string

const (
	OutcomeIndexed   Outcome = "indexed"   // Parsed (or failed to parse) and written to the catalog
	OutcomeUnchanged Outcome = "unchanged" // Content hash matches the catalog, nothing written
	OutcomeFailed    Outcome = "failed"    // Could not be read or catalogued
	OutcomeRemoved   Outcome = "removed"   // File is gone and its catalog entry was deleted
)

// Trigger values recorded with each run.
const (
	TriggerCLI      = "cli"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
	TriggerSource   = "source"
)

// FileResult is the result of indexing one file.
type FileResult struct {
	Path     string             `json:"path" yaml:"path"`
	Outcome  Outcome            `json:"outcome" yaml:"outcome"`
	Record   *catalog.MapRecord `json:"record,omitempty" yaml:"record,omitempty"`
	Findings []*mapErrors.Error `json:"-" yaml:"-"`
	Err      error              `json:"-" yaml:"-"`
	Error    string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report summarizes one index run.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Trigger   string        `json:"trigger" yaml:"trigger"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Files     []FileResult  `json:"files" yaml:"files"`

	Indexed   int `json:"indexed" yaml:"indexed"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Failed    int `json:"failed" yaml:"failed"`
	Removed   int `json:"removed" yaml:"removed"`

	// ParseErrors counts indexed files whose content did not parse.
	ParseErrors int `json:"parse_errors" yaml:"parse_errors"`
}

func (r *Report) add(res FileResult) {
	if res.Err != nil && res.Error == "" {
		res.Error = res.Err.Error()
	}
	r.Files = append(r.Files, res)

	switch res.Outcome {
	case OutcomeIndexed:
		r.Indexed++
		if res.Record != nil && res.Record.Failed() {
			r.ParseErrors++
		}
	case OutcomeUnchanged:
		r.Unchanged++
	case OutcomeFailed:
		r.Failed++
	case OutcomeRemoved:
		r.Removed++
	}
}

// IndexError reports a file the indexer could not process.
type IndexError struct {
	Path string // File being indexed
	Op   string // Step that failed ("stat", "read", "catalog", ...)
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s: %s: %v", e.Path, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *IndexError) Unwrap() error {
	return e.Err
}
