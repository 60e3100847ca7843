package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys. Map attributes use the "valvemap.*" namespace.
const (
	AttrRunID   = "valvemap.run.id"
	AttrTrigger = "valvemap.run.trigger"
	AttrPaths   = "valvemap.run.paths"

	AttrIndexed     = "valvemap.run.indexed"
	AttrUnchanged   = "valvemap.run.unchanged"
	AttrFailed      = "valvemap.run.failed"
	AttrRemoved     = "valvemap.run.removed"
	AttrParseErrors = "valvemap.run.parse_errors"

	AttrMapPath    = "valvemap.map.path"
	AttrMapSize    = "valvemap.map.size_bytes"
	AttrMapDialect = "valvemap.map.dialect"
	AttrEntities   = "valvemap.map.entities"
	AttrBrushes    = "valvemap.map.brushes"
	AttrFaces      = "valvemap.map.faces"
	AttrOutcome    = "valvemap.index.outcome"

	AttrLintErrors   = "valvemap.lint.errors"
	AttrLintWarnings = "valvemap.lint.warnings"

	AttrParseErrorType = "valvemap.parse.error_type"
	AttrErrorMessage   = "error.message"

	AttrRequestID = "valvemap.request_id"
)

// RunSummary is the outcome of an index run, recorded on its span.
type RunSummary struct {
	Indexed, Unchanged, Failed, Removed, ParseErrors int
}

// SetRunAttributes sets the identity of an index run on its span.
func SetRunAttributes(span trace.Span, runID, trigger string, paths int) {
	span.SetAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrTrigger, trigger),
		attribute.Int(AttrPaths, paths),
	)
}

// SetRunSummary sets the per-outcome file counts of a finished run.
func SetRunSummary(span trace.Span, s RunSummary) {
	span.SetAttributes(
		attribute.Int(AttrIndexed, s.Indexed),
		attribute.Int(AttrUnchanged, s.Unchanged),
		attribute.Int(AttrFailed, s.Failed),
		attribute.Int(AttrRemoved, s.Removed),
		attribute.Int(AttrParseErrors, s.ParseErrors),
	)
}

// SetMapAttributes sets what was parsed from a map file.
func SetMapAttributes(span trace.Span, dialect string, entities, brushes, faces int) {
	span.SetAttributes(
		attribute.String(AttrMapDialect, dialect),
		attribute.Int(AttrEntities, entities),
		attribute.Int(AttrBrushes, brushes),
		attribute.Int(AttrFaces, faces),
	)
}

// SetLintAttributes sets lint finding counts.
func SetLintAttributes(span trace.Span, errors, warnings int) {
	span.SetAttributes(
		attribute.Int(AttrLintErrors, errors),
		attribute.Int(AttrLintWarnings, warnings),
	)
}

// SetParseError records a map that did not parse. A parse failure is a
// property of the file, not a failure of the span, so the status is left
// unset.
func SetParseError(span trace.Span, errorType, message string) {
	span.SetAttributes(attribute.String(AttrParseErrorType, errorType))
	span.AddEvent("parse_error", trace.WithAttributes(
		attribute.String(AttrParseErrorType, errorType),
		attribute.String(AttrErrorMessage, message),
	))
}
