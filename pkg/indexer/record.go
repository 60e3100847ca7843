package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"mercator-hq/valvemap/pkg/catalog"
	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

// fingerprint returns the hex SHA-256 of a map source.
func fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// newRecord builds the catalog entry shared by parsed and unparsable files.
func newRecord(path string, data []byte, info os.FileInfo, runID string) *catalog.MapRecord {
	return &catalog.MapRecord{
		Path:      path,
		SHA256:    fingerprint(data),
		SizeBytes: info.Size(),
		ModTime:   info.ModTime().UTC(),
		RunID:     runID,
	}
}

// fillFromDocument copies document statistics and lint totals into rec.
func fillFromDocument(rec *catalog.MapRecord, doc *ast.Document, findings *mapErrors.ErrorList) {
	stats := doc.Stats()

	rec.Entities = stats.Entities
	rec.PointEntities = stats.PointEntities
	rec.SolidEntities = stats.SolidEntities
	rec.Brushes = stats.Brushes
	rec.Faces = stats.Faces
	rec.StandardFaces = stats.StandardFaces
	rec.ValveFaces = stats.ValveFaces
	rec.Dialect = dialectOf(stats)
	rec.ClassNames = stats.ClassNames

	rec.Textures = make(map[string]int, len(stats.Textures))
	for name, faces := range stats.Textures {
		if name != ast.EditorPlaceholderTexture {
			rec.Textures[name] = faces
		}
	}

	if world := doc.Worldspawn(); world != nil {
		rec.Title = world.Properties["message"]
	}

	if findings != nil {
		rec.LintErrors = len(findings.Failures())
		rec.LintWarnings = len(findings.Warnings())
	}
}

func dialectOf(stats ast.Stats) string {
	switch {
	case stats.StandardFaces > 0 && stats.ValveFaces > 0:
		return catalog.DialectMixed
	case stats.ValveFaces > 0:
		return catalog.DialectValve220
	case stats.StandardFaces > 0:
		return catalog.DialectStandard
	}
	return catalog.DialectNone
}

// parseErrorSummary renders a parse error as a single catalog line.
func parseErrorSummary(err error) string {
	var perr *mapErrors.Error
	if errors.As(err, &perr) {
		if perr.Location.Line > 0 {
			return fmt.Sprintf("[%s] %s (line %d, column %d)", perr.Type, perr.Message, perr.Location.Line, perr.Location.Column)
		}
		return fmt.Sprintf("[%s] %s", perr.Type, perr.Message)
	}
	return err.Error()
}

// parseErrorType returns the parse error type for metrics labels.
func parseErrorType(err error) string {
	var perr *mapErrors.Error
	if errors.As(err, &perr) {
		return string(perr.Type)
	}
	return "unknown"
}
