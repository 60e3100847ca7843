package parser

import (
	"fmt"
	"os"

	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

// DefaultMaxFileSize is the default input size limit (64MB).
const DefaultMaxFileSize = 64 * 1024 * 1024

// Parser parses .map files into Documents.
// A Parser only holds configuration; it is safe for concurrent use.
type Parser struct {
	maxFileSize int64 // Maximum input size in bytes (default: 64MB)
	editorKeys  bool  // Keep _tb_* editor properties (default: true)
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: DefaultMaxFileSize,
		editorKeys:  true,
	}
}

// WithMaxFileSize sets the maximum input size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithEditorKeys controls whether TrenchBroom "_tb_" properties are kept.
func (p *Parser) WithEditorKeys(keep bool) *Parser {
	p.editorKeys = keep
	return p
}

// MaxFileSize returns the configured input size limit.
func (p *Parser) MaxFileSize() int64 {
	return p.maxFileSize
}

// Parse parses the map file at path.
// It returns an error if the file cannot be read, is larger than the size
// limit, or does not parse. No partial Document is ever returned.
func (p *Parser) Parse(path string) (*ast.Document, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &mapErrors.Error{
			Type:    mapErrors.ErrorTypeIO,
			Message: fmt.Sprintf("Failed to access file: %v", err),
			Location: ast.Location{
				File: path,
			},
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &mapErrors.Error{
			Type:    mapErrors.ErrorTypeIO,
			Message: fmt.Sprintf("File size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{
				File: path,
			},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mapErrors.Error{
			Type:    mapErrors.ErrorTypeIO,
			Message: fmt.Sprintf("Failed to read file: %v", err),
			Location: ast.Location{
				File: path,
			},
		}
	}

	return p.ParseString(string(data), path)
}

// ParseBytes parses map source held in memory.
// sourcePath is only used for locations in the Document and in errors.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ast.Document, error) {
	return p.ParseString(string(data), sourcePath)
}

// ParseString parses map source held in memory.
func (p *Parser) ParseString(src string, sourcePath string) (*ast.Document, error) {
	if int64(len(src)) > p.maxFileSize {
		return nil, &mapErrors.Error{
			Type:    mapErrors.ErrorTypeIO,
			Message: fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(src), p.maxFileSize),
			Location: ast.Location{
				File: sourcePath,
			},
		}
	}

	g := &grammar{
		file:            sourcePath,
		lines:           mapErrors.NewLineIndex(src),
		stripEditorKeys: !p.editorKeys,
	}

	doc, f := g.document(src)
	if f != nil {
		return nil, g.toError(f, src)
	}
	return doc, nil
}

// toError converts a failure into a located error with source context.
func (g *grammar) toError(f *failure, src string) *mapErrors.Error {
	err := &mapErrors.Error{
		Type:     f.kind,
		Severity: mapErrors.SeverityError,
		Message:  f.message,
		Expected: f.expected,
		Offset:   f.pos,
		Location: g.location(f.pos),
	}
	return mapErrors.AddContextToError(err, src)
}
