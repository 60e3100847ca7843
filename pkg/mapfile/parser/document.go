package parser

import (
	"strings"

	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

const utf8BOM = "\xef\xbb\xbf"

// grammar holds the read-only state shared by one parse: the source file
// name, its line index and the parse options. The grammar functions never
// modify it.
type grammar struct {
	file            string
	lines           *mapErrors.LineIndex
	stripEditorKeys bool
}

func (g *grammar) location(offset int) ast.Location {
	return g.lines.Location(g.file, offset)
}

// document parses the whole input: ws* (entity ws*)* end-of-input.
// Anything left over is reported as trailing content at its first byte.
func (g *grammar) document(src string) (*ast.Document, *failure) {
	c := cursor{src: src}
	if strings.HasPrefix(src, utf8BOM) {
		c = c.advance(len(utf8BOM))
	}
	c = skipSpace(c)

	doc := &ast.Document{SourceFile: g.file}
	for !c.eof() {
		if c.peek() != '{' {
			return nil, &failure{
				pos:      c.pos,
				kind:     mapErrors.ErrorTypeTrailingContent,
				expected: "'{' to start entity or end of input",
				message:  "unexpected " + c.describe() + " after last entity",
			}
		}

		var (
			entity ast.Entity
			f      *failure
		)
		if c, entity, f = g.entity(c); f != nil {
			return nil, f
		}
		doc.Entities = append(doc.Entities, entity)

		c = skipSpace(c)
	}

	return doc, nil
}
