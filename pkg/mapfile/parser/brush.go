package parser

import (
	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

// brush parses "{ face+ }".
func (g *grammar) brush(c cursor) (cursor, ast.Brush, *failure) {
	start := c.pos

	c, f := expectByte(c, '{', "'{' to start brush")
	if f != nil {
		return c, ast.Brush{}, f
	}
	c = skipSpace(c)

	if c.peek() == '}' {
		return c, ast.Brush{}, &failure{
			pos:      c.pos,
			kind:     mapErrors.ErrorTypeMissingDelimiter,
			expected: "'(' to start face",
			message:  "brush has no faces",
		}
	}

	var faces []ast.Face
	for {
		var face ast.Face
		if c, face, f = g.face(c); f != nil {
			return c, ast.Brush{}, f
		}
		faces = append(faces, face)

		c = skipSpace(c)
		switch c.peek() {
		case '}':
			return c.advance(1), ast.Brush{Faces: faces, Location: g.location(start)}, nil
		case '(':
			continue
		default:
			return c, ast.Brush{}, c.fail(mapErrors.ErrorTypeMissingDelimiter, "'(' to start face or '}' to close brush")
		}
	}
}
