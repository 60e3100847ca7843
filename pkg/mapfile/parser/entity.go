package parser

import (
	"strings"

	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

// editorKeyPrefix marks TrenchBroom bookkeeping properties (layers, groups).
const editorKeyPrefix = "_tb_"

// property parses a "key" "value" pair.
func property(c cursor) (cursor, string, string, *failure) {
	c, key, f := quotedString(c)
	if f != nil {
		return c, "", "", f
	}
	if c, f = requireSpace(c, "property key"); f != nil {
		return c, "", "", f
	}
	c, value, f := quotedString(c)
	if f != nil {
		return c, "", "", f
	}
	return c, key, value, nil
}

// entity parses "{ (property | brush)* }". Properties and brushes may be
// interleaved in any order; brushes keep their file order.
func (g *grammar) entity(c cursor) (cursor, ast.Entity, *failure) {
	start := c.pos

	c, f := expectByte(c, '{', "'{' to start entity")
	if f != nil {
		return c, ast.Entity{}, f
	}
	c = skipSpace(c)

	entity := ast.Entity{
		Properties: make(ast.Properties),
		Location:   g.location(start),
	}

	for {
		switch c.peek() {
		case '"':
			var key, value string
			if c, key, value, f = property(c); f != nil {
				return c, ast.Entity{}, f
			}
			if g.stripEditorKeys && strings.HasPrefix(key, editorKeyPrefix) {
				break
			}
			entity.Properties[key] = value

		case '{':
			var brush ast.Brush
			if c, brush, f = g.brush(c); f != nil {
				return c, ast.Entity{}, f
			}
			entity.Brushes = append(entity.Brushes, brush)

		case '}':
			return c.advance(1), entity, nil

		default:
			return c, ast.Entity{}, c.fail(mapErrors.ErrorTypeMalformedToken, "property, brush or '}' to close entity")
		}

		c = skipSpace(c)
	}
}
