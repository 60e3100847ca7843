package parser

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

// tuple parses open ws* number (ws+ number){n-1} ws* close into dst.
// A group closed early reports how many components it had.
func tuple(c cursor, open, close byte, dst []float64, what string) (cursor, *failure) {
	c, f := expectByte(c, open, fmt.Sprintf("'%c' to start %s", open, what))
	if f != nil {
		return c, f
	}
	c = skipSpace(c)

	for i := range dst {
		if i > 0 {
			next := skipSpace(c)
			if next.peek() == close {
				return c, &failure{
					pos:      next.pos,
					kind:     mapErrors.ErrorTypeMalformedToken,
					expected: fmt.Sprintf("%d numbers in %s", len(dst), what),
					message:  fmt.Sprintf("%s has %d numbers, expected %d", what, i, len(dst)),
				}
			}
			if c, f = requireSpace(c, "number"); f != nil {
				return c, f
			}
		}

		var v float64
		if c, v, f = number(c); f != nil {
			return c, f
		}
		dst[i] = v
	}

	c = skipSpace(c)
	return expectByte(c, close, fmt.Sprintf("'%c' to close %s", close, what))
}

// point parses "( x y z )".
func point(c cursor) (cursor, mgl64.Vec3, *failure) {
	var v [3]float64
	c, f := tuple(c, '(', ')', v[:], "point")
	return c, mgl64.Vec3(v), f
}

// uvAxis parses "[ x y z offset ]".
func uvAxis(c cursor) (cursor, ast.UVAxis, *failure) {
	var v [4]float64
	c, f := tuple(c, '[', ']', v[:], "texture axis")
	if f != nil {
		return c, ast.UVAxis{}, f
	}
	return c, ast.UVAxis{
		Direction: mgl64.Vec3{v[0], v[1], v[2]},
		Offset:    v[3],
	}, nil
}

// plane parses three points. Whitespace between them is optional.
func plane(c cursor) (cursor, ast.Plane, *failure) {
	var p ast.Plane
	for i := range p.Points {
		if i > 0 {
			c = skipSpace(c)
		}
		var f *failure
		if c, p.Points[i], f = point(c); f != nil {
			return c, ast.Plane{}, f
		}
	}
	return c, p, nil
}

// numbers parses n numbers separated by mandatory whitespace.
func numbers(c cursor, dst []float64, what string) (cursor, *failure) {
	var f *failure
	for i := range dst {
		if i > 0 {
			if c, f = requireSpace(c, what); f != nil {
				return c, f
			}
		}
		if c, dst[i], f = number(c); f != nil {
			return c, f
		}
	}
	return c, nil
}
