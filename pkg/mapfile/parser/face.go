package parser

import (
	"github.com/go-gl/mathgl/mgl64"

	"mercator-hq/valvemap/pkg/mapfile/ast"
)

// face parses one brush face:
//
//	plane texture offX offY rotation scaleX scaleY
//	plane texture [ ux uy uz uoff ] [ vx vy vz voff ] rotation scaleX scaleY
//
// The dialect is chosen by peeking for '[' after the texture name.
func (g *grammar) face(c cursor) (cursor, ast.Face, *failure) {
	start := c.pos

	c, pl, f := plane(c)
	if f != nil {
		return c, ast.Face{}, f
	}

	c = skipSpace(c)
	c, texture, f := bareToken(c, "texture name")
	if f != nil {
		return c, ast.Face{}, f
	}
	if c, f = requireSpace(c, "texture name"); f != nil {
		return c, ast.Face{}, f
	}

	var alignment ast.Alignment
	if c.peek() == '[' {
		c, alignment, f = valveAlignment(c)
	} else {
		c, alignment, f = standardAlignment(c)
	}
	if f != nil {
		return c, ast.Face{}, f
	}

	return c, ast.Face{
		Plane:     pl,
		Texture:   texture,
		Alignment: alignment,
		Location:  g.location(start),
	}, nil
}

func standardAlignment(c cursor) (cursor, ast.Alignment, *failure) {
	var v [5]float64
	c, f := numbers(c, v[:], "texture alignment value")
	if f != nil {
		return c, nil, f
	}
	return c, ast.StandardAlignment{
		Offset:   mgl64.Vec2{v[0], v[1]},
		Rotation: v[2],
		Scale:    mgl64.Vec2{v[3], v[4]},
	}, nil
}

func valveAlignment(c cursor) (cursor, ast.Alignment, *failure) {
	c, u, f := uvAxis(c)
	if f != nil {
		return c, nil, f
	}
	c = skipSpace(c)
	c, v, f := uvAxis(c)
	if f != nil {
		return c, nil, f
	}
	c = skipSpace(c)

	var rs [3]float64
	if c, f = numbers(c, rs[:], "texture alignment value"); f != nil {
		return c, nil, f
	}
	return c, ast.ValveAlignment{
		U:        u,
		V:        v,
		Rotation: rs[0],
		Scale:    mgl64.Vec2{rs[1], rs[2]},
	}, nil
}
