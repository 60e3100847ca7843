package ast

import "github.com/go-gl/mathgl/mgl64"

// Dialect identifies how a face encodes its texture alignment.
type Dialect string

const (
	DialectUnknown  Dialect = ""
	DialectStandard Dialect = "standard" // offset, rotation, scale (Quake)
	DialectValve220 Dialect = "valve220" // explicit U/V axes (Half-Life)
)

// Alignment is the texture alignment of a face. It is implemented only by
// StandardAlignment and ValveAlignment; switch on the concrete type to
// handle both dialects.
type Alignment interface {
	Dialect() Dialect
	alignment()
}

// StandardAlignment is the legacy alignment where the texture axes are
// implied by the face normal.
type StandardAlignment struct {
	Offset   mgl64.Vec2
	Rotation float64 // Degrees
	Scale    mgl64.Vec2
}

// Dialect implements Alignment.
func (StandardAlignment) Dialect() Dialect { return DialectStandard }

func (StandardAlignment) alignment() {}

// ValveAlignment is the Valve 220 alignment with explicit texture axes.
// Rotation is kept as written but is already baked into U and V.
type ValveAlignment struct {
	U        UVAxis
	V        UVAxis
	Rotation float64
	Scale    mgl64.Vec2
}

// Dialect implements Alignment.
func (ValveAlignment) Dialect() Dialect { return DialectValve220 }

func (ValveAlignment) alignment() {}

// UVAxis is one "[ x y z offset ]" group of a Valve 220 face.
type UVAxis struct {
	Direction mgl64.Vec3
	Offset    float64
}
