package ast

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// degenerateEpsilon is the squared cross-product length under which the
// three plane points are treated as collinear.
const degenerateEpsilon = 1e-12

// Brush is a convex volume bounded by the half-spaces of its faces.
// A closed brush needs at least four faces; the parser does not enforce it.
type Brush struct {
	Faces    []Face
	Location Location
}

// Face is one boundary plane of a brush together with its texturing.
type Face struct {
	Plane     Plane
	Texture   string    // Texture name as written, never validated
	Alignment Alignment // StandardAlignment or ValveAlignment
	Location  Location
}

// Dialect returns the texture alignment dialect the face was written in.
func (f *Face) Dialect() Dialect {
	if f.Alignment == nil {
		return DialectUnknown
	}
	return f.Alignment.Dialect()
}

// Plane is defined by three points in the order they appear in the file.
// Their winding determines which side of the plane faces outward.
type Plane struct {
	Points [3]mgl64.Vec3
}

// Normal returns the unit normal of the plane using the Quake winding
// convention, (p2-p0) x (p1-p0). Degenerate planes return the zero vector.
func (p Plane) Normal() mgl64.Vec3 {
	v0v1 := p.Points[1].Sub(p.Points[0])
	v0v2 := p.Points[2].Sub(p.Points[0])
	n := v0v2.Cross(v0v1)
	if n.Dot(n) < degenerateEpsilon {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

// Dist returns the signed distance of the plane from the origin along its normal.
func (p Plane) Dist() float64 {
	return p.Normal().Dot(p.Points[0])
}

// IsDegenerate returns true if the points are coincident or collinear, or if
// any coordinate is not a finite number.
func (p Plane) IsDegenerate() bool {
	for _, point := range p.Points {
		for _, c := range point {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return true
			}
		}
	}
	n := p.Points[2].Sub(p.Points[0]).Cross(p.Points[1].Sub(p.Points[0]))
	return n.Dot(n) < degenerateEpsilon
}
