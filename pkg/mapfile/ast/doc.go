// Package ast provides the in-memory representation of a parsed Valve/Quake
// .map file.
//
// The tree is strictly hierarchical and held by value:
//
//	Document -> []Entity -> []Brush -> []Face -> Plane + Alignment
//
// Every Entity, Brush and Face carries the Location it was parsed from.
//
// # Core Types
//
// Document: ordered entities; the first is conventionally worldspawn
//
// Entity: key/value Properties plus zero or more brushes
//
// Brush: ordered faces bounding a convex volume
//
// Face: a Plane (three points), a texture name and an Alignment
//
// Alignment: StandardAlignment (offset/rotation/scale) or ValveAlignment
// (explicit U/V axes). Switch on the concrete type:
//
//	switch a := face.Alignment.(type) {
//	case ast.StandardAlignment:
//	    fmt.Println("offset", a.Offset, "rotation", a.Rotation)
//	case ast.ValveAlignment:
//	    fmt.Println("u", a.U.Direction, "v", a.V.Direction)
//	}
//
// # Traversal
//
// Walk visits entities, brushes and faces in file order:
//
//	err := ast.Walk(doc, myVisitor)
//
// Stats and TextureNames are built on the same traversal.
package ast
