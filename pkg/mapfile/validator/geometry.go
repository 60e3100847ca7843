package validator

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

// GeometryValidator checks face planes and texture alignment values.
// Findings here never stop a map from loading in an editor, so everything
// except degenerate planes is a warning.
type GeometryValidator struct {
	errors *mapErrors.ErrorList
	entity int
	brush  int
}

// NewGeometryValidator creates a new geometry validator.
func NewGeometryValidator() *GeometryValidator {
	return &GeometryValidator{
		errors: mapErrors.NewErrorList(),
	}
}

// Validate performs geometry validation on a document.
func (v *GeometryValidator) Validate(doc *ast.Document) error {
	return v.Check(doc).ToError()
}

// Check performs geometry validation and returns the findings.
func (v *GeometryValidator) Check(doc *ast.Document) *mapErrors.ErrorList {
	v.errors = mapErrors.NewErrorList()
	_ = ast.Walk(doc, v)
	return v.errors
}

func (v *GeometryValidator) VisitEntity(index int, _ *ast.Entity) error {
	v.entity = index
	return nil
}

func (v *GeometryValidator) VisitBrush(_ *ast.Entity, index int, brush *ast.Brush) error {
	v.brush = index

	var first ast.Dialect
	for i := range brush.Faces {
		dialect := brush.Faces[i].Dialect()
		if i == 0 {
			first = dialect
			continue
		}
		if dialect != first {
			v.errors.AddWarning(
				mapErrors.ErrorTypeSemantic,
				fmt.Sprintf("entity %d brush %d mixes %s and %s faces", v.entity, index, first, dialect),
				brush.Location,
			)
			break
		}
	}
	return nil
}

func (v *GeometryValidator) VisitFace(_ *ast.Brush, index int, face *ast.Face) error {
	where := fmt.Sprintf("entity %d brush %d face %d", v.entity, v.brush, index)

	if face.Plane.IsDegenerate() {
		v.errors.AddError(
			mapErrors.ErrorTypeSemantic,
			fmt.Sprintf("%s has a degenerate plane %v %v %v", where,
				face.Plane.Points[0], face.Plane.Points[1], face.Plane.Points[2]),
			face.Location,
		)
	}

	var scale mgl64.Vec2
	switch a := face.Alignment.(type) {
	case ast.StandardAlignment:
		scale = a.Scale
	case ast.ValveAlignment:
		scale = a.Scale
		if a.U.Direction.Len() == 0 {
			v.errors.AddWarning(mapErrors.ErrorTypeSemantic, where+" has a zero-length U axis", face.Location)
		}
		if a.V.Direction.Len() == 0 {
			v.errors.AddWarning(mapErrors.ErrorTypeSemantic, where+" has a zero-length V axis", face.Location)
		}
	default:
		return nil
	}

	if scale.X() == 0 || scale.Y() == 0 {
		v.errors.AddWarning(
			mapErrors.ErrorTypeSemantic,
			fmt.Sprintf("%s has texture scale %g %g, the texture will not be drawn", where, scale.X(), scale.Y()),
			face.Location,
		)
	}
	return nil
}
