package validator

import (
	"fmt"

	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

const (
	// minBrushFaces is the smallest number of planes that can bound a closed volume.
	minBrushFaces = 4

	worldspawnClass = "worldspawn"
)

// StructuralValidator checks the entity layout of a document: required
// properties, worldspawn placement and brush face counts.
type StructuralValidator struct {
	errors *mapErrors.ErrorList
	entity int
}

// NewStructuralValidator creates a new structural validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{
		errors: mapErrors.NewErrorList(),
	}
}

// Validate performs structural validation on a document.
// It returns an ErrorList containing all structural findings.
func (v *StructuralValidator) Validate(doc *ast.Document) error {
	return v.Check(doc).ToError()
}

// Check performs structural validation and returns the findings.
func (v *StructuralValidator) Check(doc *ast.Document) *mapErrors.ErrorList {
	v.errors = mapErrors.NewErrorList()
	// Visitor methods never fail
	_ = ast.Walk(doc, v)
	return v.errors
}

func (v *StructuralValidator) VisitEntity(index int, entity *ast.Entity) error {
	v.entity = index

	classname, ok := entity.Properties.Get("classname")
	if !ok {
		v.errors.AddErrorWithSuggestion(
			mapErrors.ErrorTypeSemantic,
			mapErrors.SeverityError,
			fmt.Sprintf("entity %d has no classname", index),
			entity.Location,
			mapErrors.SuggestMissingProperty("classname", exampleClassName(index)),
		)
		return nil
	}

	switch {
	case index == 0 && classname != worldspawnClass:
		v.errors.AddErrorWithSuggestion(
			mapErrors.ErrorTypeSemantic,
			mapErrors.SeverityWarning,
			fmt.Sprintf("first entity is %q, expected worldspawn", classname),
			entity.Location,
			mapErrors.SuggestName(classname, []string{worldspawnClass}),
		)
	case index > 0 && classname == worldspawnClass:
		v.errors.AddWarning(
			mapErrors.ErrorTypeSemantic,
			fmt.Sprintf("entity %d is a second worldspawn", index),
			entity.Location,
		)
	}

	return nil
}

func (v *StructuralValidator) VisitBrush(entity *ast.Entity, index int, brush *ast.Brush) error {
	if len(brush.Faces) < minBrushFaces {
		v.errors.AddError(
			mapErrors.ErrorTypeSemantic,
			fmt.Sprintf("entity %d brush %d has %d faces, a closed brush needs at least %d",
				v.entity, index, len(brush.Faces), minBrushFaces),
			brush.Location,
		)
	}
	return nil
}

func (v *StructuralValidator) VisitFace(*ast.Brush, int, *ast.Face) error {
	return nil
}

func exampleClassName(index int) string {
	if index == 0 {
		return worldspawnClass
	}
	return ""
}
