package validator

import (
	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
)

// Validator is the main validator that orchestrates all lint passes.
// It runs structural and geometry checks and returns their findings together.
type Validator struct {
	structural *StructuralValidator
	geometry   *GeometryValidator
	strict     bool
}

// NewValidator creates a new validator with all lint passes.
func NewValidator() *Validator {
	return &Validator{
		structural: NewStructuralValidator(),
		geometry:   NewGeometryValidator(),
	}
}

// WithStrict makes warnings count as errors.
func (v *Validator) WithStrict(strict bool) *Validator {
	v.strict = strict
	return v
}

// Strict reports whether warnings are upgraded to errors.
func (v *Validator) Strict() bool {
	return v.strict
}

// Validate runs all lint passes on a document.
// It returns nil when nothing was found, otherwise an *errors.ErrorList
// holding warnings and errors in document order per pass.
func (v *Validator) Validate(doc *ast.Document) error {
	findings := v.Check(doc)
	return findings.ToError()
}

// Check runs all lint passes and always returns the (possibly empty) list.
func (v *Validator) Check(doc *ast.Document) *mapErrors.ErrorList {
	findings := mapErrors.NewErrorList()

	findings.Errors = append(findings.Errors, v.structural.Check(doc).Errors...)
	findings.Errors = append(findings.Errors, v.geometry.Check(doc).Errors...)

	if v.strict {
		for _, finding := range findings.Errors {
			finding.Severity = mapErrors.SeverityError
		}
	}

	return findings
}

// ValidateStructural runs only the structural pass.
func (v *Validator) ValidateStructural(doc *ast.Document) error {
	return v.structural.Check(doc).ToError()
}

// ValidateGeometry runs only the geometry pass.
func (v *Validator) ValidateGeometry(doc *ast.Document) error {
	return v.geometry.Check(doc).ToError()
}
