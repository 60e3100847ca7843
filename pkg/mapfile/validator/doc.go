// Package validator lints parsed map documents.
//
// The parser accepts anything that matches the grammar, including brushes
// that cannot close a volume and planes whose points are collinear. The
// validator reports such problems after the fact:
//
//   - Structural: every entity needs a classname, the first entity should be
//     worldspawn and no other entity should be, and a brush needs at least
//     four faces.
//   - Geometry: planes must not be degenerate, texture scales should be
//     non-zero, Valve 220 texture axes should have a direction, and a brush
//     should not mix alignment dialects.
//
// Each finding is an *errors.Error with Type ErrorTypeSemantic and a
// Severity. Strict mode upgrades every warning to an error:
//
//	v := validator.NewValidator().WithStrict(true)
//	if err := v.Validate(doc); err != nil {
//	    var findings *errors.ErrorList
//	    if errors.As(err, &findings) && findings.HasFailures() {
//	        // ...
//	    }
//	}
package validator
