// Package mapfile parses and lints Valve/Quake .map level files.
//
// A .map file is a sequence of entities. Each entity carries quoted
// key/value properties and optionally brushes; each brush is a list of
// faces, and each face is a plane given by three points, a texture name and
// texture alignment values in either the Standard (Quake) or the Valve 220
// (Half-Life) dialect.
//
// # Architecture
//
// The package is organized into subpackages:
//
// - ast: the parsed document tree, plane math, traversal and statistics
// - parser: the grammar and the Parser front end
// - validator: lint passes (structural, geometry)
// - errors: located errors with source context and suggestions
//
// # Basic Usage
//
//	doc, err := mapfile.Parse("maps/e1m1.map")
//	if err != nil {
//	    var perr *errors.Error
//	    if errors.As(err, &perr) {
//	        fmt.Println(perr.Location, perr.Expected)
//	    }
//	    log.Fatal(err)
//	}
//
//	for _, entity := range doc.Entities {
//	    fmt.Println(entity.ClassName(), len(entity.Brushes))
//	}
//
// Lint a parsed document:
//
//	for _, finding := range mapfile.Lint(doc, false).Errors {
//	    fmt.Println(finding.Severity, finding.Message)
//	}
package mapfile
