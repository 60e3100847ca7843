// Valvemap parses, lints and catalogs Valve/Quake .map level files.
//
// It reads the text .map format written by TrenchBroom, J.A.C.K. and
// Hammer (Quake 1/2 standard texture alignment and Half-Life Valve 220
// alignment) and provides:
//   - Syntax checking with line/column diagnostics
//   - Lint passes for open brushes, degenerate planes and bad texture scales
//   - A SQLite catalog of map contents (textures, entity classes, counts)
//   - A watch mode that re-indexes maps as they are saved
//
// Usage:
//
//	# Check maps for syntax and lint errors
//	valvemap lint maps/
//
//	# Show the structure of a map
//	valvemap inspect maps/start.map --format yaml
//
//	# Index a directory into the catalog
//	valvemap index maps/
//
//	# Find maps that use a texture
//	valvemap catalog list --texture CRATE1
//
//	# Re-index on change and serve metrics
//	valvemap watch --config valvemap.yaml
package main

import (
	"os"

	"mercator-hq/valvemap/pkg/cli"
)

func main() {
	os.Exit(cli.ExitCode(Execute()))
}
