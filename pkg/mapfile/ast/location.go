package ast

import "fmt"

// Location represents the source location of a node in the original map file.
// Offset is the byte offset into the source; Line and Column are derived from it.
type Location struct {
	File   string // Path to the map file
	Offset int    // Byte offset (0-based)
	Line   int    // Line number (1-based)
	Column int    // Column number in bytes (1-based)
}

// String returns a human-readable representation of the location.
// Format: "file:line:column"
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has valid file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}
