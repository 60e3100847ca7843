package errors

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/valvemap/pkg/mapfile/ast"
)

// LineIndex maps byte offsets of a source buffer to 1-based line and column
// numbers. It is built once per source and is read-only afterwards.
type LineIndex struct {
	starts []int // Byte offset of the first byte of each line
}

// NewLineIndex scans src for line breaks.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Position returns the line and column of offset. Offsets past the end of
// the source resolve to the last line.
func (li *LineIndex) Position(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	// first line whose start is beyond offset, minus one
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return i + 1, offset - li.starts[i] + 1
}

// Location builds an ast.Location for offset within file.
func (li *LineIndex) Location(file string, offset int) ast.Location {
	line, column := li.Position(offset)
	return ast.Location{
		File:   file,
		Offset: offset,
		Line:   line,
		Column: column,
	}
}

// ExtractContext extracts the lines surrounding location from src for
// error display. It returns a formatted string with line numbers and a
// caret under the failing column.
func ExtractContext(src string, location ast.Location, contextLines int) string {
	if location.Line <= 0 {
		return ""
	}

	lines := strings.Split(src, "\n")

	errorLine := location.Line - 1 // Convert to 0-based index
	if errorLine >= len(lines) {
		return ""
	}
	startLine := errorLine - contextLines
	endLine := errorLine + contextLines

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		lineNumStr := fmt.Sprintf("%*d", maxLineNumWidth, i+1)
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}

		sb.WriteString(fmt.Sprintf("%s %s | %s\n", prefix, lineNumStr, strings.TrimRight(lines[i], "\r")))

		if i == errorLine && location.Column > 0 {
			padding := strings.Repeat(" ", location.Column-1)
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", maxLineNumWidth), padding))
		}
	}

	return sb.String()
}

// WithContext fills err.Context from src.
func WithContext(err *Error, src string, contextLines int) *Error {
	if err.Location.Line > 0 {
		err.Context = ExtractContext(src, err.Location, contextLines)
	}
	return err
}

// AddContextToError adds two lines of context either side of the error.
func AddContextToError(err *Error, src string) *Error {
	return WithContext(err, src, 2)
}
