// Package errors provides rich error types for .map parsing and linting.
//
// Every error carries the byte offset it refers to, the line and column
// derived from that offset, and optionally a few surrounding source lines.
//
// # Error Types
//
// ErrorTypeMalformedToken: a number, quoted string or texture name does not
// match its grammar
//
// ErrorTypeMissingDelimiter: an expected brace, parenthesis or bracket is absent
//
// ErrorTypeUnexpectedEOF: the input ends in the middle of a construct
//
// ErrorTypeTrailingContent: non-whitespace bytes follow the last entity
//
// ErrorTypeSemantic: lint findings on a parsed document
//
// ErrorTypeIO: file access errors
//
// # Basic Usage
//
// Recover the position of a parse failure:
//
//	doc, err := parser.NewParser().ParseString(src, "e1m1.map")
//	var perr *errors.Error
//	if stderrors.As(err, &perr) {
//	    fmt.Println(perr.Location.Line, perr.Location.Column, perr.Expected)
//	}
//
// # Error Format
//
//	[missing_delimiter] expected ')' to close point
//	  --> e1m1.map:12:27 (offset 318)
//	  |
//	  11 | {
//	->12 | ( -64 -64 -16 ) ( -64 -63 -16 ( -64 -64 -15 ) __TB_empty 0 0 0 1 1
//	     |                           ^
//	  13 | }
//	  |
package errors
