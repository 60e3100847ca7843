package errors

import (
	"fmt"
	"strings"

	"mercator-hq/valvemap/pkg/mapfile/ast"
)

// ErrorType categorizes the type of error encountered during parsing or validation.
type ErrorType string

const (
	ErrorTypeMalformedToken   ErrorType = "malformed_token"   // Number, string or name does not match its grammar
	ErrorTypeMissingDelimiter ErrorType = "missing_delimiter" // Expected { } ( ) [ ] is absent
	ErrorTypeUnexpectedEOF    ErrorType = "unexpected_eof"    // Input ends mid-construct
	ErrorTypeTrailingContent  ErrorType = "trailing_content"  // Non-whitespace after the last entity
	ErrorTypeSemantic         ErrorType = "semantic"          // Lint finding on a parsed document
	ErrorTypeIO               ErrorType = "io"                // File I/O error
)

// IsSyntax returns true for the error types produced by the parser grammar.
func (t ErrorType) IsSyntax() bool {
	switch t {
	case ErrorTypeMalformedToken, ErrorTypeMissingDelimiter, ErrorTypeUnexpectedEOF, ErrorTypeTrailingContent:
		return true
	}
	return false
}

// Severity distinguishes lint findings that fail a check from advisory ones.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error represents a rich error with location, context, and suggestions.
// Parse failures always carry the byte Offset of the failure and the
// construct that was Expected there.
type Error struct {
	Type       ErrorType    // Category of error
	Severity   Severity     // Empty is treated as SeverityError
	Message    string       // Error message
	Expected   string       // Construct expected at the failure point (parse errors)
	Offset     int          // Byte offset into the source
	Location   ast.Location // Source location (file, line, column)
	Context    string       // Surrounding lines of code
	Suggestion string       // Suggested fix (optional)
}

// IsWarning returns true if the error is advisory.
func (e *Error) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// Error implements the error interface.
// It returns a formatted error message with location and context.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s (offset %d)\n", e.Location.String(), e.Offset))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// ErrorList represents a collection of errors encountered during validation.
// It allows accumulating multiple errors instead of failing on the first error.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error with the given parameters.
func (el *ErrorList) AddError(errType ErrorType, message string, location ast.Location) {
	el.Add(&Error{
		Type:     errType,
		Severity: SeverityError,
		Message:  message,
		Offset:   location.Offset,
		Location: location,
	})
}

// AddWarning creates and adds a new advisory finding.
func (el *ErrorList) AddWarning(errType ErrorType, message string, location ast.Location) {
	el.Add(&Error{
		Type:     errType,
		Severity: SeverityWarning,
		Message:  message,
		Offset:   location.Offset,
		Location: location,
	})
}

// AddErrorWithSuggestion creates and adds a new error with a suggestion.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, severity Severity, message string, location ast.Location, suggestion string) {
	el.Add(&Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Offset:     location.Offset,
		Location:   location,
		Suggestion: suggestion,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
// It returns all errors formatted as a single string.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", el.Count()))

	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the error list is empty, otherwise returns the error list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// Warnings returns the advisory findings in the list.
func (el *ErrorList) Warnings() []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.IsWarning() {
			result = append(result, err)
		}
	}
	return result
}

// Failures returns the findings that are not warnings.
func (el *ErrorList) Failures() []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if !err.IsWarning() {
			result = append(result, err)
		}
	}
	return result
}

// HasFailures returns true if at least one finding is not a warning.
func (el *ErrorList) HasFailures() bool {
	return len(el.Failures()) > 0
}

// HasErrorType returns true if the error list contains at least one error of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
