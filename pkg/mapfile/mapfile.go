package mapfile

import (
	"mercator-hq/valvemap/pkg/mapfile/ast"
	mapErrors "mercator-hq/valvemap/pkg/mapfile/errors"
	"mercator-hq/valvemap/pkg/mapfile/parser"
	"mercator-hq/valvemap/pkg/mapfile/validator"
)

// ParseAndValidate is a convenience function that parses and lints a map file.
// It returns the document if it parses and the lint passes report no errors.
// Warnings alone do not fail; use validator.Validator directly to read them.
func ParseAndValidate(path string) (*ast.Document, error) {
	doc, err := Parse(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// ParseAndValidateBytes is a convenience function that parses and lints map source from bytes.
func ParseAndValidateBytes(data []byte, sourcePath string) (*ast.Document, error) {
	doc, err := ParseBytes(data, sourcePath)
	if err != nil {
		return nil, err
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Parse parses a map file without linting.
func Parse(path string) (*ast.Document, error) {
	return parser.NewParser().Parse(path)
}

// ParseBytes parses map source from bytes without linting.
func ParseBytes(data []byte, sourcePath string) (*ast.Document, error) {
	return parser.NewParser().ParseBytes(data, sourcePath)
}

// ParseString parses map source from a string without linting.
func ParseString(src string, sourcePath string) (*ast.Document, error) {
	return parser.NewParser().ParseString(src, sourcePath)
}

// Validate lints a parsed document and returns an *errors.ErrorList when
// any finding is an error. Warning-only results return nil.
func Validate(doc *ast.Document) error {
	findings := validator.NewValidator().Check(doc)
	if !findings.HasFailures() {
		return nil
	}
	return findings
}

// Lint lints a parsed document and returns every finding, warnings included.
func Lint(doc *ast.Document, strict bool) *mapErrors.ErrorList {
	return validator.NewValidator().WithStrict(strict).Check(doc)
}
