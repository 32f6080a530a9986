package validation

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a schema or document file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ParseError reports malformed JSON. Line and Column are 1-based.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Invalid JSON at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// SchemaError is returned when a well-formed schema document cannot be compiled.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("Invalid schema %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Violation is a single failed schema constraint.
type Violation struct {
	// Path from the document root to the offending value; empty at the root.
	Path    []string `json:"path"`
	Keyword string   `json:"keyword"`
	Message string   `json:"message"`
}

func (v Violation) Location() string {
	if len(v.Path) == 0 {
		return "root"
	}
	return strings.Join(v.Path, " -> ")
}

func (v Violation) String() string {
	return fmt.Sprintf("At '%s': %s", v.Location(), v.Message)
}

// ViolationError holds every violation found in a document.
type ViolationError struct {
	Violations []Violation
}

func (e *ViolationError) Error() string {
	lines := make([]string, len(e.Violations))
	for idx, v := range e.Violations {
		lines[idx] = v.String()
	}
	return strings.Join(lines, "\n    ")
}

// IOError wraps a failure to read a document.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("unable to read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// UnexpectedError wraps any other fault, including recovered panics.
type UnexpectedError struct {
	Path string
	Err  error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }
