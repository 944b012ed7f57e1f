package errors

import (
	"fmt"
	"strings"

	"drools-graph/drlx/pkg/drl/ast"
)

// Error is one classified parse failure with its location and the text
// that caused it.
type Error struct {
	Kind        Kind         // Class of failure
	Disposition Disposition  // How the parser recovered
	Message     string       // Error message
	Location    ast.Location // Source location (file, line, column)
	Construct   string       // Name of the enclosing rule/query/function/type, if known
	Snippet     string       // Offending source text
	Context     string       // Surrounding lines, see ExtractContext
	Suggestion  string       // Suggested fix (optional)
	Cause       error        // Underlying error (I/O failures)
}

// Error implements the error interface.
// It returns a formatted error message with location and context.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Kind, e.Message))
	if e.Construct != "" {
		sb.WriteString(fmt.Sprintf(" (in %q)", e.Construct))
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	if e.Location.IsValid() || e.Location.File != "" {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("\n  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, &drlerrors.Error{Kind: drlerrors.FileParsingError}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NewFileError creates a fatal FileParsingError for path.
func NewFileError(path, message string, cause error) *Error {
	return &Error{
		Kind:        FileParsingError,
		Disposition: FileAborted,
		Message:     message,
		Location:    ast.Location{File: path},
		Cause:       cause,
	}
}

// ErrorList represents a collection of parse errors.
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
	if el.Count() == 1 {
		return el.Errors[0].Error()
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

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (el *ErrorList) Unwrap() []error {
	errs := make([]error, len(el.Errors))
	for i, e := range el.Errors {
		errs[i] = e
	}
	return errs
}
