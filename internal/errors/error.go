package errors

import (
	"fmt"
	"strings"
)

// Category represents the kind of diagnostic.
type Category string

const (
	CategoryBinding Category = "binding"
	CategoryConfig  Category = "config"
	CategorySource  Category = "source"
	CategoryLive    Category = "live"
	CategoryCLI     Category = "cli"
)

// Severity separates soft failures from hard ones.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Location points at the markup a diagnostic is about.
type Location struct {
	File string // Template file or URI, may be empty
	Path string // Element path, e.g. "div#app > span"
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	switch {
	case l.File != "" && l.Path != "":
		return l.File + ": " + l.Path
	case l.File != "":
		return l.File
	default:
		return l.Path
	}
}

// Error is a coded diagnostic with location and suggestions.
type Error struct {
	// Code is a unique identifier (e.g. "W001").
	Code string

	Category Category
	Severity Severity

	// Message is a short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	Location *Location

	// Suggestion is a hint on how to fix the problem.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// IsWarning reports whether the diagnostic is a soft failure.
func (e *Error) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// WithLocation sets the file and element path.
func (e *Error) WithLocation(file, path string) *Error {
	e.Location = &Location{File: file, Path: path}
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation.
func (e *Error) WithDetailf(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:     code,
			Severity: SeverityError,
			Message:  "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Severity: template.severity(code),
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in an Error with the given code, or returns err itself
// when it already is one.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(code).Wrap(err)
}
