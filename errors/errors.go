// Package errors provides error handling for bindgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for users
//
// On top of the re-exports it defines the sentinels every layer of bindgen
// reports failures with. They fall into four groups:
//
//   - Parse errors: a source fragment could not become an IR node (ErrParse).
//     Recoverable; frontends skip the item and keep going.
//   - Resolution errors: the input was well-formed but named something absent
//     (ErrUnresolvable, ErrNotFound).
//   - Structural errors: an Object without a definition or a malformed template
//     (ErrMissingDefinition, ErrUnterminatedSection, ...). These abort the
//     current item or file.
//   - I/O errors: wrapped with context and propagated, never replaced.
//
// Usage:
//
//	if _, ok := visitor.Relative(path); !ok {
//	    return errors.Wrapf(errors.ErrUnresolvable, "path %s", path)
//	}
//
//	if errors.IsStructuralError(err) {
//	    // stop generating this file
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Parse errors.
var (
	// ErrParse indicates a source fragment could not be converted to an IR node
	ErrParse = New("parse error")
)

// Resolution errors.
var (
	// ErrUnresolvable indicates a relative path named a branch that does not exist
	ErrUnresolvable = New("unresolvable path")

	// ErrNotFound indicates a lookup by name found nothing
	ErrNotFound = New("not found")
)

// Structural invariant violations.
var (
	// ErrMissingDefinition indicates an Object was finalized without a type definition
	ErrMissingDefinition = New("missing type definition")

	// ErrUnterminatedSection indicates a section-opening marker with no closing marker after it
	ErrUnterminatedSection = New("unterminated section marker")

	// ErrNestedSection indicates a section-opening marker inside a placeholder name
	ErrNestedSection = New("nested section marker")

	// ErrEmptySectionName indicates a placeholder with nothing between its markers
	ErrEmptySectionName = New("empty section name")

	// ErrTemplateCycle indicates a template that expands into itself
	ErrTemplateCycle = New("template cycle")

	// ErrUnknownTemplate indicates a render request for an unregistered template
	ErrUnknownTemplate = New("unknown template")
)

// Configuration errors.
var (
	// ErrInvalidConfig indicates a configuration value failed validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrUnsupportedFormat indicates a file extension with no registered codec
	ErrUnsupportedFormat = New("unsupported format")
)

// IsParseError checks if an error is or wraps ErrParse
func IsParseError(err error) bool {
	return err != nil && Is(err, ErrParse)
}

// IsResolutionError checks if an error is or wraps one of the resolution sentinels
func IsResolutionError(err error) bool {
	return err != nil && IsAny(err, ErrUnresolvable, ErrNotFound)
}

// IsStructuralError checks if an error is or wraps one of the structural invariant sentinels
func IsStructuralError(err error) bool {
	return err != nil && IsAny(err,
		ErrMissingDefinition,
		ErrUnterminatedSection,
		ErrNestedSection,
		ErrEmptySectionName,
		ErrTemplateCycle,
	)
}

// NewParseError creates a parse error with a formatted message
func NewParseError(format string, args ...interface{}) error {
	return Wrap(ErrParse, Newf(format, args...).Error())
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}
