// Package parsing defines the frontend contract: the generic Parser
// interface, the per-run Config and the registry that maps languages and
// file extensions to library parsers.
package parsing

import (
	"context"
	"fmt"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/ir"
)

// Parser converts one source fragment into one IR value
type Parser[In, Out any] interface {
	Parse(in In, cfg *Config) (Out, error)
}

// Func adapts a plain function to Parser
type Func[In, Out any] func(in In, cfg *Config) (Out, error)

func (f Func[In, Out]) Parse(in In, cfg *Config) (Out, error) { return f(in, cfg) }

// LibraryParser is a language frontend that builds a whole library
type LibraryParser interface {
	// Language is the registry name, e.g. "rust"
	Language() string
	// Extensions lists the source file extensions, with the leading dot
	Extensions() []string
	// ParseLibrary reads the sources under root into a library called name
	ParseLibrary(ctx context.Context, name, root string, cfg *Config) (*ir.Library, error)
}

// ParseError reports a source item that could not become an IR node.
// Frontends skip the item and keep going.
type ParseError struct {
	Language string
	Item     string
	Message  string
}

// NewParseError creates a ParseError
func NewParseError(language, item, format string, args ...interface{}) *ParseError {
	return &ParseError{Language: language, Item: item, Message: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string {
	if e.Item == "" {
		return fmt.Sprintf("%s: %s", e.Language, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Language, e.Item, e.Message)
}

// Unwrap makes errors.Is(err, errors.ErrParse) hold
func (e *ParseError) Unwrap() error { return errors.ErrParse }
