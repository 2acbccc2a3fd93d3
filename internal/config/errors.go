package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Categories of FormatError. Match them with errors.Is.
var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrMissingLayers     = errors.New("missing layers field")
	ErrMissingType       = errors.New("missing layer type")
)

// FormatError reports a document that cannot be turned into layer specs.
type FormatError struct {
	Kind  error  // ErrMalformedDocument, ErrMissingLayers or ErrMissingType
	Index int    // Layer entry index, -1 for document level errors
	Line  int    // 1-based source line, 0 if unknown
	Msg   string // Human readable detail
	Err   error  // Underlying decoder error, may be nil
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	switch {
	case e.Index >= 0 && e.Line > 0:
		fmt.Fprintf(&b, ": layer %d (line %d)", e.Index, e.Line)
	case e.Index >= 0:
		fmt.Fprintf(&b, ": layer %d", e.Index)
	case e.Line > 0:
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is the category of e.
func (e *FormatError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying decoder error.
func (e *FormatError) Unwrap() error {
	return e.Err
}
