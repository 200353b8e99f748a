package sfv

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package wraps exactly one.
var (
	// ErrSyntax indicates malformed input.
	ErrSyntax = errors.New("syntax error")
	// ErrRange indicates an Integer or Decimal outside its bounds.
	ErrRange = errors.New("range exceeded")
	// ErrConstruction indicates an invalid value built programmatically.
	ErrConstruction = errors.New("invalid value")
	// ErrEncoding indicates a value that cannot be serialized.
	ErrEncoding = errors.New("encoding error")
	// ErrLimit indicates input exceeding a configured parser limit.
	ErrLimit = errors.New("limit exceeded")
)

// ParseError represents a parsing error with location information.
type ParseError struct {
	Offset     int    // byte offset into the input
	Production string // grammar production being parsed, e.g. "string"
	Message    string
	Err        error // ErrSyntax, ErrRange or ErrLimit
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s: %s", e.Offset, e.Production, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSyntax
}

// ValueError reports a value that violates the range or character set rules
// of its type, either at construction or at serialization.
type ValueError struct {
	Type    string // "integer", "key", ...
	Value   string
	Message string
	Err     error // ErrConstruction or ErrEncoding
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Type, e.Value, e.Message)
}

func (e *ValueError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrConstruction
}

// encodingError re-tags a validation failure for the serializer.
func encodingError(err error) error {
	var ve *ValueError
	if errors.As(err, &ve) {
		out := *ve
		out.Err = ErrEncoding
		return &out
	}
	return fmt.Errorf("%w: %v", ErrEncoding, err)
}
