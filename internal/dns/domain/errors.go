package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput reports a buffer too short for the field being read.
	ErrMalformedInput = errors.New("malformed input")

	// ErrLabelTooLong reports a label longer than MaxLabelLength bytes.
	ErrLabelTooLong = errors.New("label too long")

	// ErrNameTooLong reports a name whose wire form exceeds MaxNameLength bytes.
	ErrNameTooLong = errors.New("name too long")

	// ErrEmptyLabel reports a zero-length label before the end of a name.
	ErrEmptyLabel = errors.New("empty label")

	// ErrNonASCIILabel reports a label containing bytes outside 7-bit ASCII.
	ErrNonASCIILabel = errors.New("non-ASCII label")
)

// ConfigurationError is returned when a response configuration holds a
// value that cannot be written to the wire.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(field string, err error) error {
	return &ConfigurationError{Field: field, Err: err}
}
