package tuple

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrNegativeIndex is returned when a field is addressed with a negative index.
	ErrNegativeIndex = errors.NewKind("negative tuple index: %d")

	// ErrUnsupportedType is returned when a value outside the field catalog is
	// stored or encoded, or when an unknown type tag is decoded.
	ErrUnsupportedType = errors.NewKind("unsupported type: %v")

	// ErrMalformed is returned when encoded tuple bytes are truncated or invalid.
	ErrMalformed = errors.NewKind("malformed tuple encoding: %v")

	// ErrUnknownField is returned when a Schema is asked for a name it does not hold.
	ErrUnknownField = errors.NewKind("unknown field name: %s")

	// ErrDuplicateField is returned when a Schema is built with a repeated name.
	ErrDuplicateField = errors.NewKind("duplicate field name: %s")
)
