package diff

import "errors"

var (
	// ErrNegativeOrder indicates a derivative order below zero.
	ErrNegativeOrder = errors.New("diff: order must not be negative")

	// ErrNilFunc indicates a nil function.
	ErrNilFunc = errors.New("diff: function is nil")

	// ErrUnknownDirection indicates an unrecognised stencil direction.
	ErrUnknownDirection = errors.New("diff: unknown direction")
)
