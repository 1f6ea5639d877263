package summation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the parent of every argument error.
	ErrInvalidArgument = errors.New("summation: invalid argument")

	// ErrNilFunc indicates a nil summand.
	ErrNilFunc = fmt.Errorf("%w: function is nil", ErrInvalidArgument)

	// ErrInvalidRange indicates a > b, a = +∞ or b = -∞.
	ErrInvalidRange = fmt.Errorf("%w: range must satisfy a <= b", ErrInvalidArgument)
)
