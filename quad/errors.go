package quad

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the parent of every malformed-call error below.
var ErrInvalidArgument = errors.New("quad: invalid argument")

var (
	// ErrOddPoints indicates a breakpoint list with an odd number of elements.
	ErrOddPoints = fmt.Errorf("%w: points must have an even number of elements", ErrInvalidArgument)

	// ErrNilFunc indicates a nil integrand.
	ErrNilFunc = fmt.Errorf("%w: integrand is nil", ErrInvalidArgument)

	// ErrNilPoint indicates a nil element in the breakpoint list.
	ErrNilPoint = fmt.Errorf("%w: points must not contain nil", ErrInvalidArgument)

	// ErrInvalidMaxDegree indicates a maximum degree below 1.
	ErrInvalidMaxDegree = fmt.Errorf("%w: maximum degree must be at least 1", ErrInvalidArgument)

	// ErrUnknownMethod indicates an unrecognised quadrature method name.
	ErrUnknownMethod = fmt.Errorf("%w: unknown method", ErrInvalidArgument)
)
