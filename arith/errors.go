package arith

import (
	"errors"
	"fmt"
	"math/big"
)

// Sentinel errors for arithmetic configuration and evaluation.
var (
	// ErrInvalidPrecision indicates Config.Bits is outside [MinBits, MaxBits].
	ErrInvalidPrecision = errors.New("arith: precision must be between 1 and MaxBits bits")

	// ErrInvalidRounding indicates an unknown rounding mode.
	ErrInvalidRounding = errors.New("arith: invalid rounding mode")

	// ErrNaN indicates an operation produced a value that is not a number.
	ErrNaN = errors.New("arith: operation produced NaN")
)

// RecoverNaN converts a big.ErrNaN panic into an error wrapping ErrNaN.
// It must be deferred directly:
//
//	defer arith.RecoverNaN(&err)
//
// Other panics are re-raised unchanged.
func RecoverNaN(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if nan, ok := r.(big.ErrNaN); ok {
		*err = fmt.Errorf("%w: %s", ErrNaN, nan.Error())
		return
	}
	panic(r)
}
