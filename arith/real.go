package arith

import (
	"math"
	"math/big"
)

// Func is a real function evaluated at the precision carried by c.
//
// Implementations must treat x as read-only: integrators pass cached node
// values directly. A Func used with concurrent evaluation must be safe for
// concurrent use.
type Func func(c Config, x *big.Float) *big.Float

// IsPosInf reports whether x is +Inf.
func IsPosInf(x *big.Float) bool {
	return x.IsInf() && x.Sign() > 0
}

// IsNegInf reports whether x is -Inf.
func IsNegInf(x *big.Float) bool {
	return x.IsInf() && x.Sign() < 0
}

// Log10Abs returns an estimate of log10|x| accurate to float64 precision.
// It returns -Inf for zero and +Inf for an infinite x.
func Log10Abs(x *big.Float) float64 {
	if x.Sign() == 0 {
		return math.Inf(-1)
	}
	if x.IsInf() {
		return math.Inf(1)
	}
	mant := new(big.Float)
	exp := x.MantExp(mant)
	m, _ := mant.Float64()
	return math.Log10(math.Abs(m)) + float64(exp)*math.Log10(2)
}

// Parse parses s ("1.5", "-inf", "0x1p-3", ...) at the precision of c.
func Parse(c Config, s string) (*big.Float, bool) {
	return c.New().SetString(s)
}
