package cache

import "math/big"

// FloatKey is a comparable, exact representation of a *big.Float value.
//
// Two FloatKeys are equal iff the values they were derived from are equal:
// the precision and rounding mode of the source do not take part, and -0
// equals +0.
type FloatKey string

// Keys for the values that have no mantissa.
const (
	ZeroKey   FloatKey = "0"
	PosInfKey FloatKey = "+Inf"
	NegInfKey FloatKey = "-Inf"
)

// KeyOf returns the exact key of x. A nil x is treated as zero.
func KeyOf(x *big.Float) FloatKey {
	switch {
	case x == nil || x.Sign() == 0:
		return ZeroKey
	case x.IsInf() && x.Sign() > 0:
		return PosInfKey
	case x.IsInf():
		return NegInfKey
	}
	// The 'p' format prints every mantissa bit, so it is exact at any precision.
	return FloatKey(x.Text('p', 0))
}
