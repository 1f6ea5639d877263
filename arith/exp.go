package arith

import (
	"math"
	"math/big"
	"math/bits"
)

// Beyond these magnitudes exp over- or underflows the big.Float exponent
// range (about ±2^31 binary orders), so the result is +Inf or 0 outright.
var (
	expOverflow  = big.NewFloat(1.4e9)
	expUnderflow = big.NewFloat(-1.4e9)
)

// Exp returns e^x rounded to c.
//
// The argument is reduced as x = k·ln2 + r with |r| ≤ ln2/2, r is halved s
// times, the Taylor series is summed and the result squared s times.
func Exp(c Config, x *big.Float) *big.Float {
	z := c.New()
	switch {
	case x.IsInf():
		if x.Sign() > 0 {
			return z.SetInf(false)
		}
		return z
	case x.Sign() == 0:
		return z.SetInt64(1)
	case x.Cmp(expOverflow) > 0:
		return z.SetInf(false)
	case x.Cmp(expUnderflow) < 0:
		return z
	}

	xf, _ := x.Float64()
	k := int64(math.Round(xf / math.Ln2))
	kbits := uint(bits.Len64(uint64(absInt64(k))))

	s := uint(math.Sqrt(float64(c.Bits))) + 1
	wp := c.Bits + constGuardBits/2 + kbits + s
	w := Config{Bits: wp}

	r := w.Round(x)
	if k != 0 {
		r.Sub(r, w.Mul(w.Int(k), Ln2(w)))
	}
	r.SetMantExp(r, -int(s))

	sum := w.Int(1)
	term := w.Int(1)
	limit := -int(wp)
	for i := int64(1); ; i++ {
		term.Mul(term, r)
		term.Quo(term, w.Int(i))
		if term.Sign() == 0 || term.MantExp(nil) < limit {
			break
		}
		sum.Add(sum, term)
	}
	for i := uint(0); i < s; i++ {
		sum.Mul(sum, sum)
	}

	// SetMantExp rounds into z and saturates to 0 or Inf outside the exponent range.
	return z.SetMantExp(sum, int(k))
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
