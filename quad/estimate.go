package quad

import (
	"math"
	"math/big"

	"github.com/jonwraymond/scicalc/arith"
)

// EstimateError estimates the error of the last entry of results, the
// sequence of approximations produced by successive degrees.
//
// One result yields eps and two yield their absolute difference. With three
// or more, let D1 = log10|r[-1]-r[-2]| and D2 = log10|r[-1]-r[-3]|; the
// estimate is 10^⌊min(0, max(D1²/D2, 2·D1, -bits))⌋, assuming the
// differences shrink quadratically in the number of correct digits.
func EstimateError(bits uint, eps *big.Float, results []*big.Float) *big.Float {
	c := arith.NewConfig(bits)
	n := len(results)
	switch n {
	case 0, 1:
		return c.Round(eps)
	case 2:
		return c.Abs(c.Sub(results[1], results[0]))
	}

	last, prev, prev2 := results[n-1], results[n-2], results[n-3]
	if last.Cmp(prev) == 0 && last.Cmp(prev2) == 0 {
		return c.New()
	}

	d1 := arith.Log10Abs(c.Sub(last, prev))
	d2 := arith.Log10Abs(c.Sub(last, prev2))
	d := maxNum(maxNum(d1*d1/d2, 2*d1), -float64(bits))
	d = math.Min(d, 0)
	return c.Pow10(int(math.Floor(d)))
}

// maxNum is math.Max except that a NaN operand yields the other one.
func maxNum(x, y float64) float64 {
	switch {
	case math.IsNaN(x):
		return y
	case math.IsNaN(y):
		return x
	}
	return math.Max(x, y)
}
