package rule

import (
	"fmt"
	"math/big"

	"github.com/jonwraymond/scicalc/arith"
)

// Transform maps nodes from [-1, 1] onto the interval from a to b in place,
// computing at bits bits of precision. A reversed interval (a > b) yields
// negated weights, so the rule integrates from a to b.
//
//   - finite [a, b]:  x → x·(b-a)/2 + (b+a)/2, w → w·(b-a)/2
//   - [a, +∞):        u = 2/(x+1), x → a+u-1, w → w·u²/2
//   - (-∞, b]:        u = 2/(x+1), x → b-u+1, w → w·u²/2
//   - (-∞, +∞):       x → x/√(1-x²), w → w/(1-x²)^(3/2)
//
// Work is carried at bits or at the precision of the most precise node,
// whichever is larger, so abscissae closer to ±1 than 2^-bits do not collapse
// onto an endpoint. The canonical interval [-1, 1] leaves nodes untouched.
// Equal infinite endpoints return ErrInvalidInterval.
func Transform(bits uint, nodes []Node, a, b *big.Float) error {
	if a.IsInf() && b.IsInf() && a.Sign() == b.Sign() {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidInterval, a, b)
	}
	for _, n := range nodes {
		if p := n.X.Prec(); p > bits {
			bits = p
		}
	}
	c := arith.NewConfig(bits)

	switch {
	case !a.IsInf() && !b.IsInf():
		if a.Cmp(c.Int(-1)) == 0 && b.Cmp(c.Int(1)) == 0 {
			return nil
		}
		linear(c, nodes, a, b)
	case arith.IsPosInf(b):
		if arith.IsNegInf(a) {
			doublyInfinite(c, nodes, false)
			return nil
		}
		halfLine(c, nodes, a, true, false)
	case arith.IsNegInf(a):
		halfLine(c, nodes, b, false, false)
	case arith.IsNegInf(b):
		if arith.IsPosInf(a) {
			doublyInfinite(c, nodes, true)
			return nil
		}
		// ∫_a^-∞ = -∫_-∞^a
		halfLine(c, nodes, a, false, true)
	default:
		// a = +∞, b finite: ∫_+∞^b = -∫_b^+∞
		halfLine(c, nodes, b, true, true)
	}
	return nil
}

func linear(c arith.Config, nodes []Node, a, b *big.Float) {
	half := c.Half(c.Sub(b, a))
	mid := c.Half(c.Add(b, a))
	for i := range nodes {
		x := c.Mul(nodes[i].X, half)
		nodes[i].X = x.Add(x, mid)
		nodes[i].W = c.Mul(nodes[i].W, half)
	}
}

// halfLine maps onto [end, +∞) when upward is set and onto (-∞, end]
// otherwise.
func halfLine(c arith.Config, nodes []Node, end *big.Float, upward, negate bool) {
	one := c.Int(1)
	for i := range nodes {
		// 1+x is formed directly from the stored abscissa, so nodes close to
		// -1 keep their distance from the endpoint.
		u := c.Quo(c.Int(2), c.Add(nodes[i].X, one))

		x := c.Sub(u, one)
		if upward {
			x.Add(end, x)
		} else {
			x.Sub(end, x)
		}

		w := c.Mul(nodes[i].W, u)
		w.Mul(w, u)
		w.SetMantExp(w, -1)
		if negate {
			w.Neg(w)
		}
		nodes[i].X, nodes[i].W = x, w
	}
}

func doublyInfinite(c arith.Config, nodes []Node, negate bool) {
	one := c.Int(1)
	for i := range nodes {
		// 1-x² as (1-x)(1+x) avoids cancellation next to ±1.
		px := c.Mul(c.Sub(one, nodes[i].X), c.Add(one, nodes[i].X))
		s := c.Quo(one, c.Sqrt(px))

		x := c.Mul(nodes[i].X, s)
		w := c.Mul(nodes[i].W, s)
		w.Quo(w, px)
		if negate {
			w.Neg(w)
		}
		nodes[i].X, nodes[i].W = x, w
	}
}
