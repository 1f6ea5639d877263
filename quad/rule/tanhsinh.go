package rule

import (
	"math/big"

	"github.com/jonwraymond/scicalc/arith"
)

// TanhSinhStep returns the step size h = 2^-degree of the degree-th
// tanh-sinh level.
func TanhSinhStep(c arith.Config, degree int) *big.Float {
	return c.Ldexp(1, -degree)
}

// TanhSinh returns the nodes that the degree-th tanh-sinh level adds on
// [-1, 1], accurate to about bits bits.
//
// Level 1 samples t = 0, ±1/2, ±1, … and includes the centre node (0, π/2).
// Level d > 1 samples only the odd multiples of 2^-d, so the union of levels
// 1…d is the full rule with step 2^-d. Abscissae are
// x = tanh(π/2·sinh t) and weights w = π/2·cosh t / cosh²(π/2·sinh t); the
// walk stops once x is within 2^-(bits+10) of 1.
func TanhSinh(bits uint, degree int) []Node {
	if degree < 1 {
		degree = 1
	}
	w := arith.NewConfig(bits + 30)
	tol := w.Ldexp(1, -int(bits)-10)
	one := w.Int(1)

	t0 := TanhSinhStep(w, degree)
	h := w.Round(t0)
	var nodes []Node
	if degree == 1 {
		nodes = append(nodes, Node{X: w.New(), W: w.Half(arith.Pi(w))})
	} else {
		h.SetMantExp(h, 1)
	}

	// a = π/4·e^t and b = π/4·e^-t, so a-b = π/2·sinh t and a+b = π/2·cosh t.
	quarterPi := arith.Pi(w)
	quarterPi.SetMantExp(quarterPi, -2)
	et := arith.Exp(w, t0)
	a := w.Mul(quarterPi, et)
	b := w.Quo(quarterPi, et)
	eh := arith.Exp(w, h)

	limit := 1 + 20<<degree
	for k := 0; k < limit; k++ {
		c := arith.Exp(w, w.Sub(a, b))
		ci := w.Quo(one, c)
		co := w.Add(c, ci) // 2·cosh(π/2·sinh t)
		si := w.Sub(c, ci) // 2·sinh(π/2·sinh t)

		x := w.Quo(si, co)
		if d := w.Sub(one, x); d.Cmp(tol) <= 0 {
			break
		}
		// (a+b)/cosh² = 4·(a+b)/co²
		wt := w.Add(a, b)
		wt.SetMantExp(wt, 2)
		wt.Quo(wt, co)
		wt.Quo(wt, co)

		nodes = append(nodes,
			Node{X: x, W: wt},
			Node{X: w.Neg(x), W: w.Round(wt)},
		)

		a.Mul(a, eh)
		b.Quo(b, eh)
	}
	return nodes
}
