package rule

import (
	"math"
	"math/big"

	"github.com/jonwraymond/scicalc/arith"
)

// maxNewtonSteps bounds the root refinement of a single Legendre root.
const maxNewtonSteps = 100

// GaussLegendreSize returns the number of nodes of the degree-th
// Gauss–Legendre rule: 3·2^(degree-1).
func GaussLegendreSize(degree int) int {
	if degree < 1 {
		degree = 1
	}
	return 3 << (degree - 1)
}

// GaussLegendre returns the nodes of the degree-th Gauss–Legendre rule on
// [-1, 1], accurate to about bits bits.
//
// Degree 1 is the exact 3-point rule. Higher degrees locate the roots of the
// Legendre polynomial P_n with Newton's method, starting from the classical
// cosine estimate, and weight each root by 2/((1-x²)·P'_n(x)²).
func GaussLegendre(bits uint, degree int) []Node {
	if degree <= 1 {
		return gaussLegendre3(bits)
	}

	extra := bits / 2
	if extra < 32 {
		extra = 32
	}
	w := arith.NewConfig(bits + extra)
	tol := w.Ldexp(1, -int(bits)-8)
	out := arith.NewConfig(bits)

	n := GaussLegendreSize(degree)
	nodes := make([]Node, 0, n)
	one := w.Int(1)
	two := w.Int(2)

	for j := 1; j <= n/2; j++ {
		r := w.New().SetFloat64(math.Cos(math.Pi * (float64(j) - 0.25) / (float64(n) + 0.5)))
		var dp *big.Float
		for step := 0; step < maxNewtonSteps; step++ {
			p, pPrev := legendre(w, n, r)

			// P'_n(r) = n·(r·P_n - P_{n-1}) / (r² - 1)
			dp = w.Mul(r, p)
			dp.Sub(dp, pPrev)
			dp.Mul(dp, w.Int(int64(n)))
			dp.Quo(dp, w.Sub(w.Mul(r, r), one))

			delta := w.Quo(p, dp)
			r.Sub(r, delta)
			if delta.Abs(delta).Cmp(tol) <= 0 {
				break
			}
		}

		// w = 2 / ((1 - r²)·P'_n(r)²)
		weight := w.Sub(one, w.Mul(r, r))
		weight.Mul(weight, dp)
		weight.Mul(weight, dp)
		weight.Quo(two, weight)

		wt := out.Round(weight)
		nodes = append(nodes,
			Node{X: out.Round(r), W: wt},
			Node{X: out.Neg(r), W: out.Round(wt)},
		)
	}
	return nodes
}

// legendre evaluates P_n(x) and P_{n-1}(x) by the three-term recurrence
// j·P_j = (2j-1)·x·P_{j-1} - (j-1)·P_{j-2}.
func legendre(c arith.Config, n int, x *big.Float) (p, pPrev *big.Float) {
	p = c.Int(1)
	pPrev = c.New()
	t := c.New()
	for j := 1; j <= n; j++ {
		// t = ((2j-1)·x·p - (j-1)·pPrev) / j
		t.Mul(x, p)
		t.Mul(t, c.Int(int64(2*j-1)))
		pPrev.Mul(pPrev, c.Int(int64(j-1)))
		t.Sub(t, pPrev)
		t.Quo(t, c.Int(int64(j)))
		p, pPrev, t = t, p, pPrev
	}
	return p, pPrev
}

func gaussLegendre3(bits uint) []Node {
	c := arith.NewConfig(bits)
	x := c.Sqrt(c.Quo(c.Int(3), c.Int(5)))
	outer := c.Quo(c.Int(5), c.Int(9))
	return []Node{
		{X: x, W: outer},
		{X: c.Neg(x), W: c.Round(outer)},
		{X: c.New(), W: c.Quo(c.Int(8), c.Int(9))},
	}
}
