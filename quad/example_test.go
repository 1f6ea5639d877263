package quad_test

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/quad"
)

func ExampleTanhSinh_Quad() {
	mc := arith.NewConfig(64)
	q := quad.NewTanhSinh()

	// ∫₀¹ 4/(1+x²) dx = π
	f := func(c arith.Config, x *big.Float) *big.Float {
		return c.Quo(c.Int(4), c.Add(c.Int(1), c.Mul(x, x)))
	}
	res, err := q.Quad(context.Background(), mc, f, []*big.Float{mc.Int(0), mc.Int(1)})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Value.Text('f', 15))
	fmt.Println("converged:", res.Converged)
	// Output:
	// 3.141592653589793
	// converged: true
}

func ExampleGaussLegendre_Quad_infinite() {
	mc := arith.NewConfig(64)
	q := quad.NewGaussLegendre()

	// ∫₀^∞ e^(-x) dx = 1
	f := func(c arith.Config, x *big.Float) *big.Float {
		return arith.Exp(c, c.Neg(x))
	}
	res, _ := q.Quad(context.Background(), mc, f, []*big.Float{mc.Int(0), new(big.Float).SetInf(false)})
	fmt.Println(res.Value.Text('f', 12))
	// Output:
	// 1.000000000000
}

func ExampleParseMethod() {
	m, _ := quad.ParseMethod("ts")
	fmt.Println(m)
	fmt.Println(quad.GuessDegree(128))
	// Output:
	// tanh-sinh
	// 9
}
