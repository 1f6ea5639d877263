package diff

import (
	"math/big"

	"github.com/jonwraymond/scicalc/arith"
)

// Sequence yields derivatives of increasing order, starting at order zero.
type Sequence interface {
	Next() (*big.Float, error)
}

// derivatives differentiates f at x one order further on every call.
type derivatives struct {
	mc    arith.Config
	f     arith.Func
	x     *big.Float
	req   Request
	order int
}

// NewSequence returns f(x), f'(x), f''(x), … computed by Differentiate with
// req, whose Order is ignored.
func NewSequence(mc arith.Config, f arith.Func, x *big.Float, req Request) Sequence {
	return &derivatives{mc: mc, f: f, x: x, req: req}
}

func (s *derivatives) Next() (*big.Float, error) {
	req := s.req
	req.Order = s.order
	d, err := Differentiate(s.mc, s.f, s.x, req)
	if err != nil {
		return nil, err
	}
	s.order++
	return d, nil
}

type funcSequence struct {
	fn    func(order int) *big.Float
	order int
}

func (s *funcSequence) Next() (*big.Float, error) {
	d := s.fn(s.order)
	s.order++
	return d, nil
}

// FromFunc returns the Sequence fn(0), fn(1), fn(2), ….
func FromFunc(fn func(order int) *big.Float) Sequence {
	return &funcSequence{fn: fn}
}

// Values returns the Sequence vs[0], vs[1], …, followed by zeros.
func Values(vs ...*big.Float) Sequence {
	return FromFunc(func(order int) *big.Float {
		if order < len(vs) {
			return vs[order]
		}
		return new(big.Float)
	})
}

// Zeros returns the Sequence 0, 0, 0, …, the derivatives at an infinite
// endpoint of a summable function.
func Zeros() Sequence {
	return FromFunc(func(int) *big.Float { return new(big.Float) })
}
