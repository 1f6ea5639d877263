package diff

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/observe"
)

// DefaultGuardBits is the guard precision added to the step exponent and,
// twice over, to the working precision of every stencil point.
const DefaultGuardBits = 10

// Request describes one derivative evaluation.
type Request struct {
	// Order is the derivative order; zero evaluates f itself.
	Order int

	// Direction places the stencil around x.
	Direction Direction

	// GuardBits widens both the step exponent and the working precision.
	// Zero selects DefaultGuardBits.
	GuardBits uint

	// RelativeStep scales the step down by 2^ceil(log10|x|) so large
	// arguments keep a step proportionate to their magnitude.
	RelativeStep bool

	// Singular moves the evaluation point half a step into the stencil so
	// f is never sampled at x itself.
	Singular bool
}

// DefaultRequest returns a central request of the given order with the
// default guard.
func DefaultRequest(order int) Request {
	return Request{Order: order, Direction: Central, GuardBits: DefaultGuardBits}
}

// Validate checks the request fields.
func (r Request) Validate() error {
	if r.Order < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeOrder, r.Order)
	}
	if r.Direction < Central || r.Direction > Right {
		return fmt.Errorf("%w: %d", ErrUnknownDirection, int(r.Direction))
	}
	return nil
}

// WorkingBits returns the precision the stencil is evaluated at for a
// caller precision of bits: (bits + 2·guard)·(order + 1).
func (r Request) WorkingBits(bits uint) uint {
	return (bits + 2*r.guard()) * uint(r.Order+1)
}

func (r Request) guard() uint {
	if r.GuardBits == 0 {
		return DefaultGuardBits
	}
	return r.GuardBits
}

// stepExponent returns e such that the step is 2^-e.
func (r Request) stepExponent(bits uint, x *big.Float) int {
	e := int(bits + r.guard())
	if r.RelativeStep && x.Sign() != 0 && !x.IsInf() {
		e += int(math.Ceil(arith.Log10Abs(x)))
	}
	return e
}

// Differentiate returns the derivative of f at x described by req, rounded
// to mc.
//
// Order zero without Singular is f(x) evaluated at mc. Otherwise f is sampled
// on NewFormula(req.Order, req.Direction) at req.WorkingBits(mc.Bits) bits.
func Differentiate(mc arith.Config, f arith.Func, x *big.Float, req Request) (d *big.Float, err error) {
	if err := mc.Validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNilFunc
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	defer arith.RecoverNaN(&err)

	if req.Order == 0 && !req.Singular {
		return mc.Round(f(mc, x)), nil
	}

	w := arith.Config{Bits: req.WorkingBits(mc.Bits), Rounding: mc.Rounding}
	h := w.Ldexp(1, -req.stepExponent(mc.Bits, x))

	x0 := w.Round(x)
	if req.Singular {
		half := w.Half(h)
		if req.Direction == Left {
			x0.Sub(x0, half)
		} else {
			x0.Add(x0, half)
		}
	}

	form := NewFormula(req.Order, req.Direction)
	sum := w.New()
	for _, p := range form.Stencil {
		xi := w.Add(x0, w.Scale(h, int64(p.Loc)))
		sum.Add(sum, w.Mul(w.BigInt(p.Coeff), f(w, xi)))
	}

	norm := w.Scale(h, int64(form.Spacing))
	sum.Quo(sum, w.PowInt(norm, uint(req.Order)))
	return mc.Round(sum), nil
}

// Derivative returns the central derivative of order n with the default
// guard.
func Derivative(mc arith.Config, f arith.Func, x *big.Float, n int) (*big.Float, error) {
	return Differentiate(mc, f, x, DefaultRequest(n))
}

// Option configures a DifferentiateContext call.
type Option func(*options)

type options struct {
	mw *observe.Middleware
}

// WithMiddleware records the call through mw.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(o *options) {
		if mw != nil {
			o.mw = mw
		}
	}
}

// DifferentiateContext is Differentiate recorded as a "diff" call through the
// configured middleware.
func DifferentiateContext(ctx context.Context, mc arith.Config, f arith.Func, x *big.Float, req Request, opts ...Option) (*big.Float, error) {
	o := options{mw: observe.NopMiddleware()}
	for _, opt := range opts {
		opt(&o)
	}

	meta := observe.CallMeta{Op: "diff", Method: req.Direction.String(), Bits: mc.Bits}
	var d *big.Float
	err := o.mw.Run(ctx, meta, func(ctx context.Context, meta observe.CallMeta) (err error) {
		o.mw.Logger(meta).Debug(ctx, "stencil",
			observe.Field{Key: "order", Value: req.Order},
			observe.Field{Key: "working_bits", Value: req.WorkingBits(mc.Bits)},
		)
		d, err = Differentiate(mc, f, x, req)
		return err
	})
	return d, err
}
