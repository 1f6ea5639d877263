package summation

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/diff"
	"github.com/jonwraymond/scicalc/observe"
	"github.com/jonwraymond/scicalc/quad"
)

const (
	// GuardBits is the extra precision the correction series and the
	// integral are computed with.
	GuardBits = 10

	// MaxTerms bounds the derivative order of the correction series.
	MaxTerms = 10000

	// toleranceBits puts the cut-off at 2^-(bits+toleranceBits).
	toleranceBits = 4

	// A term less than this many times smaller than its predecessor means
	// the asymptotic series has started to diverge.
	minShrink = 10
)

// Sum returns Σ_{n=a}^{b} f(n) for integer-spaced a, b, either of which may
// be infinite.
//
// Result.ErrorEstimate is the integral's error plus, when the correction
// series stalled, the magnitude of its last term. Converged is false when
// the series stalled or the integral did not converge. Evaluations counts
// the calls Sum made to f, including those inside the integrator.
func Sum(ctx context.Context, mc arith.Config, f arith.Func, a, b *big.Float, opts ...Option) (quad.Result, error) {
	if err := mc.Validate(); err != nil {
		return quad.Result{}, err
	}
	if f == nil {
		return quad.Result{}, ErrNilFunc
	}
	if a.Cmp(b) > 0 || arith.IsPosInf(a) || arith.IsNegInf(b) {
		return quad.Result{}, fmt.Errorf("%w: [%s, %s]", ErrInvalidRange, a.Text('g', 10), b.Text('g', 10))
	}

	o := options{mw: observe.NopMiddleware()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.integrator == nil && o.integral == nil {
		o.integrator = quad.NewGaussLegendre(quad.WithMiddleware(o.mw))
	}

	meta := observe.CallMeta{Op: "sum", Bits: mc.Bits}
	if o.integral == nil {
		meta.Method = o.integrator.Method().String()
	}
	var res quad.Result
	err := o.mw.Run(ctx, meta, func(ctx context.Context, meta observe.CallMeta) (err error) {
		defer arith.RecoverNaN(&err)
		res, err = sum(ctx, meta, o, mc, f, a, b)
		return err
	})
	return res, err
}

// counted wraps f so every evaluation increments n.
func counted(f arith.Func, n *atomic.Int64) arith.Func {
	return func(c arith.Config, x *big.Float) *big.Float {
		n.Add(1)
		return f(c, x)
	}
}

func sum(ctx context.Context, meta observe.CallMeta, o options, mc arith.Config, f arith.Func, a, b *big.Float) (quad.Result, error) {
	var evals atomic.Int64
	f = counted(f, &evals)
	w := mc.Boost(GuardBits)
	log := o.mw.Logger(meta)

	seqA, seqB := diff.Zeros(), diff.Zeros()
	if !arith.IsNegInf(a) {
		seqA = o.derivA
		if seqA == nil {
			seqA = diff.NewSequence(mc, f, a, diff.DefaultRequest(0))
		}
	}
	if !arith.IsPosInf(b) {
		seqB = o.derivB
		if seqB == nil {
			seqB = diff.NewSequence(mc, f, b, diff.DefaultRequest(0))
		}
	}

	corr, corrErr, settled, err := corrections(w, seqA, seqB)
	if err != nil {
		return quad.Result{}, err
	}
	if !settled {
		log.Warn(ctx, "correction series did not settle",
			observe.Field{Key: "error", Value: corrErr.Text('g', 6)},
		)
	}

	if !arith.IsNegInf(a) {
		corr.Add(corr, w.Half(f(w, a)))
	}
	if !arith.IsPosInf(b) {
		corr.Add(corr, w.Half(f(w, b)))
	}

	integral := o.integral
	if integral == nil {
		r, err := o.integrator.Quad(ctx, w, f, []*big.Float{a, b})
		if err != nil {
			return quad.Result{}, err
		}
		integral = &r
	}

	total := w.Add(integral.Value, corr)
	totalErr := w.Add(corrErr, integralError(integral))
	return quad.Result{
		Value:         mc.Round(total),
		ErrorEstimate: mc.Round(totalErr),
		Converged:     settled && integral.Converged,
		Evaluations:   int(evals.Load()),
	}, nil
}

func integralError(r *quad.Result) *big.Float {
	if r.ErrorEstimate == nil {
		return new(big.Float)
	}
	return r.ErrorEstimate
}

// corrections sums the Bernoulli terms of odd order at precision w. Both
// sequences advance once per order whether or not the order contributes.
// settled is false when the terms stopped shrinking or MaxTerms ran out.
func corrections(w arith.Config, seqA, seqB diff.Sequence) (s, errEst *big.Float, settled bool, err error) {
	eps := w.Ldexp(1, -int(w.Bits-GuardBits+toleranceBits))
	s, errEst = w.New(), w.New()
	var prev *big.Float

	for k := 0; k <= MaxTerms; k++ {
		da, err := seqA.Next()
		if err != nil {
			return nil, nil, false, fmt.Errorf("derivative %d at a: %w", k, err)
		}
		db, err := seqB.Next()
		if err != nil {
			return nil, nil, false, fmt.Errorf("derivative %d at b: %w", k, err)
		}
		if k%2 == 0 {
			continue
		}

		term := w.Mul(w.Sub(db, da), arith.BernoulliOverFactorial(w, k+1))
		mag := w.Abs(term)
		if k > 4 {
			if mag.Cmp(eps) < 0 {
				s.Add(s, term)
				return s, errEst, true, nil
			}
			if w.Quo(w.Abs(prev), mag).Cmp(w.Int(minShrink)) < 0 {
				errEst.Add(errEst, mag)
				return s, errEst, false, nil
			}
		}
		s.Add(s, term)
		prev = term
	}
	return s, errEst, false, nil
}
