package quad

import (
	"context"
	"math/big"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/observe"
	"github.com/jonwraymond/scicalc/quad/rule"
)

// WorkingGuardBits is the extra precision every integration is carried out
// with above the caller's precision.
const WorkingGuardBits = 20

// Result is the outcome of an integration.
type Result struct {
	// Value is the integral rounded to the caller's precision.
	Value *big.Float

	// ErrorEstimate is the summed error estimate of all sub-intervals.
	ErrorEstimate *big.Float

	// Converged is false when some sub-interval exhausted the maximum
	// degree before its error estimate fell below 2^(1-bits).
	Converged bool

	// Evaluations counts the nodes the integrand was sampled at.
	Evaluations int
}

// Integrator computes definite integrals.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: malformed calls fail with an error wrapping ErrInvalidArgument
//     before any evaluation; non-convergence is reported in Result.
type Integrator interface {
	// Quad integrates f over every consecutive pair of points and sums the
	// pieces in order. len(points) must be even.
	Quad(ctx context.Context, mc arith.Config, f arith.Func, points []*big.Float, opts ...CallOption) (Result, error)

	// Method reports the quadrature rule in use.
	Method() Method

	// DropCaches discards every cached node set.
	DropCaches()
}

// New returns the integrator for method.
func New(method Method, opts ...Option) (Integrator, error) {
	switch method {
	case MethodGaussLegendre:
		return NewGaussLegendre(opts...), nil
	case MethodTanhSinh:
		return NewTanhSinh(opts...), nil
	default:
		return nil, ErrUnknownMethod
	}
}

// scheme is what distinguishes the two integrators: how nodes are generated
// and how one degree's weighted sum becomes an estimate.
type scheme interface {
	method() Method
	generate(bits uint, degree int) []rule.Node
	// seed returns the starting value of the weighted sum at degree, given
	// the estimate of the previous degree (nil at degree 1).
	seed(w arith.Config, degree int, prev *big.Float) *big.Float
	// finish turns the weighted sum into the degree's estimate.
	finish(w arith.Config, degree int, sum *big.Float) *big.Float
}

// engine is the adaptive refinement loop shared by both integrators.
type engine struct {
	scheme      scheme
	src         *nodeSource
	mw          *observe.Middleware
	capacity    int
	concurrency int
}

func newEngine(s scheme, opts []Option) engine {
	e := engine{
		scheme:      s,
		src:         &nodeSource{method: s.method(), generate: s.generate},
		mw:          observe.NopMiddleware(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(&e)
	}
	if e.src.cache == nil {
		e.src.cache = NewNodeCache(e.capacity)
	}
	e.src.metrics = e.mw.Metrics()
	return e
}

// Method reports the quadrature rule in use.
func (e *engine) Method() Method {
	return e.scheme.method()
}

// DropCaches discards every cached node set. Calls in flight keep the sets
// they already hold.
func (e *engine) DropCaches() {
	e.src.cache.Drop()
}

// CacheStats returns the node cache counters.
func (e *engine) CacheStats() CacheStats {
	return e.src.cache.Stats()
}

// Quad integrates f over [points[0], points[1]], [points[1], points[2]], …
// and returns the sum with its error estimate.
func (e *engine) Quad(ctx context.Context, mc arith.Config, f arith.Func, points []*big.Float, opts ...CallOption) (Result, error) {
	if err := mc.Validate(); err != nil {
		return Result{}, err
	}
	if f == nil {
		return Result{}, ErrNilFunc
	}
	if len(points)%2 != 0 {
		return Result{}, ErrOddPoints
	}
	if slices.Contains(points, nil) {
		return Result{}, ErrNilPoint
	}
	co := callOptions{maxDegree: GuessDegree(mc.Bits)}
	for _, opt := range opts {
		opt(&co)
	}
	if co.maxDegree < 1 {
		return Result{}, ErrInvalidMaxDegree
	}

	meta := observe.CallMeta{Op: "quad", Method: e.Method().String(), Bits: mc.Bits}
	var res Result
	err := e.mw.Run(ctx, meta, func(ctx context.Context, meta observe.CallMeta) (err error) {
		defer arith.RecoverNaN(&err)
		res, err = e.integrate(ctx, meta, mc, f, points, co.maxDegree)
		return err
	})
	return res, err
}

func (e *engine) integrate(ctx context.Context, meta observe.CallMeta, mc arith.Config, f arith.Func, points []*big.Float, maxDegree int) (Result, error) {
	w := mc.Boost(WorkingGuardBits)
	eps := mc.Ldexp(1, 1-int(mc.Bits))

	total := mc.New()
	totalErr := w.New()
	res := Result{Converged: true}

	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		if a.Cmp(b) == 0 {
			continue
		}
		g := f
		if arith.IsNegInf(a) && arith.IsPosInf(b) {
			a, g = w.New(), fold(f)
		}

		iv, err := e.refine(ctx, meta, w, eps, g, a, b, maxDegree)
		if err != nil {
			return Result{}, err
		}
		total.Add(total, iv.value)
		totalErr.Add(totalErr, iv.err)
		res.Evaluations += iv.evaluations
		res.Converged = res.Converged && iv.converged
	}

	res.Value = total
	res.ErrorEstimate = mc.Round(totalErr)
	return res, nil
}

// fold returns x ↦ f(x) + f(-x), which carries an integral over the real
// line onto [0, +∞).
func fold(f arith.Func) arith.Func {
	return func(c arith.Config, x *big.Float) *big.Float {
		return c.Add(f(c, c.Neg(x)), f(c, x))
	}
}

// interval is the outcome of refining one sub-interval.
type interval struct {
	value       *big.Float
	err         *big.Float
	converged   bool
	degree      int
	evaluations int
}

// refine runs the degree-refinement loop on [a, b] at working precision w.
func (e *engine) refine(ctx context.Context, meta observe.CallMeta, w arith.Config, eps *big.Float, f arith.Func, a, b *big.Float, maxDegree int) (interval, error) {
	log := e.mw.Logger(meta)
	results := make([]*big.Float, 0, maxDegree)
	iv := interval{err: w.New()}

	for degree := 1; degree <= maxDegree; degree++ {
		nodes, err := e.src.nodes(ctx, meta, w.Bits, degree, a, b)
		if err != nil {
			return interval{}, err
		}
		values, err := e.evaluate(w, f, nodes)
		if err != nil {
			return interval{}, err
		}
		iv.evaluations += len(nodes)

		var prev *big.Float
		if len(results) > 0 {
			prev = results[len(results)-1]
		}
		sum := e.scheme.seed(w, degree, prev)
		for j := range nodes {
			sum.Add(sum, w.Mul(nodes[j].W, values[j]))
		}
		results = append(results, e.scheme.finish(w, degree, sum))
		iv.degree = degree

		if degree > 1 {
			iv.err = EstimateError(w.Bits, eps, results)
			log.Debug(ctx, "refinement step",
				observe.Field{Key: "degree", Value: degree},
				observe.Field{Key: "nodes", Value: len(nodes)},
				observe.Field{Key: "error", Value: iv.err.Text('g', 6)},
			)
			if iv.err.Cmp(eps) < 0 {
				iv.converged = true
				break
			}
		}
	}
	if len(results) == 1 {
		iv.err = EstimateError(w.Bits, eps, results)
	}

	e.mw.Metrics().RecordRefinement(ctx, meta, iv.degree, iv.converged)
	if !iv.converged {
		log.Warn(ctx, "maximum degree reached without convergence",
			observe.Field{Key: "a", Value: a.Text('g', 10)},
			observe.Field{Key: "b", Value: b.Text('g', 10)},
			observe.Field{Key: "max_degree", Value: maxDegree},
			observe.Field{Key: "error", Value: iv.err.Text('g', 6)},
		)
	}

	iv.value = results[len(results)-1]
	return iv, nil
}

// evaluate samples f at every node, with up to e.concurrency goroutines.
func (e *engine) evaluate(w arith.Config, f arith.Func, nodes []rule.Node) ([]*big.Float, error) {
	values := make([]*big.Float, len(nodes))
	if e.concurrency <= 1 {
		for j := range nodes {
			v, err := evalAt(w, f, nodes[j].X)
			if err != nil {
				return nil, err
			}
			values[j] = v
		}
		return values, nil
	}

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for j := range nodes {
		g.Go(func() error {
			v, err := evalAt(w, f, nodes[j].X)
			values[j] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

func evalAt(w arith.Config, f arith.Func, x *big.Float) (v *big.Float, err error) {
	defer arith.RecoverNaN(&err)
	return f(w, x), nil
}

// GaussLegendre integrates with Gauss–Legendre rules of 3·2^(d-1) nodes at
// degree d. Every degree is a fresh rule; no evaluations are reused.
type GaussLegendre struct {
	engine
}

// NewGaussLegendre returns a Gauss–Legendre integrator with its own node cache.
func NewGaussLegendre(opts ...Option) *GaussLegendre {
	return &GaussLegendre{engine: newEngine(gaussLegendre{}, opts)}
}

type gaussLegendre struct{}

func (gaussLegendre) method() Method { return MethodGaussLegendre }

func (gaussLegendre) generate(bits uint, degree int) []rule.Node {
	return rule.GaussLegendre(bits, degree)
}

func (gaussLegendre) seed(w arith.Config, _ int, _ *big.Float) *big.Float {
	return w.New()
}

func (gaussLegendre) finish(_ arith.Config, _ int, sum *big.Float) *big.Float {
	return sum
}

// TanhSinh integrates with the tanh-sinh rule of step 2^-d at degree d.
// Each degree only samples the nodes the previous step skipped and reuses
// the previous estimate for the rest.
type TanhSinh struct {
	engine
}

// NewTanhSinh returns a tanh-sinh integrator with its own node cache.
func NewTanhSinh(opts ...Option) *TanhSinh {
	return &TanhSinh{engine: newEngine(tanhSinh{}, opts)}
}

type tanhSinh struct{}

func (tanhSinh) method() Method { return MethodTanhSinh }

func (tanhSinh) generate(bits uint, degree int) []rule.Node {
	return rule.TanhSinh(bits, degree)
}

// seed returns prev/(2h): the previous estimate divided by its own step.
func (tanhSinh) seed(w arith.Config, degree int, prev *big.Float) *big.Float {
	if prev == nil {
		return w.New()
	}
	s := w.Round(prev)
	return s.SetMantExp(s, degree-1)
}

func (tanhSinh) finish(w arith.Config, degree int, sum *big.Float) *big.Float {
	return sum.SetMantExp(sum, -degree)
}

var (
	_ Integrator = (*GaussLegendre)(nil)
	_ Integrator = (*TanhSinh)(nil)
)
