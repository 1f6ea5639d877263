package summation

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/diff"
	"github.com/jonwraymond/scicalc/observe"
	"github.com/jonwraymond/scicalc/quad"
)

func expNeg(c arith.Config, x *big.Float) *big.Float {
	return arith.Exp(c, c.Neg(x))
}

func inverseSquare(c arith.Config, x *big.Float) *big.Float {
	return c.Quo(c.Int(1), c.Mul(x, x))
}

func square(c arith.Config, x *big.Float) *big.Float {
	return c.Mul(x, x)
}

func posInf() *big.Float {
	return new(big.Float).SetInf(false)
}

// geometric returns Σ_{n≥1} e^-n = 1/(e-1).
func geometric(c arith.Config) *big.Float {
	e := arith.Exp(c, c.Int(1))
	return c.Quo(c.Int(1), c.Sub(e, c.Int(1)))
}

// directSum adds f(n) for n = from … to.
func directSum(c arith.Config, f arith.Func, from, to int64) *big.Float {
	s := c.New()
	for n := from; n <= to; n++ {
		s.Add(s, f(c, c.Int(n)))
	}
	return s
}

func within(c arith.Config, got, want, slack *big.Float) bool {
	return c.Abs(c.Sub(got, want)).Cmp(slack) <= 0
}

func TestSum_GeometricTail(t *testing.T) {
	mc := arith.NewConfig(64)
	for _, q := range []quad.Integrator{quad.NewGaussLegendre(), quad.NewTanhSinh()} {
		t.Run(q.Method().String(), func(t *testing.T) {
			res, err := Sum(context.Background(), mc, expNeg, mc.Int(1), posInf(), WithIntegrator(q))
			if err != nil {
				t.Fatalf("Sum: %v", err)
			}
			if !res.Converged {
				t.Errorf("Sum did not converge, error %v", res.ErrorEstimate)
			}
			want := geometric(mc.Boost(20))
			slack := mc.Add(res.ErrorEstimate, mc.Ldexp(1, -58))
			if !within(mc, res.Value, want, slack) {
				t.Errorf("Sum = %v, want %v", res.Value.Text('g', 20), want.Text('g', 20))
			}
			if res.Evaluations == 0 {
				t.Error("Evaluations = 0")
			}
		})
	}
}

func TestSum_FiniteRangeMatchesDirectSum(t *testing.T) {
	mc := arith.NewConfig(64)

	tests := []struct {
		name     string
		f        arith.Func
		from, to int64
	}{
		{"square", square, 1, 10},
		{"exponential", expNeg, 2, 12},
		{"inverse square", inverseSquare, 3, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Sum(context.Background(), mc, tt.f, mc.Int(tt.from), mc.Int(tt.to))
			if err != nil {
				t.Fatalf("Sum: %v", err)
			}
			want := directSum(mc.Boost(20), tt.f, tt.from, tt.to)
			slack := mc.Add(res.ErrorEstimate, mc.Ldexp(1, -54))
			if !within(mc, res.Value, want, slack) {
				t.Errorf("Sum = %v, want %v (error %v)", res.Value.Text('g', 20), want.Text('g', 20), res.ErrorEstimate)
			}
		})
	}
}

func TestSum_StalledSeriesReportsError(t *testing.T) {
	mc := arith.NewConfig(64)

	// The corrections for 1/n² from n = 1 are B₂, B₄, B₆, …, which stop
	// shrinking at B₆; the remainder is charged to the error estimate.
	res, err := Sum(context.Background(), mc, inverseSquare, mc.Int(1), posInf())
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if res.Converged {
		t.Error("Converged = true for a stalled series")
	}
	want := mc.Quo(mc.Mul(arith.Pi(mc), arith.Pi(mc)), mc.Int(6))
	if !within(mc, res.Value, want, res.ErrorEstimate) {
		t.Errorf("|Sum - π²/6| = %v exceeds error %v", mc.Abs(mc.Sub(res.Value, want)), res.ErrorEstimate)
	}
	if got, limit := res.ErrorEstimate, mc.Quo(mc.Int(1), mc.Int(40)); got.Cmp(limit) > 0 {
		t.Errorf("ErrorEstimate = %v, want at most 1/40", got)
	}
}

func TestSum_SuppliedDerivativesAndIntegral(t *testing.T) {
	mc := arith.NewConfig(64)
	w := mc.Boost(GuardBits)
	invE := arith.Exp(w, w.Int(-1))

	derivs := diff.FromFunc(func(k int) *big.Float {
		if k%2 == 1 {
			return w.Neg(invE)
		}
		return invE
	})
	integral := quad.Result{Value: invE, ErrorEstimate: w.New(), Converged: true}

	res, err := Sum(context.Background(), mc, expNeg, mc.Int(1), posInf(),
		WithDerivativesA(derivs),
		WithIntegral(integral),
	)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if !res.Converged {
		t.Error("Converged = false")
	}
	if res.Evaluations != 1 {
		t.Errorf("Evaluations = %d, want 1 (only f(a))", res.Evaluations)
	}
	if want := geometric(w); !within(mc, res.Value, want, mc.Ldexp(1, -60)) {
		t.Errorf("Sum = %v, want %v", res.Value.Text('g', 20), want.Text('g', 20))
	}
}

func TestSum_DegenerateRange(t *testing.T) {
	mc := arith.NewConfig(64)
	three := mc.Int(3)
	res, err := Sum(context.Background(), mc, square, three, three)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if !within(mc, res.Value, mc.Int(9), mc.Ldexp(1, -56)) {
		t.Errorf("Sum = %v, want 9", res.Value)
	}
}

type failingIntegrator struct{ err error }

func (f failingIntegrator) Quad(context.Context, arith.Config, arith.Func, []*big.Float, ...quad.CallOption) (quad.Result, error) {
	return quad.Result{}, f.err
}
func (failingIntegrator) Method() quad.Method { return quad.MethodGaussLegendre }
func (failingIntegrator) DropCaches()         {}

func TestSum_Errors(t *testing.T) {
	mc := arith.NewConfig(64)
	boom := errors.New("boom")
	sqrt := func(c arith.Config, x *big.Float) *big.Float { return c.Sqrt(x) }

	tests := []struct {
		name string
		mc   arith.Config
		f    arith.Func
		a, b *big.Float
		opts []Option
		want error
	}{
		{"invalid precision", arith.Config{}, square, mc.Int(1), mc.Int(2), nil, arith.ErrInvalidPrecision},
		{"nil function", mc, nil, mc.Int(1), mc.Int(2), nil, ErrNilFunc},
		{"reversed", mc, square, mc.Int(2), mc.Int(1), nil, ErrInvalidRange},
		{"starts at +inf", mc, square, posInf(), posInf(), nil, ErrInvalidRange},
		{"nan", mc, sqrt, mc.New(), mc.Int(4), nil, arith.ErrNaN},
		{"integrator failure", mc, square, mc.Int(1), mc.Int(2), []Option{WithIntegrator(failingIntegrator{boom})}, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sum(context.Background(), tt.mc, tt.f, tt.a, tt.b, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if errors.Is(tt.want, ErrInvalidArgument) && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want it to wrap ErrInvalidArgument", err)
			}
		})
	}
}

func TestSum_LogsCall(t *testing.T) {
	var buf bytes.Buffer
	metrics, err := observe.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	mw := observe.NewMiddleware(
		observe.NewTracer(tracenoop.NewTracerProvider().Tracer("test")),
		metrics,
		observe.NewLoggerWithWriter("info", &buf),
	)

	mc := arith.NewConfig(53)
	if _, err := Sum(context.Background(), mc, inverseSquare, mc.Int(1), posInf(), WithMiddleware(mw)); err != nil {
		t.Fatalf("Sum: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"calc.op":"sum"`, "call completed", "correction series did not settle"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
