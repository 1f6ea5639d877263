package cli

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/diff"
	"github.com/jonwraymond/scicalc/health"
	"github.com/jonwraymond/scicalc/quad"
	"github.com/jonwraymond/scicalc/summation"
)

// checkSlackBits is how far below the working precision a self-check may
// land and still count as healthy.
const checkSlackBits = 8

// CheckOutput is the printed form of a self-check report.
type CheckOutput struct {
	health.Report
}

func (o CheckOutput) String() string {
	var b strings.Builder
	for _, c := range o.Checks {
		fmt.Fprintf(&b, "%-22s%-11s%s\n", c.Name, c.Status, c.Message)
	}
	fmt.Fprintf(&b, "overall: %s", o.Status)
	return b.String()
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Recompute known integrals, derivatives and sums",
		Long: `Run the self-checks: each method integrates a function with a known
integral, a derivative and an infinite sum are compared with their closed
forms, and the node caches report their usage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())
			return runCheck(cmd.Context(), s)
		},
	}
}

func runCheck(ctx context.Context, s *session) error {
	gl, err := s.integrator(quad.MethodGaussLegendre)
	if err != nil {
		return s.fail(err)
	}
	ts, err := s.integrator(quad.MethodTanhSinh)
	if err != nil {
		return s.fail(err)
	}

	agg := health.NewAggregator(health.AggregatorConfig{Timeout: s.cfg.Timeout, Parallel: 1})
	for _, c := range selfChecks(s.mc, gl, ts) {
		agg.Register(c)
	}
	for _, q := range []quad.Integrator{gl, ts} {
		if src, ok := q.(health.StatsSource); ok {
			agg.Register(health.NewCacheChecker("cache/"+q.Method().String(), src))
		}
	}

	report := agg.CheckAll(ctx)
	if err := s.out.Success(CheckOutput{report}); err != nil {
		return err
	}
	if report.Status == health.StatusUnhealthy {
		return NewExitError(ExitFailure, ErrCodeUnhealthy)
	}
	return nil
}

func selfChecks(mc arith.Config, gl, ts quad.Integrator) []health.Checker {
	bits := mc.Bits
	if bits > checkSlackBits {
		bits -= checkSlackBits
	}
	w := mc.Boost(32)
	lorentz := catalogue["lorentz"].F
	expNeg := catalogue["exp-neg"].F
	exp := catalogue["exp"].F

	return []health.Checker{
		// 4·∫₀¹ 1/(1+x²) dx = π
		health.NewToleranceChecker("quad/"+gl.Method().String(), bits, func(ctx context.Context) (*big.Float, *big.Float, error) {
			res, err := gl.Quad(ctx, mc, lorentz, []*big.Float{mc.Int(0), mc.Int(1)})
			if err != nil {
				return nil, nil, err
			}
			return mc.Scale(res.Value, 4), arith.Pi(w), nil
		}),
		// ∫₀^∞ e^-x dx = 1
		health.NewToleranceChecker("quad/"+ts.Method().String(), bits, func(ctx context.Context) (*big.Float, *big.Float, error) {
			res, err := ts.Quad(ctx, mc, expNeg, []*big.Float{mc.Int(0), mc.New().SetInf(false)})
			if err != nil {
				return nil, nil, err
			}
			return res.Value, w.Int(1), nil
		}),
		// (e^x)'' at 0 = 1
		health.NewToleranceChecker("diff", bits, func(context.Context) (*big.Float, *big.Float, error) {
			d, err := diff.Derivative(mc, exp, mc.New(), 2)
			return d, w.Int(1), err
		}),
		// Σ_{n≥1} e^-n = 1/(e-1)
		health.NewToleranceChecker("summation", bits, func(ctx context.Context) (*big.Float, *big.Float, error) {
			res, err := summation.Sum(ctx, mc, expNeg, mc.Int(1), mc.New().SetInf(false), summation.WithIntegrator(gl))
			if err != nil {
				return nil, nil, err
			}
			e := arith.Exp(w, w.Int(1))
			return res.Value, w.Quo(w.Int(1), w.Sub(e, w.Int(1))), nil
		}),
	}
}
