package cli

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/diff"
	"github.com/jonwraymond/scicalc/quad"
	"github.com/jonwraymond/scicalc/summation"
)

func isArgumentError(err error) bool {
	for _, target := range []error{
		ErrInvalidNumber,
		arith.ErrInvalidPrecision,
		arith.ErrInvalidRounding,
		quad.ErrInvalidArgument,
		diff.ErrNegativeOrder,
		diff.ErrUnknownDirection,
		diff.ErrNilFunc,
		summation.ErrInvalidArgument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ResultOutput is the printed form of an integral or a sum.
type ResultOutput struct {
	Function      string   `json:"function"`
	Method        string   `json:"method"`
	Bits          uint     `json:"bits"`
	Points        []string `json:"points"`
	Value         string   `json:"value"`
	ErrorEstimate string   `json:"error_estimate"`
	Converged     bool     `json:"converged"`
	Evaluations   int      `json:"evaluations"`
}

func (o ResultOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "function: %s\n", o.Function)
	fmt.Fprintf(&b, "method: %s\n", o.Method)
	fmt.Fprintf(&b, "points: %s\n", strings.Join(o.Points, " "))
	fmt.Fprintf(&b, "value: %s\n", o.Value)
	fmt.Fprintf(&b, "error: %s\n", o.ErrorEstimate)
	fmt.Fprintf(&b, "converged: %t\n", o.Converged)
	fmt.Fprintf(&b, "evaluations: %d", o.Evaluations)
	return b.String()
}

func newResultOutput(s *session, fn Function, method quad.Method, points []*big.Float, res quad.Result) ResultOutput {
	digits := s.cfg.DisplayDigits()
	out := ResultOutput{
		Function:      fn.Name,
		Method:        method.String(),
		Bits:          s.mc.Bits,
		Value:         res.Value.Text('g', digits),
		ErrorEstimate: res.ErrorEstimate.Text('g', 3),
		Converged:     res.Converged,
		Evaluations:   res.Evaluations,
	}
	for _, p := range points {
		out.Points = append(out.Points, p.Text('g', digits))
	}
	return out
}

// NewQuadCommand creates the quad command.
func NewQuadCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		method    string
		maxDegree int
	)

	cmd := &cobra.Command{
		Use:   "quad <function> <a> <b> [<c> <d> ...]",
		Short: "Integrate a function over consecutive intervals",
		Long: `Integrate a catalogued function over [a, b], [b, c], ... and print the
sum with its error estimate. Endpoints may be inf or -inf.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			if cmd.Flags().Changed("method") {
				s.cfg.Quad.Method = method
			}
			if cmd.Flags().Changed("max-degree") {
				s.cfg.Quad.MaxDegree = maxDegree
			}
			return runQuad(cmd.Context(), s, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "gauss-legendre", "quadrature method (gl|ts)")
	cmd.Flags().IntVar(&maxDegree, "max-degree", 0, "maximum refinement degree (0: by precision)")
	return cmd
}

func runQuad(ctx context.Context, s *session, name string, args []string) error {
	fn, err := LookupFunction(name)
	if err != nil {
		return s.fail(err)
	}
	points, err := parsePoints(s.mc, args)
	if err != nil {
		return s.fail(err)
	}
	method, err := s.cfg.Method()
	if err != nil {
		return s.fail(err)
	}
	q, err := s.integrator(method)
	if err != nil {
		return s.fail(err)
	}

	var copts []quad.CallOption
	if s.cfg.Quad.MaxDegree > 0 {
		copts = append(copts, quad.MaxDegree(s.cfg.Quad.MaxDegree))
	}
	res, err := runTimed(ctx, s, func(ctx context.Context) (quad.Result, error) {
		return q.Quad(ctx, s.mc, fn.F, points, copts...)
	})
	if err != nil {
		return s.fail(err)
	}
	return s.out.Success(newResultOutput(s, fn, method, points, res))
}

// DiffOutput is the printed form of a derivative.
type DiffOutput struct {
	Function  string `json:"function"`
	X         string `json:"x"`
	Order     int    `json:"order"`
	Direction string `json:"direction"`
	Bits      uint   `json:"bits"`
	Value     string `json:"value"`
}

func (o DiffOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "function: %s\n", o.Function)
	fmt.Fprintf(&b, "x: %s\n", o.X)
	fmt.Fprintf(&b, "order: %d\n", o.Order)
	fmt.Fprintf(&b, "direction: %s\n", o.Direction)
	fmt.Fprintf(&b, "value: %s", o.Value)
	return b.String()
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		order     int
		direction string
		guard     uint
		singular  bool
		relative  bool
	)

	cmd := &cobra.Command{
		Use:   "diff <function> <x>",
		Short: "Differentiate a function at a point",
		Long: `Compute a derivative of any order by finite differences at a working
precision that grows with the order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			dir, err := diff.ParseDirection(direction)
			if err != nil {
				return s.fail(err)
			}
			req := diff.Request{
				Order:        order,
				Direction:    dir,
				GuardBits:    guard,
				RelativeStep: relative,
				Singular:     singular,
			}
			return runDiff(cmd.Context(), s, args[0], args[1], req)
		},
	}

	cmd.Flags().IntVarP(&order, "order", "n", 1, "derivative order")
	cmd.Flags().StringVarP(&direction, "direction", "d", "central", "stencil direction (left|central|right)")
	cmd.Flags().UintVar(&guard, "guard", diff.DefaultGuardBits, "guard bits")
	cmd.Flags().BoolVar(&singular, "singular", false, "never evaluate the function at x itself")
	cmd.Flags().BoolVar(&relative, "relative", false, "scale the step with the magnitude of x")
	return cmd
}

func runDiff(ctx context.Context, s *session, name, xs string, req diff.Request) error {
	fn, err := LookupFunction(name)
	if err != nil {
		return s.fail(err)
	}
	x, err := parsePoint(s.mc, xs)
	if err != nil {
		return s.fail(err)
	}

	d, err := runTimed(ctx, s, func(context.Context) (*big.Float, error) {
		return diff.DifferentiateContext(ctx, s.mc, fn.F, x, req, diff.WithMiddleware(s.mw))
	})
	if err != nil {
		return s.fail(err)
	}

	digits := s.cfg.DisplayDigits()
	return s.out.Success(DiffOutput{
		Function:  fn.Name,
		X:         x.Text('g', digits),
		Order:     req.Order,
		Direction: req.Direction.String(),
		Bits:      s.mc.Bits,
		Value:     d.Text('g', digits),
	})
}

// NewSumCommand creates the sum command.
func NewSumCommand(rootOpts *RootOptions) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "sum <function> <a> <b>",
		Short: "Sum a function over the integers from a to b",
		Long: `Evaluate f(a) + f(a+1) + ... + f(b) with the Euler-Maclaurin formula.
b may be inf, a may be -inf.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			if cmd.Flags().Changed("method") {
				s.cfg.Quad.Method = method
			}
			return runSum(cmd.Context(), s, args[0], args[1:])
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "gauss-legendre", "quadrature method for the integral (gl|ts)")
	return cmd
}

func runSum(ctx context.Context, s *session, name string, args []string) error {
	fn, err := LookupFunction(name)
	if err != nil {
		return s.fail(err)
	}
	points, err := parsePoints(s.mc, args)
	if err != nil {
		return s.fail(err)
	}
	method, err := s.cfg.Method()
	if err != nil {
		return s.fail(err)
	}
	q, err := s.integrator(method)
	if err != nil {
		return s.fail(err)
	}

	res, err := runTimed(ctx, s, func(ctx context.Context) (quad.Result, error) {
		return summation.Sum(ctx, s.mc, fn.F, points[0], points[1],
			summation.WithIntegrator(q),
			summation.WithMiddleware(s.mw),
		)
	})
	if err != nil {
		return s.fail(err)
	}
	return s.out.Success(newResultOutput(s, fn, method, points, res))
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the function catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.cfg.Format, Writer: cmd.OutOrStdout()}
			return out.Success(Functions())
		},
	}
}
