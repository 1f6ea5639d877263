package cli

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/jonwraymond/scicalc/arith"
)

var (
	// ErrUnknownFunction indicates a function name missing from the catalogue.
	ErrUnknownFunction = errors.New("cli: unknown function")

	// ErrInvalidNumber indicates an argument that does not parse as a number.
	ErrInvalidNumber = errors.New("cli: invalid number")
)

// Function is a catalogued real function.
type Function struct {
	Name    string     `json:"name"`
	Formula string     `json:"formula"`
	F       arith.Func `json:"-"`
}

var catalogue = map[string]Function{
	"cube": {Formula: "x^3 - 2x", F: func(c arith.Config, x *big.Float) *big.Float {
		return c.Sub(c.Mul(x, c.Mul(x, x)), c.Scale(x, 2))
	}},
	"exp": {Formula: "e^x", F: func(c arith.Config, x *big.Float) *big.Float {
		return arith.Exp(c, x)
	}},
	"exp-neg": {Formula: "e^-x", F: func(c arith.Config, x *big.Float) *big.Float {
		return arith.Exp(c, c.Neg(x))
	}},
	"gauss": {Formula: "e^(-x^2)", F: func(c arith.Config, x *big.Float) *big.Float {
		return arith.Exp(c, c.Neg(c.Mul(x, x)))
	}},
	"inv-square": {Formula: "1/x^2", F: func(c arith.Config, x *big.Float) *big.Float {
		return c.Quo(c.Int(1), c.Mul(x, x))
	}},
	"lorentz": {Formula: "1/(1+x^2)", F: func(c arith.Config, x *big.Float) *big.Float {
		return c.Quo(c.Int(1), c.Add(c.Int(1), c.Mul(x, x)))
	}},
	"recip": {Formula: "1/x", F: func(c arith.Config, x *big.Float) *big.Float {
		return c.Quo(c.Int(1), x)
	}},
	"rsqrt": {Formula: "1/sqrt(x)", F: func(c arith.Config, x *big.Float) *big.Float {
		return c.Quo(c.Int(1), c.Sqrt(x))
	}},
	"sqrt": {Formula: "sqrt(x)", F: func(c arith.Config, x *big.Float) *big.Float {
		return c.Sqrt(x)
	}},
	"square": {Formula: "x^2", F: func(c arith.Config, x *big.Float) *big.Float {
		return c.Mul(x, x)
	}},
}

// LookupFunction returns the catalogued function called name.
func LookupFunction(name string) (Function, error) {
	fn, ok := catalogue[strings.ToLower(name)]
	if !ok {
		return Function{}, fmt.Errorf("%w: %q (see 'scicalc functions')", ErrUnknownFunction, name)
	}
	fn.Name = strings.ToLower(name)
	return fn, nil
}

// Functions returns the catalogue sorted by name.
func Functions() FunctionList {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	slices.Sort(names)

	list := make(FunctionList, len(names))
	for i, name := range names {
		list[i], _ = LookupFunction(name)
	}
	return list
}

// FunctionList prints one function per line.
type FunctionList []Function

func (l FunctionList) String() string {
	var b strings.Builder
	for i, fn := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-12s%s", fn.Name, fn.Formula)
	}
	return b.String()
}

// parsePoint parses a number or one of inf, +inf, -inf at mc.
func parsePoint(mc arith.Config, s string) (*big.Float, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inf", "+inf", "infinity", "+infinity":
		return mc.New().SetInf(false), nil
	case "-inf", "-infinity":
		return mc.New().SetInf(true), nil
	}
	x, ok := arith.Parse(mc, s)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return x, nil
}

func parsePoints(mc arith.Config, args []string) ([]*big.Float, error) {
	points := make([]*big.Float, len(args))
	for i, s := range args {
		p, err := parsePoint(mc, s)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}
