package diff

import (
	"fmt"
	"math/big"
	"strings"
)

// Direction selects where the stencil samples relative to x.
type Direction int

const (
	// Central samples symmetrically around x.
	Central Direction = iota
	// Left samples at and below x.
	Left
	// Right samples at and above x.
	Right
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Central:
		return "central"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name or its initial (c, l, r).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "central":
		return Central, nil
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	default:
		return Central, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// A Point is a stencil location in units of the step, with its exact
// integer coefficient.
type Point struct {
	Loc   int
	Coeff *big.Int
}

// Formula approximates the derivative of order Order as
//
//	d^n f(x) ≈ Σ Coeff_i · f(x + Loc_i·h) / (Spacing·h)^n
//
// for a positive step h.
type Formula struct {
	Stencil []Point
	Order   int
	Spacing int
}

// NewFormula returns the n-th difference formula for dir.
//
// Central samples offsets -n, -n+2, …, n with spacing 2; Right samples
// 0, 1, …, n and Left 0, -1, …, -n with spacing 1. Coefficients are the
// alternating binomials (-1)^(n-i)·C(n, i), built by the exact recurrence
// b₀ = (-1)^n, b_{i+1} = b_i·(i-n)/(i+1).
func NewFormula(n int, dir Direction) Formula {
	if n < 0 {
		n = 0
	}
	f := Formula{Order: n, Spacing: 1, Stencil: make([]Point, n+1)}
	if dir == Central {
		f.Spacing = 2
	}

	b := big.NewInt(1)
	if n%2 == 1 {
		b.Neg(b)
	}
	for i := 0; i <= n; i++ {
		p := Point{Coeff: new(big.Int).Set(b)}
		switch dir {
		case Central:
			p.Loc = 2*i - n
		case Left:
			// f(x - i·h) / (-h)^n: fold the sign of (-1)^n into the coefficient.
			p.Loc = -i
			if n%2 == 1 {
				p.Coeff.Neg(p.Coeff)
			}
		default:
			p.Loc = i
		}
		f.Stencil[i] = p

		b.Mul(b, big.NewInt(int64(i-n)))
		b.Quo(b, big.NewInt(int64(i+1)))
	}
	return f
}
