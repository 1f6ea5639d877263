package quad

import (
	"fmt"
	"math"
	"strings"
)

// Method selects a quadrature rule.
type Method int

const (
	// MethodGaussLegendre uses Gauss–Legendre nodes, optimal for smooth integrands.
	MethodGaussLegendre Method = iota
	// MethodTanhSinh uses the doubly exponential tanh-sinh substitution.
	MethodTanhSinh
)

// String returns the canonical method name.
func (m Method) String() string {
	switch m {
	case MethodGaussLegendre:
		return "gauss-legendre"
	case MethodTanhSinh:
		return "tanh-sinh"
	default:
		return "unknown"
	}
}

// ParseMethod parses a method name or its short form (gl, ts).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gl", "gauss-legendre", "gausslegendre", "legendre":
		return MethodGaussLegendre, nil
	case "ts", "tanh-sinh", "tanhsinh":
		return MethodTanhSinh, nil
	default:
		return MethodGaussLegendre, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// GuessDegree returns the default maximum degree for a precision:
// 6 + max(0, ⌈log2(bits/30)⌉).
func GuessDegree(bits uint) int {
	extra := math.Ceil(math.Log2(float64(bits) / 30))
	if extra < 0 {
		extra = 0
	}
	return 6 + int(extra)
}
