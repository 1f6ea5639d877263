package arith

import (
	"fmt"
	"math/big"
	"strings"
)

// Precision limits accepted by Config.Validate.
const (
	MinBits = 1
	MaxBits = 1 << 24
)

// Rounding selects the rounding mode applied to every result.
type Rounding int

const (
	// Nearest rounds to the nearest value, ties to even.
	Nearest Rounding = iota
	// Up rounds toward +Inf.
	Up
	// Down rounds toward -Inf.
	Down
	// Zero rounds toward zero.
	Zero
)

// String returns the string representation of the rounding mode.
func (r Rounding) String() string {
	switch r {
	case Nearest:
		return "nearest"
	case Up:
		return "up"
	case Down:
		return "down"
	case Zero:
		return "zero"
	default:
		return "unknown"
	}
}

// Mode returns the math/big rounding mode for r.
func (r Rounding) Mode() big.RoundingMode {
	switch r {
	case Up:
		return big.ToPositiveInf
	case Down:
		return big.ToNegativeInf
	case Zero:
		return big.ToZero
	default:
		return big.ToNearestEven
	}
}

// ParseRounding parses a rounding mode name. The empty string is Nearest.
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return Nearest, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "zero":
		return Zero, nil
	default:
		return Nearest, fmt.Errorf("%w: %q", ErrInvalidRounding, s)
	}
}

// Config is an immutable precision and rounding configuration.
//
// Every helper method allocates a fresh result with Bits of precision and the
// configured rounding mode; operands are never modified.
type Config struct {
	Bits     uint
	Rounding Rounding
}

// NewConfig returns a Config with the given precision, rounding to nearest.
func NewConfig(bits uint) Config {
	return Config{Bits: bits, Rounding: Nearest}
}

// Validate checks the precision and rounding mode.
func (c Config) Validate() error {
	if c.Bits < MinBits || c.Bits > MaxBits {
		return fmt.Errorf("%w: got %d", ErrInvalidPrecision, c.Bits)
	}
	if c.Rounding < Nearest || c.Rounding > Zero {
		return fmt.Errorf("%w: %d", ErrInvalidRounding, int(c.Rounding))
	}
	return nil
}

// Boost returns a copy of c with n extra bits of precision.
func (c Config) Boost(n uint) Config {
	return Config{Bits: c.Bits + n, Rounding: c.Rounding}
}

// New returns a zero with c's precision and rounding mode.
func (c Config) New() *big.Float {
	return new(big.Float).SetPrec(c.Bits).SetMode(c.Rounding.Mode())
}

// Round returns x rounded to c.
func (c Config) Round(x *big.Float) *big.Float {
	return c.New().Set(x)
}

// Int returns n rounded to c.
func (c Config) Int(n int64) *big.Float {
	return c.New().SetInt64(n)
}

// BigInt returns n rounded to c.
func (c Config) BigInt(n *big.Int) *big.Float {
	return c.New().SetInt(n)
}

// Rat returns r rounded to c.
func (c Config) Rat(r *big.Rat) *big.Float {
	return c.New().SetRat(r)
}

// Ldexp returns m × 2^exp.
func (c Config) Ldexp(m int64, exp int) *big.Float {
	z := c.New().SetInt64(m)
	return z.SetMantExp(z, exp)
}

// Add returns x + y.
func (c Config) Add(x, y *big.Float) *big.Float {
	return c.New().Add(x, y)
}

// Sub returns x - y.
func (c Config) Sub(x, y *big.Float) *big.Float {
	return c.New().Sub(x, y)
}

// Mul returns x × y.
func (c Config) Mul(x, y *big.Float) *big.Float {
	return c.New().Mul(x, y)
}

// Quo returns x / y.
func (c Config) Quo(x, y *big.Float) *big.Float {
	return c.New().Quo(x, y)
}

// Neg returns -x.
func (c Config) Neg(x *big.Float) *big.Float {
	return c.New().Neg(x)
}

// Abs returns |x|.
func (c Config) Abs(x *big.Float) *big.Float {
	return c.New().Abs(x)
}

// Sqrt returns √x. It panics with big.ErrNaN for x < 0.
func (c Config) Sqrt(x *big.Float) *big.Float {
	if x.IsInf() && x.Sign() > 0 {
		return c.New().SetInf(false)
	}
	return c.New().Sqrt(x)
}

// Scale returns x × k.
func (c Config) Scale(x *big.Float, k int64) *big.Float {
	return c.New().Mul(x, new(big.Float).SetInt64(k))
}

// Unscale returns x / k.
func (c Config) Unscale(x *big.Float, k int64) *big.Float {
	return c.New().Quo(x, new(big.Float).SetInt64(k))
}

// Half returns x / 2, exactly up to rounding to c.
func (c Config) Half(x *big.Float) *big.Float {
	z := c.New().Set(x)
	return z.SetMantExp(z, -1)
}

// PowInt returns x^n by repeated squaring. PowInt(x, 0) is 1.
func (c Config) PowInt(x *big.Float, n uint) *big.Float {
	result := c.Int(1)
	base := c.Round(x)
	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, base)
		}
		n >>= 1
		if n > 0 {
			base.Mul(base, base)
		}
	}
	return result
}

// Pow10 returns 10^k for any integer k.
func (c Config) Pow10(k int) *big.Float {
	if k == 0 {
		return c.Int(1)
	}
	abs := k
	if abs < 0 {
		abs = -abs
	}
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs)), nil)
	if k > 0 {
		return c.BigInt(p)
	}
	return c.New().Quo(c.Int(1), new(big.Float).SetInt(p))
}
