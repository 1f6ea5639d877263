package arith

import (
	"math/big"
	"sync"
)

// constGuardBits is the extra precision constants are computed with before
// being rounded to the requested precision.
const constGuardBits = 64

// constant memoizes a mathematical constant at the highest precision
// requested so far.
type constant struct {
	mu      sync.Mutex
	bits    uint
	value   *big.Float
	compute func(bits uint) *big.Float
}

func (c *constant) get(cfg Config) *big.Float {
	c.mu.Lock()
	if c.value == nil || c.bits < cfg.Bits {
		c.value = c.compute(cfg.Bits + constGuardBits)
		c.bits = cfg.Bits
	}
	v := c.value
	c.mu.Unlock()
	return cfg.Round(v)
}

var (
	piConst  = &constant{compute: computePi}
	ln2Const = &constant{compute: computeLn2}
)

// Pi returns π rounded to c.
func Pi(c Config) *big.Float {
	return piConst.get(c)
}

// Ln2 returns ln 2 rounded to c.
func Ln2(c Config) *big.Float {
	return ln2Const.get(c)
}

// computePi uses Machin's formula π = 16·atan(1/5) - 4·atan(1/239).
func computePi(bits uint) *big.Float {
	a := atanInv(5, bits)
	a.Mul(a, big.NewFloat(16))
	b := atanInv(239, bits)
	b.Mul(b, big.NewFloat(4))
	return a.Sub(a, b)
}

// computeLn2 uses ln 2 = 2·atanh(1/3).
func computeLn2(bits uint) *big.Float {
	s := atanhInv(3, bits)
	return s.Mul(s, big.NewFloat(2))
}

// atanInv returns atan(1/n) = Σ (-1)^k / ((2k+1)·n^(2k+1)).
func atanInv(n int64, bits uint) *big.Float {
	return inverseSeries(n, bits, true)
}

// atanhInv returns atanh(1/n) = Σ 1 / ((2k+1)·n^(2k+1)).
func atanhInv(n int64, bits uint) *big.Float {
	return inverseSeries(n, bits, false)
}

func inverseSeries(n int64, bits uint, alternate bool) *big.Float {
	newf := func() *big.Float { return new(big.Float).SetPrec(bits) }
	sum := newf()
	power := newf().Quo(newf().SetInt64(1), newf().SetInt64(n))
	n2 := newf().SetInt64(n * n)
	term := newf()
	limit := -int(bits) - 2
	for k := int64(0); ; k++ {
		term.Quo(power, newf().SetInt64(2*k+1))
		if term.Sign() == 0 || term.MantExp(nil) < limit {
			break
		}
		if alternate && k%2 == 1 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
		power.Quo(power, n2)
	}
	return sum
}
