package arith

import (
	"math/big"
	"sync"
)

// bernoulliTable holds exact Bernoulli numbers B_0 … B_len-1 (B_1 = -1/2).
var bernoulliTable struct {
	mu sync.Mutex
	b  []*big.Rat
}

// BernoulliRat returns the exact Bernoulli number B_n. The result is a copy.
func BernoulliRat(n int) *big.Rat {
	if n < 0 {
		return new(big.Rat)
	}
	if n > 1 && n%2 == 1 {
		return new(big.Rat)
	}

	bernoulliTable.mu.Lock()
	defer bernoulliTable.mu.Unlock()

	for m := len(bernoulliTable.b); m <= n; m++ {
		bernoulliTable.b = append(bernoulliTable.b, nextBernoulli(bernoulliTable.b, m))
	}
	return new(big.Rat).Set(bernoulliTable.b[n])
}

// nextBernoulli computes B_m from B_0 … B_m-1 using
// Σ_{k=0}^{m} C(m+1, k)·B_k = 0.
func nextBernoulli(b []*big.Rat, m int) *big.Rat {
	if m == 0 {
		return big.NewRat(1, 1)
	}
	if m > 1 && m%2 == 1 {
		return new(big.Rat)
	}
	sum := new(big.Rat)
	binom := big.NewInt(1) // C(m+1, 0)
	tmp := new(big.Rat)
	for k := 0; k < m; k++ {
		if b[k].Sign() != 0 {
			tmp.SetInt(binom)
			tmp.Mul(tmp, b[k])
			sum.Add(sum, tmp)
		}
		binom.Mul(binom, big.NewInt(int64(m+1-k)))
		binom.Quo(binom, big.NewInt(int64(k+1)))
	}
	sum.Neg(sum)
	return sum.Quo(sum, new(big.Rat).SetInt64(int64(m+1)))
}

// Bernoulli returns B_n rounded to c.
func Bernoulli(c Config, n int) *big.Float {
	return c.Rat(BernoulliRat(n))
}

// FactorialInt returns n! exactly. FactorialInt(0) is 1.
func FactorialInt(n int) *big.Int {
	if n < 2 {
		return big.NewInt(1)
	}
	return new(big.Int).MulRange(1, int64(n))
}

// Factorial returns n! rounded to c.
func Factorial(c Config, n int) *big.Float {
	return c.BigInt(FactorialInt(n))
}

// BernoulliOverFactorial returns B_n / n! rounded to c, computed exactly
// before the single rounding.
func BernoulliOverFactorial(c Config, n int) *big.Float {
	r := BernoulliRat(n)
	r.Quo(r, new(big.Rat).SetInt(FactorialInt(n)))
	return c.Rat(r)
}
