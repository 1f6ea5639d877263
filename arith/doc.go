// Package arith provides the arbitrary-precision numeric primitives used by
// the calculus packages.
//
// Values are *big.Float. Every operation takes a Config carrying the binary
// precision and rounding mode of its result, so intermediate work can be
// boosted above the caller's precision and rounded back down at the end.
//
// The package also carries the few special functions the integrators and the
// summator need: exp, π, ln 2, Bernoulli numbers and factorials.
//
// math/big has no NaN. An operation that would produce one panics with
// big.ErrNaN; RecoverNaN turns that panic into ErrNaN at API boundaries.
package arith
