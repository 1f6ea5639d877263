// Package diff computes derivatives of any order by finite differences at a
// precision high enough to absorb the cancellation they cause.
//
// For order n the integrand is sampled on an (n+1)-point stencil with step
// h = 2^-(bits+guard), the samples are combined with binomial coefficients
// and the sum is divided by the stencil spacing to the n-th power. The
// working precision grows linearly with n so the differences keep bits
// significant bits.
//
// A Sequence yields the derivatives of increasing order at one point, which
// is what the Euler–Maclaurin summator consumes.
package diff
