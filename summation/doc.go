// Package summation evaluates Σ_{n=a}^{b} f(n) with the Euler–Maclaurin
// formula:
//
//	Σ f(n) = ∫_a^b f + (f(a) + f(b))/2 + Σ_k B_{k+1}/(k+1)! · (f^(k)(b) - f^(k)(a))
//
// over odd k. The integral comes from a quad.Integrator and the derivatives
// from diff sequences unless the caller supplies them. Infinite endpoints
// contribute neither a half value nor derivatives.
//
// The correction series is asymptotic. It is cut off once a term drops
// below 2^-(bits+4), or once terms stop shrinking by a factor of ten, in
// which case the last term becomes the error estimate.
package summation
