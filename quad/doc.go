// Package quad integrates real functions to a requested binary precision.
//
// Two integrators share one adaptive engine: GaussLegendre, best for smooth
// integrands, and TanhSinh, which copes with endpoint singularities. Both
// accept a list of breakpoints, integrate every consecutive pair of them in
// order and sum the pieces. Each piece is refined degree by degree until the
// estimated error drops below 2^(1-bits) or the maximum degree is reached;
// the latter is reported through Result.Converged, not as an error.
//
// Node sets are cached per integrator in a bounded LRU keyed by
// (precision, degree, a, b). A miss first tries the canonical [-1, 1] set
// for the same precision and degree and rescales a copy of it, and only
// generates fresh nodes when both lookups miss.
//
// Infinite endpoints are mapped onto [-1, 1] by a change of variables. The
// whole real line is folded onto [0, +∞) by integrating f(x) + f(-x), which
// is exact for any integrand whose integral over the line converges as a
// symmetric limit about the origin.
package quad
