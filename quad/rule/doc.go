// Package rule generates quadrature abscissae and weights.
//
// GaussLegendre and TanhSinh produce node sets on the canonical interval
// [-1, 1] at a given binary precision; Transform maps such a set onto any
// finite, half-infinite or doubly infinite interval in place.
//
// Node sets returned by the generators are freshly allocated and owned by the
// caller. Sets that are shared through a cache must be copied with Clone
// before Transform is applied.
package rule
