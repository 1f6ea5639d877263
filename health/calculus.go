package health

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/cache"
)

// ComputeFunc recomputes a quantity with a known value.
type ComputeFunc func(ctx context.Context) (got, want *big.Float, err error)

// ToleranceChecker compares a computed value with its closed form.
//
// The check is Healthy within 2^-bits relative error, Degraded within
// 2^-(bits/2) and Unhealthy beyond that or on error.
type ToleranceChecker struct {
	name    string
	bits    uint
	compute ComputeFunc
}

// NewToleranceChecker returns a checker for compute at bits of precision.
func NewToleranceChecker(name string, bits uint, compute ComputeFunc) *ToleranceChecker {
	return &ToleranceChecker{name: name, bits: bits, compute: compute}
}

// Name returns the name of this checker.
func (c *ToleranceChecker) Name() string {
	return c.name
}

// Check runs the computation and grades its relative error.
func (c *ToleranceChecker) Check(ctx context.Context) Result {
	got, want, err := c.compute(ctx)
	if err != nil {
		return Unhealthy("computation failed", err)
	}

	w := arith.NewConfig(c.bits + 32)
	rel := w.Abs(w.Sub(got, want))
	if want.Sign() != 0 {
		rel.Quo(rel, w.Abs(want))
	}
	details := map[string]any{
		"value":          got.Text('g', 20),
		"expected":       want.Text('g', 20),
		"relative_error": rel.Text('g', 3),
	}

	switch {
	case rel.Cmp(w.Ldexp(1, -int(c.bits))) <= 0:
		return Healthy("within tolerance").WithDetails(details)
	case rel.Cmp(w.Ldexp(1, -int(c.bits/2))) <= 0:
		return Degraded("accuracy below target").WithDetails(details)
	default:
		return Unhealthy("value out of tolerance", fmt.Errorf("%w: relative error %s", ErrCheckFailed, rel.Text('g', 3))).WithDetails(details)
	}
}

// StatsSource reports cache counters.
type StatsSource interface {
	CacheStats() cache.Stats
}

// CacheChecker reports a node cache's counters. A cache that has evicted
// entries is Degraded: its capacity is smaller than the working set.
type CacheChecker struct {
	name string
	src  StatsSource
}

// NewCacheChecker returns a checker for src.
func NewCacheChecker(name string, src StatsSource) *CacheChecker {
	return &CacheChecker{name: name, src: src}
}

// Name returns the name of this checker.
func (c *CacheChecker) Name() string {
	return c.name
}

// Check reads the cache counters.
func (c *CacheChecker) Check(context.Context) Result {
	s := c.src.CacheStats()
	details := map[string]any{
		"hits":      s.Hits,
		"misses":    s.Misses,
		"evictions": s.Evictions,
		"len":       s.Len,
		"capacity":  s.Capacity,
		"hit_ratio": s.HitRatio(),
	}
	if s.Evictions > 0 {
		return Degraded(fmt.Sprintf("%d node sets evicted", s.Evictions)).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d of %d slots used", s.Len, s.Capacity)).WithDetails(details)
}
