// Package health runs self-checks of the calculus engine: known integrals,
// derivatives and sums are recomputed and compared with their closed forms,
// and node caches report whether they are sized for the workload.
//
// A Checker reports a Status of Healthy, Degraded or Unhealthy. An
// Aggregator runs a set of checkers, in parallel by default, under one
// timeout and reports them in registration order:
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewToleranceChecker("pi", 64, func(ctx context.Context) (got, want *big.Float, err error) {
//	    ...
//	}))
//	agg.Register(health.NewCacheChecker("nodes", integrator))
//	report := agg.CheckAll(ctx)
//	if report.Status == health.StatusUnhealthy {
//	    ...
//	}
package health
