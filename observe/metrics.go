package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Node cache lookup outcomes reported through RecordCacheLookup.
const (
	LookupExact     = "exact"
	LookupCanonical = "canonical"
	LookupMiss      = "miss"
)

// Metrics records calculus call metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one call with its duration and error status.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordRefinement records the final degree reached on one sub-interval.
	RecordRefinement(ctx context.Context, meta CallMeta, degree int, converged bool)

	// RecordCacheLookup records a node cache lookup outcome.
	RecordCacheLookup(ctx context.Context, meta CallMeta, result string)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	degreeHist   metric.Int64Histogram
	nonConverged metric.Int64Counter
	cacheLookups metric.Int64Counter
}

// NewMetrics creates the calculus instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"calc.call.total",
		metric.WithDescription("Total number of calculus calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"calc.call.errors",
		metric.WithDescription("Total number of failed calculus calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"calc.call.duration_ms",
		metric.WithDescription("Calculus call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	degreeHist, err := meter.Int64Histogram(
		"calc.quad.degree",
		metric.WithDescription("Final quadrature degree per sub-interval"),
		metric.WithUnit("{degree}"),
	)
	if err != nil {
		return nil, err
	}

	nonConverged, err := meter.Int64Counter(
		"calc.quad.nonconverged",
		metric.WithDescription("Sub-intervals that reached the maximum degree without converging"),
		metric.WithUnit("{interval}"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"calc.cache.lookups",
		metric.WithDescription("Quadrature node cache lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		degreeHist:   degreeHist,
		nonConverged: nonConverged,
		cacheLookups: cacheLookups,
	}, nil
}

func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

func (m *metricsImpl) RecordRefinement(ctx context.Context, meta CallMeta, degree int, converged bool) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.degreeHist.Record(ctx, int64(degree), opt)
	if !converged {
		m.nonConverged.Add(ctx, 1, opt)
	}
}

func (m *metricsImpl) RecordCacheLookup(ctx context.Context, meta CallMeta, result string) {
	attrs := append(meta.attributes(), attribute.String("result", result))
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attrs...))
}

type noopMetrics struct{}

func (noopMetrics) RecordCall(context.Context, CallMeta, time.Duration, error) {}
func (noopMetrics) RecordRefinement(context.Context, CallMeta, int, bool)       {}
func (noopMetrics) RecordCacheLookup(context.Context, CallMeta, string)         {}
