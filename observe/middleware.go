package observe

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CallFunc is the body of one calculus call run under a Middleware. The
// meta it receives carries the assigned call id.
type CallFunc func(ctx context.Context, meta CallMeta) error

// Middleware wraps calculus calls with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Run is safe for concurrent use.
//   - Context: the span context is passed to the wrapped function.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(newNoopTracer(), noopMetrics{}, NopLogger())
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Metrics returns the metrics recorder.
func (m *Middleware) Metrics() Metrics {
	return m.metrics
}

// Logger returns the logger scoped to meta.
func (m *Middleware) Logger(meta CallMeta) Logger {
	return m.logger.WithCall(meta)
}

// Run executes fn inside a span, then records the call duration and logs
// its outcome. A call without an id is assigned a random UUID.
func (m *Middleware) Run(ctx context.Context, meta CallMeta, fn CallFunc) error {
	if meta.Op == "" {
		return ErrMissingOp
	}
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}

	ctx, span := m.tracer.StartSpan(ctx, meta)
	start := time.Now()

	err := fn(ctx, meta)

	duration := time.Since(start)
	m.tracer.EndSpan(span, err)
	m.metrics.RecordCall(ctx, meta, duration, err)

	log := m.logger.WithCall(meta)
	fields := []Field{
		{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
	}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		log.Error(ctx, "call failed", fields...)
	} else {
		log.Info(ctx, "call completed", fields...)
	}

	return err
}
