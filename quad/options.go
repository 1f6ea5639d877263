package quad

import "github.com/jonwraymond/scicalc/observe"

// Option configures an integrator.
type Option func(*engine)

// WithCache makes the integrator use c for its node sets. The cache may be
// shared by any number of integrators of either method.
func WithCache(c *NodeCache) Option {
	return func(e *engine) {
		if c != nil {
			e.src.cache = c
		}
	}
}

// WithCapacity sizes the integrator's own node cache.
// It has no effect together with WithCache.
func WithCapacity(n int) Option {
	return func(e *engine) {
		e.capacity = n
	}
}

// WithMiddleware records every call through mw.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(e *engine) {
		if mw != nil {
			e.mw = mw
		}
	}
}

// WithConcurrency evaluates the integrand at up to n nodes at once.
// The integrand must then be safe for concurrent use. Values are still
// summed in node order, so results do not depend on n.
func WithConcurrency(n int) Option {
	return func(e *engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// CallOption configures a single Quad call.
type CallOption func(*callOptions)

type callOptions struct {
	maxDegree int
}

// MaxDegree bounds the refinement loop. The default is GuessDegree(bits).
func MaxDegree(n int) CallOption {
	return func(o *callOptions) {
		o.maxDegree = n
	}
}
