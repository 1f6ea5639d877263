package summation

import (
	"github.com/jonwraymond/scicalc/diff"
	"github.com/jonwraymond/scicalc/observe"
	"github.com/jonwraymond/scicalc/quad"
)

// Option configures a Sum call.
type Option func(*options)

type options struct {
	derivA     diff.Sequence
	derivB     diff.Sequence
	integral   *quad.Result
	integrator quad.Integrator
	mw         *observe.Middleware
}

// WithDerivativesA supplies f(a), f'(a), f''(a), … instead of differentiating
// numerically. It is ignored when a is -∞.
func WithDerivativesA(s diff.Sequence) Option {
	return func(o *options) { o.derivA = s }
}

// WithDerivativesB supplies f(b), f'(b), f''(b), …. It is ignored when b
// is +∞.
func WithDerivativesB(s diff.Sequence) Option {
	return func(o *options) { o.derivB = s }
}

// WithIntegral supplies ∫_a^b f, skipping the quadrature. Its error
// estimate is carried into the result.
func WithIntegral(r quad.Result) Option {
	return func(o *options) { o.integral = &r }
}

// WithIntegrator computes the integral with q. The default is a fresh
// Gauss–Legendre integrator per call.
func WithIntegrator(q quad.Integrator) Option {
	return func(o *options) {
		if q != nil {
			o.integrator = q
		}
	}
}

// WithMiddleware records the call through mw.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(o *options) {
		if mw != nil {
			o.mw = mw
		}
	}
}
