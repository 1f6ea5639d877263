// Package observe provides tracing, metrics and structured logging for
// calculus calls.
//
// An Observer owns the OpenTelemetry tracer and meter providers built from a
// Config. A Middleware wraps one integration, differentiation or summation
// call in a span, records its duration and outcome, and logs a completion
// line tagged with the call id. Integrators also report refinement depth,
// non-convergence and node cache lookups through Metrics.
//
// The zero-configuration path is NopMiddleware, which discards everything.
package observe
