// Package resilience bounds the wall-clock time of calculations.
//
// Integrators and summators do not observe cancellation: their work is
// bounded by the maximum degree, not by time. Timeout runs such a call on
// its own goroutine and abandons it when the deadline passes, so a caller
// such as the command-line front end can give up on a slow integrand.
//
//	res, err := resilience.Call(ctx, 5*time.Second, func(ctx context.Context) (quad.Result, error) {
//	    return q.Quad(ctx, mc, f, points)
//	})
//	if errors.Is(err, resilience.ErrTimeout) {
//	    ...
//	}
//
// An abandoned call keeps running until it returns on its own; its result
// is discarded.
package resilience
