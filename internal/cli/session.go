package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/scicalc/arith"
	"github.com/jonwraymond/scicalc/observe"
	"github.com/jonwraymond/scicalc/quad"
	"github.com/jonwraymond/scicalc/resilience"
)

// session is the per-invocation state of a calculation command.
type session struct {
	cfg Config
	mc  arith.Config
	out *OutputFormatter
	mw  *observe.Middleware
	obs observe.Observer
}

func (o *RootOptions) newSession(cmd *cobra.Command) (*session, error) {
	s := &session{
		cfg: o.cfg,
		out: &OutputFormatter{Format: o.cfg.Format, Writer: cmd.OutOrStdout()},
		mw:  observe.NopMiddleware(),
	}

	mc, err := o.cfg.Arith()
	if err != nil {
		return nil, s.out.Fail(ExitCommandError, ErrCodeInvalidArgument, err)
	}
	s.mc = mc

	if o.cfg.ObserveEnabled() {
		ocfg := o.cfg.observeConfig()
		ocfg.Logging.Writer = cmd.ErrOrStderr()
		obs, err := observe.NewObserver(cmd.Context(), ocfg)
		if err != nil {
			return nil, s.out.Fail(ExitCommandError, ErrCodeConfig, err)
		}
		mw, err := observe.MiddlewareFromObserver(obs)
		if err != nil {
			_ = obs.Shutdown(cmd.Context())
			return nil, s.out.Fail(ExitCommandError, ErrCodeConfig, err)
		}
		s.obs, s.mw = obs, mw
	}
	return s, nil
}

// close flushes telemetry.
func (s *session) close(ctx context.Context) {
	if s.obs != nil {
		_ = s.obs.Shutdown(ctx)
	}
}

// integrator builds the configured integrator for method.
func (s *session) integrator(method quad.Method) (quad.Integrator, error) {
	opts := []quad.Option{quad.WithMiddleware(s.mw)}
	if n := s.cfg.Quad.CacheCapacity; n > 0 {
		opts = append(opts, quad.WithCapacity(n))
	}
	if n := s.cfg.Quad.Concurrency; n > 0 {
		opts = append(opts, quad.WithConcurrency(n))
	}
	return quad.New(method, opts...)
}

// fail reports a calculation error with the exit code its kind calls for.
func (s *session) fail(err error) error {
	switch {
	case errors.Is(err, resilience.ErrTimeout):
		return s.out.Fail(ExitFailure, ErrCodeTimeout, err)
	case errors.Is(err, ErrUnknownFunction):
		return s.out.Fail(ExitCommandError, ErrCodeUnknownFunction, err)
	case isArgumentError(err):
		return s.out.Fail(ExitCommandError, ErrCodeInvalidArgument, err)
	default:
		return s.out.Fail(ExitFailure, ErrCodeComputation, err)
	}
}

// runTimed runs op under the configured timeout.
func runTimed[T any](ctx context.Context, s *session, op func(context.Context) (T, error)) (T, error) {
	return resilience.Call(ctx, s.cfg.Timeout, op)
}
