package policy

import (
	"io"
	"os"

	"github.com/amp-labs/amp-decorators/decorate"
	"github.com/amp-labs/amp-decorators/retry"
	"github.com/amp-labs/amp-decorators/spans"
	"github.com/amp-labs/amp-decorators/timing"
)

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	writer io.Writer
}

// WithWriter sets where announcements and timings print. The default is os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(o *buildOptions) {
		if w != nil {
			o.writer = w
		}
	}
}

// Build turns p into a single decorator. Outermost first, the stack is:
// deprecated, wip, limit, trace, timing, suppress, retry, timeout, slow_down.
// So each retry attempt gets its own timeout, and the limiter counts outer
// calls rather than attempts.
//
// Build panics with errors.ErrInvalidConfig on settings Validate rejects.
func Build[A, R any](p Policy, opts ...Option) decorate.Decorator[A, R] {
	o := &buildOptions{writer: os.Stdout}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	var stack []decorate.Decorator[A, R]

	if n := p.Deprecated; n != nil {
		dopts := []decorate.Option{decorate.WithWriter(o.writer)}
		if n.PrintOnly {
			dopts = append(dopts, decorate.WithPrintOnly())
		}

		stack = append(stack, decorate.Deprecated[A, R](n.Message, dopts...))
	}

	if n := p.WIP; n != nil {
		wopts := []decorate.Option{decorate.WithWriter(o.writer)}
		if n.Block {
			wopts = append(wopts, decorate.WithBlock())
		}

		stack = append(stack, decorate.WIP[A, R](n.Message, wopts...))
	}

	if p.Limit != nil {
		stack = append(stack, decorate.Limit[A, R](*p.Limit))
	}

	if p.Trace {
		stack = append(stack, spans.Traced[A, R]())
	}

	if t := p.Timing; t != nil {
		topts := []timing.Option{timing.WithWriter(o.writer)}
		if t.Enabled != nil {
			topts = append(topts, timing.WithActivate(*t.Enabled))
		}

		if t.Times > 0 {
			topts = append(topts, timing.WithTimes(t.Times))
		}

		stack = append(stack, timing.Timed[A, R](timing.New(topts...)))
	}

	if p.Suppress {
		var fallback R

		stack = append(stack, decorate.Suppress[A, R](fallback, decorate.WithReport(), decorate.WithWriter(o.writer)))
	}

	if r := p.Retry; r != nil {
		stack = append(stack, retry.Decorator[A, R](r.Retries, retryBackoff(r)))
	}

	if p.Timeout > 0 {
		stack = append(stack, decorate.Timeout[A, R](p.Timeout))
	}

	if p.SlowDown > 0 {
		stack = append(stack, decorate.SlowDown[A, R](p.SlowDown))
	}

	return decorate.Chain(stack...)
}

func retryBackoff(r *Retry) retry.Option {
	switch {
	case r.MaxBackoff > 0:
		return retry.WithExponentialBackoff(r.Backoff, r.MaxBackoff)
	case r.Backoff > 0:
		return retry.WithConstantBackoff(r.Backoff)
	default:
		return nil
	}
}
