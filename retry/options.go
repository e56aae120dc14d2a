package retry

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Option configures Decorator, Do and DoValue.
type Option func(*options)

type options struct {
	backoff func() backoff.BackOff       // fresh policy per call; BackOff values are stateful
	retryIf func(err error) bool         // nil retries everything
	onRetry func(attempt int, err error) // called before each retry
}

func newOptions(retries int, opts []Option) *options {
	mustNonNegative(retries)

	o := &options{
		backoff: func() backoff.BackOff {
			return &backoff.ZeroBackOff{}
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o
}

// WithBackoff sets the policy spacing the attempts. The factory is called
// once per decorated call. Returning backoff.Stop from NextBackOff ends the
// retries early. The default retries immediately.
func WithBackoff(factory func() backoff.BackOff) Option {
	return func(o *options) {
		if factory != nil {
			o.backoff = factory
		}
	}
}

// WithConstantBackoff waits d between attempts.
func WithConstantBackoff(d time.Duration) Option {
	return WithBackoff(func() backoff.BackOff {
		return backoff.NewConstantBackOff(d)
	})
}

// WithExponentialBackoff waits initial, then grows the wait (with jitter) up
// to maxInterval.
func WithExponentialBackoff(initial, maxInterval time.Duration) Option {
	return WithBackoff(func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		b.MaxInterval = maxInterval

		return b
	})
}

// WithRetryIf restricts retries to failures for which pred returns true.
// Any other failure is returned immediately.
//
//	retry.WithRetryIf(func(err error) bool {
//	    return errors.Is(err, io.ErrUnexpectedEOF)
//	})
func WithRetryIf(pred func(err error) bool) Option {
	return func(o *options) {
		o.retryIf = pred
	}
}

// WithOnRetry registers a hook called before each retry with the number of
// the attempt that just failed (1-based) and its error.
func WithOnRetry(hook func(attempt int, err error)) Option {
	return func(o *options) {
		o.onRetry = hook
	}
}
