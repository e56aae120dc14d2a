package decorate

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-decorators/errors"
	"github.com/amp-labs/amp-decorators/logger"
)

const defaultWIPMessage = "Unexpected behavior might occur"

// Deprecated marks a function as deprecated. By default every call fails
// with an error wrapping errors.ErrDeprecated and the function is not run.
// With WithPrintOnly the call prints
//
//	DeprecationWarning: fetch() in client.go, line 12: use fetchV2
//
// logs a warning, and proceeds.
func Deprecated[A, R any](text string, opts ...Option) Decorator[A, R] {
	o := newOptions(options{block: true, message: text}, opts)

	return announcer[A, R]("deprecated", "DeprecationWarning", errors.ErrDeprecated, o)
}

// WIP flags a function as a work in progress. By default each call prints
//
//	WorkInProgressWarning: fetch() in client.go, line 12: Unexpected behavior might occur
//
// and proceeds. With WithBlock the call fails with an error wrapping
// errors.ErrWorkInProgress instead. An empty text uses the default message.
func WIP[A, R any](text string, opts ...Option) Decorator[A, R] {
	if text == "" {
		text = defaultWIPMessage
	}

	o := newOptions(options{message: text}, opts)

	return announcer[A, R]("wip", "WorkInProgressWarning", errors.ErrWorkInProgress, o)
}

func announcer[A, R any](name, label string, sentinel error, o *options) Decorator[A, R] {
	return func(next Func[A, R], info Info) Func[A, R] {
		return func(ctx context.Context, args A) (R, error) {
			if o.block {
				observeOutcome(name, info, outcomeRejected)

				var zero R

				return zero, logger.AnnotateError(
					fmt.Errorf("%w: %s: %s", sentinel, info, o.message),
					"function", info.Name)
			}

			_, _ = fmt.Fprintf(o.writer, "%s: %s: %s\n", label, info, o.message)

			logger.Get(ctx).Warn(label, "function", info.Name, "message", o.message)

			out, err := next(ctx, args)

			observe(name, info, err)

			return out, err
		}
	}
}
