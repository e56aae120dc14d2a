// Package typecheck validates the runtime types flowing in and out of a
// decorated function. Accepts checks positional arguments before the call;
// Returns checks the result after it.
//
//	area := decorate.Apply(rectArea,
//	    typecheck.Accepts[float64]([]typecheck.Tag{typecheck.Float, typecheck.Float}),
//	)
package typecheck

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-decorators/call"
	"github.com/amp-labs/amp-decorators/decorate"
	"github.com/amp-labs/amp-decorators/errors"
	"github.com/amp-labs/amp-decorators/logger"
)

// Accepts checks the number and tags of the positional arguments before f
// runs. Keyword arguments are not checked.
func Accepts[R any](tags []Tag, opts ...Option) decorate.Decorator[call.Args, R] {
	o := newOptions(opts)
	expected := append([]Tag(nil), tags...)

	return func(next decorate.Func[call.Args, R], info decorate.Info) decorate.Func[call.Args, R] {
		if o.level == Off {
			return next
		}

		return func(ctx context.Context, args call.Args) (R, error) {
			actual := tagsOf(args.Positional)

			if !matchAll(expected, actual) {
				msg := mismatch(info, "accepts", "was given", expected, actual)
				if err := o.violation(ctx, info, msg); err != nil {
					var zero R

					return zero, err
				}
			}

			return next(ctx, args)
		}
	}
}

// Returns checks the tag of f's result after a successful call. When f
// fails its error is returned as is.
func Returns[A, R any](tag Tag, opts ...Option) decorate.Decorator[A, R] {
	o := newOptions(opts)

	return func(next decorate.Func[A, R], info decorate.Info) decorate.Func[A, R] {
		if o.level == Off {
			return next
		}

		return func(ctx context.Context, args A) (R, error) {
			result, err := next(ctx, args)
			if err != nil {
				return result, err
			}

			if actual := TagOf(result); !tag.Matches(actual) {
				msg := mismatch(info, "returns", "result is", []Tag{tag}, []Tag{actual})
				if err := o.violation(ctx, info, msg); err != nil {
					var zero R

					return zero, err
				}
			}

			return result, nil
		}
	}
}

// mismatch renders "'area' method accepts (float, float), but was given (string, float)".
func mismatch(info decorate.Info, verb, given string, expected, actual []Tag) string {
	return fmt.Sprintf("'%s' method %s (%s), but %s (%s)", info.Name, verb, join(expected), given, join(actual))
}

// violation returns the error for Strict, or reports the warning and
// returns nil for Warn.
func (o *options) violation(ctx context.Context, info decorate.Info, msg string) error {
	if o.level == Strict {
		return fmt.Errorf("%w: %s", errors.ErrTypeContract, msg)
	}

	_, _ = fmt.Fprintf(o.writer, "TypeWarning: %s\n", msg)

	logger.Get(ctx).Warn("type mismatch", "function", info.Name, "detail", msg)

	return nil
}
