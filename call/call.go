package call

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/amp-labs/amp-decorators/decorate"
	"github.com/amp-labs/amp-decorators/errors"
	"github.com/amp-labs/amp-decorators/logger"
)

// Override forces argument values before the wrapped function runs. Every
// keyword in keyword is set, replacing whatever the caller passed. The first
// min(len(args.Positional), len(positional)) positional arguments are
// replaced too; extra override values are ignored. The caller's Args are not
// modified, and both overrides are copied so later changes to them have no
// effect.
func Override[R any](positional []any, keyword map[string]any) decorate.Decorator[Args, R] {
	positional = slices.Clone(positional)
	keyword = maps.Clone(keyword)

	return func(next decorate.Func[Args, R], info decorate.Info) decorate.Func[Args, R] {
		return func(ctx context.Context, args Args) (R, error) {
			args = args.Clone()

			n := min(len(args.Positional), len(positional))
			copy(args.Positional[:n], positional[:n])

			if len(keyword) > 0 && args.Keyword == nil {
				args.Keyword = make(map[string]any, len(keyword))
			}

			for k, v := range keyword {
				args.Keyword[k] = v
			}

			logger.Get(ctx).Debug("arguments overridden", "function", info.Name, "args", args.String())

			return next(ctx, args)
		}
	}
}

// Require fails with errors.ErrTypeContract, without calling the wrapped
// function, unless every one of names was passed as a keyword argument.
func Require[R any](names ...string) decorate.Decorator[Args, R] {
	required := append([]string(nil), names...)

	return func(next decorate.Func[Args, R], info decorate.Info) decorate.Func[Args, R] {
		return func(ctx context.Context, args Args) (R, error) {
			for _, name := range required {
				if !args.Has(name) {
					var zero R

					return zero, logger.AnnotateError(
						fmt.Errorf("%w: %s: keyword argument %q must be passed", errors.ErrTypeContract, info, name),
						"function", info.Name, "missing", name)
				}
			}

			return next(ctx, args)
		}
	}
}
