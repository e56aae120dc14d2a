// Package spans wraps decorated functions in OpenTelemetry spans.
//
//	fetch := decorate.Apply(fetchURL,
//	    spans.Traced[string, []byte](spans.WithSpanKind(trace.SpanKindClient)),
//	    retry.Decorator[string, []byte](3),
//	)
//
// The tracer comes from the context (WithTracer) or, failing that, from the
// global provider that telemetry.Initialize installs.
package spans

import (
	"context"

	"github.com/amp-labs/amp-decorators/decorate"
)

// Traced runs each call in a span named after the function. Errors are
// recorded and set an error status; panics are recorded and re-raised.
func Traced[A, R any](opts ...Option) decorate.Decorator[A, R] {
	return func(next decorate.Func[A, R], info decorate.Info) decorate.Func[A, R] {
		r := newRunner(info.Name, opts)

		return func(ctx context.Context, args A) (R, error) {
			return runWithSpan(ctx, r, tracerFor(ctx, r.spanName), func(ctx context.Context) (R, error) {
				return next(ctx, args)
			})
		}
	}
}
