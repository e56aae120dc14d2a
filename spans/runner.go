package spans

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/amp-labs/amp-decorators/utils"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InvocationIDKey is the span attribute carrying a fresh UUID per call.
const InvocationIDKey attribute.Key = "decorators.invocation_id"

func newRunner(spanName string, opts []Option) *runner {
	r := &runner{
		spanName: spanName,
		spanKind: trace.SpanKindInternal,
	}

	for _, option := range opts {
		if option != nil {
			option(r)
		}
	}

	return r
}

// runner manages the execution of a function within an OpenTelemetry span.
// It handles span lifecycle, error recording, panic recovery, and status reporting.
type runner struct {
	spanName string
	success  string
	failure  string
	spanKind trace.SpanKind

	// sso are span start options passed to tracer.Start().
	sso []trace.SpanStartOption
}

// runWithSpan executes operation within a span started on tracer. Panics
// are recorded on the span and re-raised.
func runWithSpan[R any](
	ctx context.Context,
	r *runner,
	tracer trace.Tracer,
	operation func(ctx context.Context) (R, error),
) (valOut R, errOut error) {
	opts := make([]trace.SpanStartOption, 0, len(r.sso)+2) //nolint:mnd
	opts = append(opts, r.sso...)
	opts = append(opts,
		trace.WithSpanKind(r.spanKind),
		trace.WithAttributes(InvocationIDKey.String(uuid.NewString())),
	)

	ctx, span := tracer.Start(ctx, r.spanName, opts...)

	defer func() {
		defer span.End()

		if panicErr := recover(); panicErr != nil {
			span.SetAttributes(attribute.KeyValue{
				Key:   "panic",
				Value: attribute.Int64Value(1),
			})

			err := utils.GetPanicRecoveryError(panicErr, debug.Stack())

			if errOut == nil {
				errOut = err
			} else {
				errOut = errors.Join(errOut, err)
			}

			span.RecordError(errOut)
			r.setErrorStatus(span, errOut)

			panic(panicErr)
		}
	}()

	val, err := operation(ctx)
	if err != nil {
		span.RecordError(err)
		r.setErrorStatus(span, err)
	} else {
		r.setSuccessStatus(span)
	}

	return val, err
}

// setErrorStatus sets the span status to error with an optional custom message prefix.
func (r *runner) setErrorStatus(span trace.Span, err error) {
	if len(r.failure) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%s: %s", r.failure, err.Error()))
	} else {
		span.SetStatus(codes.Error, err.Error())
	}
}

// setSuccessStatus sets the span status to OK with an optional custom message.
func (r *runner) setSuccessStatus(span trace.Span) {
	if len(r.success) > 0 {
		span.SetStatus(codes.Ok, r.success)
	} else {
		span.SetStatus(codes.Ok, "ok")
	}
}
