package spans

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a runner.
type Option func(*runner)

// WithName overrides the span name, which defaults to the decorated
// function's name.
func WithName(name string) Option {
	return func(r *runner) {
		if name != "" {
			r.spanName = name
		}
	}
}

// WithAttribute adds an attribute to the span when it is created.
//
//	spans.Traced[string, []byte](
//	    spans.WithAttribute("endpoint", attribute.StringValue("users")),
//	)
func WithAttribute(key attribute.Key, value attribute.Value) Option {
	return func(r *runner) {
		r.sso = append(r.sso, trace.WithAttributes(attribute.KeyValue{
			Key:   key,
			Value: value,
		}))
	}
}

// WithSpanKind sets the OpenTelemetry span kind. The default is
// SpanKindInternal.
func WithSpanKind(kind trace.SpanKind) Option {
	return func(r *runner) {
		r.spanKind = kind
	}
}

// WithSuccessMessage sets the status description used when the function
// succeeds. The default is "ok".
func WithSuccessMessage(description string) Option {
	return func(r *runner) {
		r.success = description
	}
}

// WithErrorMessage sets a prefix for the error status description.
//
//	// span status becomes "fetch failed: {error message}"
//	spans.Traced[string, []byte](spans.WithErrorMessage("fetch failed"))
func WithErrorMessage(description string) Option {
	return func(r *runner) {
		r.failure = description
	}
}
