package spans

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// contextKey is a unique type for storing values in context to avoid collisions.
type contextKey string

// TracerKey is the context key used to store the OpenTelemetry tracer.
const TracerKey contextKey = "tracer"

// instrumentationName names the tracer used when the context carries none.
const instrumentationName = "github.com/amp-labs/amp-decorators/spans"

// WithTracer stores an OpenTelemetry tracer in the context. Traced functions
// called with this context start their spans on it.
//
//	ctx = spans.WithTracer(ctx, otel.Tracer("my-service"))
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, TracerKey, tracer)
}

// TracerFromContext retrieves the OpenTelemetry tracer from the context.
// Returns the tracer and true if found, or nil and false if not present.
func TracerFromContext(ctx context.Context) (trace.Tracer, bool) {
	tracer, ok := ctx.Value(TracerKey).(trace.Tracer)

	return tracer, ok && tracer != nil
}

// tracerFor returns the context's tracer, falling back to the global
// provider (a no-op until telemetry.Initialize installs one).
func tracerFor(ctx context.Context, spanName string) trace.Tracer {
	if tracer, ok := TracerFromContext(ctx); ok {
		return tracer
	}

	spanWithoutTracerCounter.WithLabelValues(spanName).Inc()

	return otel.Tracer(instrumentationName)
}
