package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for pulse tracing.
const tracerName = "github.com/dshills/pulse"

// Tracing returns middleware that wraps each delivery in an OpenTelemetry
// span. If no TracerProvider is configured globally, the default noop tracer
// is used and this middleware becomes a pass-through.
//
// Span attributes: pulse.key, pulse.subscription_id, pulse.priority,
// pulse.deferred. On error the span status is set to codes.Error.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, d *Delivery, next Handler) error {
		ctx, span := tracer.Start(ctx, "pulse.deliver",
			trace.WithAttributes(
				attribute.String("pulse.key", d.Key),
				attribute.String("pulse.subscription_id", d.SubscriptionID),
				attribute.String("pulse.priority", d.Priority),
				attribute.Bool("pulse.deferred", d.Deferred),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
