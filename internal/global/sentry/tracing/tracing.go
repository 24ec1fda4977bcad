// Package tracing creates Sentry child spans for database, Redis and outbound HTTP work.
// Every hook is a no-op unless the incoming request carries a span (sentrygin sets one).
package tracing

import (
	"context"

	"homeforge/config"

	"github.com/getsentry/sentry-go"
)

func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// StartSpan opens a child of the span in ctx. The returned span is nil when ctx has none;
// Finish on a nil *Span is not safe, so use the returned func.
func StartSpan(ctx context.Context, operation, description string) (context.Context, func()) {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return ctx, func() {}
	}
	span := parent.StartChild(operation)
	span.Description = description
	return span.Context(), span.Finish
}

// finish marks span with the outcome and drops it when it ran faster than threshold.
func finish(span *sentry.Span, err error, elapsedOver bool) {
	if !elapsedOver {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
