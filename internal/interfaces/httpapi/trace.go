package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("match-predictor/internal/interfaces/httpapi")

// startSpan opens a child span for handler entry points only. Requests the
// trace middleware skipped carry no parent and get no spans at all.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

func recordSpanError(span trace.Span, err error, reason string) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.reason", reason))
	if reason != "invalidInput" && reason != "notFound" && reason != "unauthorized" {
		span.SetStatus(codes.Error, reason)
	}
}

func setSpanMarkets(span trace.Span, markets []string) {
	if len(markets) == 0 || !span.IsRecording() {
		return
	}
	span.SetAttributes(attribute.StringSlice("prediction.markets", markets))
}
