package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError marks a span as failed: the error is recorded, the span status is
// set, and a failure event carrying the message plus any extra attributes is
// attached.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	attrs = append(attrs, attribute.String("error.message", err.Error()))
	span.AddEvent("execution_error", trace.WithAttributes(attrs...))
}
