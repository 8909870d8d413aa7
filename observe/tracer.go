package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ExecMeta contains metadata about an execution for telemetry purposes.
type ExecMeta struct {
	ExecutionID string // Unique execution identifier (required)
	Model       string // Model name (optional)
	SessionID   string // Session identifier (optional)
}

// SpanName returns the deterministic span name for an execution.
func (m ExecMeta) SpanName() string {
	return "agent.execute"
}

// Tracer wraps OpenTelemetry tracing with execution-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for an execution.
	StartSpan(ctx context.Context, meta ExecMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with execution metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta ExecMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("execution.id", meta.ExecutionID),
	}
	if meta.Model != "" {
		attrs = append(attrs, attribute.String("execution.model", meta.Model))
	}
	if meta.SessionID != "" {
		attrs = append(attrs, attribute.String("execution.session_id", meta.SessionID))
	}

	return t.tracer.Start(ctx, meta.SpanName(), trace.WithAttributes(attrs...))
}

// EndSpan ends the span, marking its status from err.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
