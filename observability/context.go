package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/whisper-gateway/errors"
)

// Operation tracks one transcription from span start to outcome.
type Operation struct {
	Backend   string
	Model     string
	RequestID string
	StartTime time.Time
	Metrics   *Metrics
}

// NewOperation creates an operation. If metrics is nil, metric recording is
// skipped.
func NewOperation(backend, model, requestID string, metrics *Metrics) *Operation {
	return &Operation{
		Backend:   backend,
		Model:     model,
		RequestID: requestID,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

// Start opens the transcription span and marks the request in flight.
func (op *Operation) Start(ctx context.Context, language string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanTranscribe, trace.WithAttributes(
		attribute.String(AttrBackend, op.Backend),
		attribute.String(AttrModel, op.Model),
		attribute.String(AttrRequestID, op.RequestID),
		attribute.String(AttrLanguage, language),
	))
	if op.Metrics != nil {
		op.Metrics.RecordStart(ctx, op.Backend)
	}
	return ctx, span
}

// End records the outcome and ends span. audio is the transcribed audio
// length in seconds, zero on failure.
func (op *Operation) End(ctx context.Context, span trace.Span, audio float64, err error) {
	took := op.Duration()
	status := "ok"
	if err != nil {
		status = "error"
		kind := apperrors.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorKind, kind))
		if op.Metrics != nil {
			op.Metrics.RecordError(ctx, op.Backend, kind)
		}
	} else {
		span.SetAttributes(attribute.Float64(AttrAudioDuration, audio))
	}
	span.SetAttributes(attribute.String(AttrStatus, status))
	span.End()

	if op.Metrics != nil {
		op.Metrics.RecordEnd(ctx, op.Backend, status, took, audio)
	}
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}
