// Package observability wires OpenTelemetry tracing and metrics.
//
// Export is off unless observability.enabled is set; the global providers
// are then no-op and spans cost almost nothing. Each transcription runs as
// an Operation:
//
//	op := observability.NewOperation("sidecar", "base", requestID, metrics)
//	ctx, span := op.Start(ctx, language)
//	resp, err := backend.Transcribe(ctx, req)
//	op.End(ctx, span, resp.Duration, err)
package observability
