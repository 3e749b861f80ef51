// Package errors provides the gateway's structured error type.
//
// An AppError carries a machine-readable code, the message shown to clients,
// and the HTTP status to respond with. ToResponse renders the
// {"error", "error_type"} body used by every failing endpoint. For failures
// that happen after a request was accepted, error_type is the error's kind as
// reported by KindOf.
package errors
