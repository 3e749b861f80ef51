package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request validation errors
const (
	// ErrCodeMissingField indicates a required form field is absent.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidInput indicates a field is present but unusable.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodePayloadTooLarge indicates the request body exceeded the configured limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Backend errors
const (
	// ErrCodeTranscriptionFailed indicates the backend or file handling failed after validation.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
