package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Kind overrides Code as the reported error_type when set.
	Kind string `json:"kind,omitempty"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Type returns the value reported to clients as error_type.
func (e *AppError) Type() string {
	if e.Kind != "" {
		return e.Kind
	}
	return string(e.Code)
}

// MissingField creates a new AppError for a required field that was not sent.
func MissingField(field, message string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: message,
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{"field": field},
	}
}

// InvalidInput creates a new AppError for a field that was sent but cannot be used.
func InvalidInput(field, message string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// PayloadTooLarge creates a new AppError for a body over the size limit.
func PayloadTooLarge(limit string) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: fmt.Sprintf("request body exceeds %s", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
		Details: map[string]any{"limit": limit},
	}
}

// TranscriptionFailed wraps a failure that happened after the request was
// accepted. The cause's message is surfaced as-is and its kind becomes the
// error_type.
func TranscriptionFailed(cause error) *AppError {
	msg := "transcription failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &AppError{
		Code: ErrCodeTranscriptionFailed, Message: msg, Kind: KindOf(cause),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "Internal server error",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
