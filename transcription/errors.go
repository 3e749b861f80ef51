package transcription

import "fmt"

// Error kinds reported by backends. They surface as error_type in failed
// transcription responses.
const (
	KindBackendUnavailable = "BackendUnavailable"
	KindBackendResponse    = "BackendResponse"
	KindModelClosed        = "ModelClosed"
	KindModelNotFound      = "ModelNotFound"
	KindUnsupportedAudio   = "UnsupportedAudio"
	KindNotCompiled        = "BackendNotCompiled"
)

// BackendError is a classified failure from a transcription backend.
type BackendError struct {
	Backend string
	Op      string
	kind    string
	Err     error
}

// NewBackendError creates a BackendError of the given kind.
func NewBackendError(backend, op, kind string, err error) *BackendError {
	return &BackendError{Backend: backend, Op: op, kind: kind, Err: err}
}

func (e *BackendError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Op, e.Err)
}

// Kind classifies the failure.
func (e *BackendError) Kind() string { return e.kind }

// Transient reports whether the backend was unreachable rather than
// rejecting the request.
func (e *BackendError) Transient() bool { return e.kind == KindBackendUnavailable }

func (e *BackendError) Unwrap() error { return e.Err }
