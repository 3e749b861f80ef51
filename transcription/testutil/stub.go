// Package testutil provides a scriptable transcription backend for tests.
package testutil

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/kbukum/whisper-gateway/transcription"
)

// StubName is the backend name reported by Stub.
const StubName = "stub"

// Call is one recorded Transcribe invocation.
type Call struct {
	Request transcription.TranscriptionRequest
	// FileExisted reports whether the audio file was on disk when the
	// backend ran.
	FileExisted bool
	// Size is the size of the audio file at call time.
	Size int64
	// Ctx is the context the backend received.
	Ctx context.Context
}

// Stub is a transcription.Provider that records every request and returns
// a canned response or error.
type Stub struct {
	// Response is returned on success. When nil a two-segment default is
	// produced that echoes the requested language.
	Response *transcription.TranscriptionResponse
	// Err is returned instead of a response when set.
	Err error
	// Delay holds each call before it returns.
	Delay time.Duration
	// Release, when non-nil, blocks each call until it is closed.
	Release chan struct{}
	// InitErr fails model loading.
	InitErr error
	// DeviceName is reported through Device.
	DeviceName string
	// Transcript builds the text per request, overriding Response.Text.
	Transcript func(req transcription.TranscriptionRequest) string

	mu     sync.Mutex
	calls  []Call
	inits  int
	closed bool
}

var _ transcription.Provider = (*Stub)(nil)

// NewStub returns a stub that succeeds with the default response.
func NewStub() *Stub { return &Stub{} }

func (s *Stub) Name() string { return StubName }

func (s *Stub) IsAvailable(context.Context) bool { return true }

func (s *Stub) Init(context.Context) error {
	s.mu.Lock()
	s.inits++
	s.mu.Unlock()
	return s.InitErr
}

func (s *Stub) Close(context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Stub) Device() string { return s.DeviceName }

func (s *Stub) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	call := Call{Request: req, Ctx: ctx}
	if fi, err := os.Stat(req.AudioPath); err == nil {
		call.FileExisted = true
		call.Size = fi.Size()
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	if s.Release != nil {
		<-s.Release
	}
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	if s.Err != nil {
		return nil, s.Err
	}

	resp := s.response(req)
	if s.Transcript != nil {
		resp.Text = s.Transcript(req)
	}
	return resp, nil
}

func (s *Stub) response(req transcription.TranscriptionRequest) *transcription.TranscriptionResponse {
	if s.Response != nil {
		out := *s.Response
		out.Segments = append([]transcription.Segment(nil), s.Response.Segments...)
		return &out
	}
	lang := req.Language
	if lang == "" {
		lang = "en"
	}
	return &transcription.TranscriptionResponse{
		Text:     " Hello from the stub backend. ",
		Language: lang,
		Duration: 2.5,
		Segments: []transcription.Segment{
			{Start: 0, End: 1.2, Text: " Hello from"},
			{Start: 1.2, End: 2.5, Text: " the stub backend."},
		},
	}
}

// Calls returns the recorded calls in order.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Inits returns how many times the stub was initialized.
func (s *Stub) Inits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inits
}

// Closed reports whether Close was called.
func (s *Stub) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Factory registers the stub under StubName.
func (s *Stub) Factory() transcription.Factory {
	return func(transcription.Config) (transcription.Provider, error) { return s, nil }
}
