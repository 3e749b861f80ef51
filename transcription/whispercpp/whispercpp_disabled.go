//go:build !whispercpp

package whispercpp

import (
	"context"
	"errors"

	"github.com/kbukum/whisper-gateway/transcription"
)

var errNotCompiled = errors.New("built without whisper.cpp; rebuild with -tags whispercpp or pick another whisper.backend")

// Provider stands in for the whisper.cpp backend in builds without the
// whispercpp tag. Init fails so the gateway refuses to start.
type Provider struct {
	cfg Config
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates the placeholder backend.
func NewProvider(cfg Config) *Provider { return &Provider{cfg: cfg} }

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Device() string { return "cpu" }

func (p *Provider) IsAvailable(context.Context) bool { return false }

func (p *Provider) Init(context.Context) error {
	return transcription.NewBackendError(ProviderName, "load", transcription.KindNotCompiled, errNotCompiled)
}

func (p *Provider) Transcribe(context.Context, transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	return nil, transcription.NewBackendError(ProviderName, "transcribe", transcription.KindNotCompiled, errNotCompiled)
}
