package transcription

import (
	"context"

	"github.com/kbukum/whisper-gateway/provider"
)

// Provider is the interface transcription backends implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe runs speech-to-text on the audio file at req.AudioPath.
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
}

// DeviceReporter is implemented by backends that know where inference runs
// ("cpu", "cuda", "remote").
type DeviceReporter interface {
	Device() string
}
