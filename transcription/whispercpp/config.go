package whispercpp

import (
	"github.com/kbukum/whisper-gateway/transcription"
)

// ProviderName is the registered name for the in-process backend.
const ProviderName = "whispercpp"

// Config holds configuration for the whisper.cpp backend.
type Config struct {
	// ModelPath is the ggml model file.
	ModelPath string
	// Model is the identifier reported in logs.
	Model string
	// Threads is the decoding thread count; 0 uses every CPU.
	Threads int
	// FFmpeg is the binary used for non-WAV input.
	FFmpeg string
}

// Factory builds the backend from the whisper config.
func Factory() transcription.Factory {
	return func(cfg transcription.Config) (transcription.Provider, error) {
		return NewProvider(Config{
			ModelPath: cfg.ResolveModelPath(),
			Model:     cfg.Model,
			Threads:   cfg.Threads,
			FFmpeg:    cfg.FFmpegPath,
		}), nil
	}
}
