// Package transcription defines the backend interface, request and
// response types, and the Model handle that owns the loaded backend.
//
// Backends live in subpackages and register a Factory by name:
//
//   - transcription/whispercpp: in-process whisper.cpp (build tag whispercpp)
//   - transcription/whisper: faster-whisper HTTP sidecar
//   - transcription/openai: OpenAI-compatible /audio/transcriptions
//
// Usage:
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory(whisper.ProviderName, whisper.Factory())
//	p, err := reg.Create(cfg.Backend, cfg)
//	model := transcription.NewModel(cfg, p, log)
//	err = model.Start(ctx)
package transcription
