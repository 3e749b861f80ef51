// Package whisper is the faster-whisper HTTP sidecar backend. The sidecar
// runs the GPU-optimized model; the gateway uploads each file with
// multipart POST /transcribe and checks GET /health at startup.
package whisper
