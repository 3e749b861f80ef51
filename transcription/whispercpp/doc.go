// Package whispercpp runs whisper.cpp in process through its cgo bindings.
//
// The real backend is compiled only with the whispercpp build tag and
// needs libwhisper on the include and library paths:
//
//	C_INCLUDE_PATH=/opt/whisper.cpp/include LIBRARY_PATH=/opt/whisper.cpp/build \
//		go build -tags whispercpp ./cmd/whisper-gateway
//
// PCM WAV is decoded in Go and resampled to 16 kHz. Other formats are
// converted with ffmpeg (whisper.ffmpeg_path) first; without it only WAV
// is accepted. Inference runs one request at a time.
//
// Models are ggml files, resolved from whisper.model_dir as
// ggml-<model>.bin unless whisper.model_path is set.
package whispercpp
