package whispercpp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/go-audio/wav"

	"github.com/kbukum/whisper-gateway/transcription"
)

// sampleRate is the only rate whisper.cpp accepts.
const sampleRate = 16000

const wavFormatPCM = 1

// errNotPCM marks input that has to go through ffmpeg first.
var errNotPCM = errors.New("not a 16/24/32-bit PCM WAV file")

// loadAudio returns mono 16 kHz samples for path. PCM WAV is decoded
// directly at any sample rate; anything else is converted with ffmpeg.
func loadAudio(ctx context.Context, path, ffmpeg string) ([]float32, error) {
	samples, err := decodeWAV(path)
	if err == nil || !errors.Is(err, errNotPCM) {
		return samples, err
	}

	converted, err := convert(ctx, path, ffmpeg)
	if err != nil {
		return nil, err
	}
	defer os.Remove(converted)
	return decodeWAV(converted)
}

// convert writes a 16 kHz mono PCM copy of path next to it.
func convert(ctx context.Context, path, ffmpeg string) (string, error) {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	bin, err := exec.LookPath(ffmpeg)
	if err != nil {
		return "", unsupported(fmt.Errorf("%w; converting it needs ffmpeg: %w", errNotPCM, err))
	}

	out := path + ".16k.wav"
	cmd := exec.CommandContext(ctx, bin,
		"-nostdin", "-hide_banner", "-loglevel", "error",
		"-y", "-i", path,
		"-ac", "1", "-ar", "16000",
		"-c:a", "pcm_s16le", "-f", "wav",
		out,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(out)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", transcription.NewBackendError(ProviderName, "convert", transcription.KindUnsupportedAudio,
			fmt.Errorf("ffmpeg: %w", err))
	}
	return out, nil
}

// decodeWAV reads a PCM WAV file into mono float32 samples in [-1, 1] at
// 16 kHz. Multi-channel audio is averaged down to one channel and other
// rates are resampled.
func decodeWAV(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, unsupported(errNotPCM)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, unsupported(fmt.Errorf("%w: format %d", errNotPCM, dec.WavAudioFormat))
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, unsupported(fmt.Errorf("%w: %d-bit samples", errNotPCM, bitDepth))
	}
	if dec.SampleRate == 0 {
		return nil, unsupported(errors.New("WAV header has no sample rate"))
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, transcription.NewBackendError(ProviderName, "decode", transcription.KindUnsupportedAudio, err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		channels = 1
	}
	scale := float32(int64(1) << (bitDepth - 1))
	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := range frames {
		var sum float32
		for c := range channels {
			sum += float32(buf.Data[i*channels+c])
		}
		samples[i] = sum / float32(channels) / scale
	}
	return resample(samples, int(dec.SampleRate), sampleRate), nil
}

// resample converts src between rates with linear interpolation. src is
// returned as is when the rates match.
func resample(src []float32, from, to int) []float32 {
	if len(src) == 0 || from == to || from <= 0 || to <= 0 {
		return src
	}

	step := float64(from) / float64(to)
	n := max(int(math.Ceil(float64(len(src))/step)), 1)
	out := make([]float32, n)
	last := len(src) - 1
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= last {
			out[i] = src[last]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = src[idx] + (src[idx+1]-src[idx])*frac
	}
	return out
}

// samplesDuration is the audio length in seconds.
func samplesDuration(samples []float32) float64 {
	return float64(len(samples)) / sampleRate
}

func unsupported(err error) error {
	return transcription.NewBackendError(ProviderName, "decode", transcription.KindUnsupportedAudio, err)
}
