//go:build whispercpp

package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/kbukum/whisper-gateway/logger"
	"github.com/kbukum/whisper-gateway/transcription"
)

// Provider runs whisper.cpp in process. The model is loaded once. Audio
// decoding runs concurrently but inference is serialized: every context the
// bindings hand out shares the model's single whisper_context.
type Provider struct {
	cfg Config
	log *logger.Logger

	mu    sync.RWMutex
	model whisper.Model

	// infer guards whisper_full and the segment reads that follow it.
	infer sync.Mutex
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates the backend. The model loads in Init.
func NewProvider(cfg Config) *Provider {
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.NumCPU()
	}
	return &Provider{cfg: cfg, log: logger.WithComponent("whispercpp")}
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Device() string { return "cpu" }

func (p *Provider) IsAvailable(context.Context) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model != nil
}

// Init loads the model weights.
func (p *Provider) Init(context.Context) error {
	path := strings.TrimSpace(p.cfg.ModelPath)
	if _, err := os.Stat(path); err != nil {
		return transcription.NewBackendError(ProviderName, "load", transcription.KindModelNotFound, err)
	}

	model, err := whisper.New(path)
	if err != nil {
		return fmt.Errorf("load whisper model %s: %w", path, err)
	}

	p.mu.Lock()
	p.model = model
	p.mu.Unlock()

	p.log.Debug("Model weights loaded", logger.Fields(
		logger.FieldPath, path,
		"multilingual", model.IsMultilingual(),
		"threads", p.cfg.Threads,
	))
	return nil
}

// Close frees the model.
func (p *Provider) Close(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model == nil {
		return nil
	}
	err := p.model.Close()
	p.model = nil
	return err
}

// Transcribe decodes the upload and runs inference on it.
func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	samples, err := loadAudio(ctx, req.AudioPath, p.cfg.FFmpeg)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return nil, transcription.NewBackendError(ProviderName, "transcribe", transcription.KindModelClosed,
			errors.New("model released"))
	}

	p.infer.Lock()
	defer p.infer.Unlock()

	wctx, err := p.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create whisper context: %w", err)
	}
	wctx.SetThreads(uint(p.cfg.Threads))

	lang := req.Language
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return nil, transcription.NewBackendError(ProviderName, "transcribe", transcription.KindBackendResponse,
			fmt.Errorf("language %q: %w", lang, err))
	}

	proceed := func() bool { return ctx.Err() == nil }
	if err := wctx.Process(samples, proceed, nil, nil); err != nil {
		return nil, fmt.Errorf("whisper process: %w", err)
	}

	var (
		segments []transcription.Segment
		text     strings.Builder
	)
	for {
		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read segment: %w", err)
		}
		segments = append(segments, transcription.Segment{
			Start: seg.Start.Seconds(),
			End:   seg.End.Seconds(),
			Text:  seg.Text,
		})
		if text.Len() > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(strings.TrimSpace(seg.Text))
	}

	detected := wctx.DetectedLanguage()
	if detected == "" && lang != "auto" {
		detected = lang
	}
	return &transcription.TranscriptionResponse{
		Text:     text.String(),
		Language: detected,
		Duration: samplesDuration(samples),
		Segments: segments,
	}, nil
}
