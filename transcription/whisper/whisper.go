package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/whisper-gateway/logger"
	"github.com/kbukum/whisper-gateway/resilience"
	"github.com/kbukum/whisper-gateway/transcription"
	"github.com/kbukum/whisper-gateway/version"
)

const (
	// ProviderName is the registered name for the sidecar backend.
	ProviderName = "sidecar"

	defaultDevice = "remote"
	healthTimeout = 10 * time.Second
	maxErrorBody  = 4 << 10
)

// Config holds configuration for the faster-whisper sidecar backend.
type Config struct {
	URL           string
	Model         string
	RetryAttempts int
	// HTTPClient overrides the default client. The default has no timeout;
	// a transcription takes as long as the sidecar needs.
	HTTPClient *http.Client
}

// Provider implements transcription.Provider against a faster-whisper HTTP
// sidecar exposing GET /health and multipart POST /transcribe.
type Provider struct {
	cfg    Config
	client *http.Client
	log    *logger.Logger
	device string
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a sidecar backend.
func NewProvider(cfg Config) *Provider {
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.URL == "" {
		cfg.URL = "http://localhost:8387"
	}
	if cfg.Model == "" {
		cfg.Model = "base"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Provider{
		cfg:    cfg,
		client: client,
		log:    logger.WithComponent("sidecar"),
		device: defaultDevice,
	}
}

// Factory builds the sidecar backend from the whisper config.
func Factory() transcription.Factory {
	return func(cfg transcription.Config) (transcription.Provider, error) {
		return NewProvider(Config{
			URL:           cfg.SidecarURL,
			Model:         cfg.Model,
			RetryAttempts: cfg.RetryAttempts,
		}), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// Device returns the device the sidecar reported at startup.
func (p *Provider) Device() string { return p.device }

// IsAvailable checks if the sidecar answers its health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.health(ctx)
	return err == nil
}

// Init checks the sidecar health so the gateway refuses to start without it.
func (p *Provider) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	h, err := resilience.Retry(ctx, p.retryConfig("health"), func() (*healthResponse, error) {
		return p.health(ctx)
	})
	if err != nil {
		return err
	}
	if h.Device != "" {
		p.device = h.Device
	}
	if h.Model != "" && h.Model != p.cfg.Model {
		p.log.Warn("Sidecar serves a different model", logger.Fields(
			logger.FieldModel, p.cfg.Model,
			"sidecar_model", h.Model,
		))
	}
	return nil
}

// Transcribe uploads the audio file to the sidecar and returns its result.
func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	audioData, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}

	result, err := resilience.Retry(ctx, p.retryConfig("transcribe"), func() (*whisperResponse, error) {
		return p.post(ctx, filepath.Base(req.AudioPath), audioData, model, req.Language)
	})
	if err != nil {
		return nil, err
	}
	return toTranscriptionResponse(result), nil
}

func (p *Provider) post(ctx context.Context, filename string, audio []byte, model, lang string) (*whisperResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}
	_ = writer.WriteField("model", model)
	if lang != "" {
		_ = writer.WriteField("language", lang)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL+"/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("User-Agent", version.UserAgent("whisper-gateway"))
	if id := logger.RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Request-Id", id)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, transcription.NewBackendError(ProviderName, "transcribe", transcription.KindBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("transcribe", resp)
	}

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, transcription.NewBackendError(ProviderName, "transcribe", transcription.KindBackendResponse,
			fmt.Errorf("decode response: %w", err))
	}
	return &result, nil
}

func (p *Provider) health(ctx context.Context) (*healthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent("whisper-gateway"))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, transcription.NewBackendError(ProviderName, "health", transcription.KindBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("health", resp)
	}
	var h healthResponse
	// Older sidecars answer with an empty body.
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil && err != io.EOF {
		return nil, transcription.NewBackendError(ProviderName, "health", transcription.KindBackendResponse,
			fmt.Errorf("decode health: %w", err))
	}
	return &h, nil
}

func (p *Provider) retryConfig(op string) resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig(p.cfg.RetryAttempts)
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		p.log.Warn("Sidecar request failed, retrying", logger.Fields(
			logger.FieldOperation, op,
			"attempt", attempt,
			"backoff", backoff.String(),
			logger.FieldError, err.Error(),
		))
	}
	return cfg
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	kind := transcription.KindBackendResponse
	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusBadGateway {
		kind = transcription.KindBackendUnavailable
	}
	return transcription.NewBackendError(ProviderName, op, kind,
		fmt.Errorf("status %d: %s", resp.StatusCode, msg))
}

// --- internal sidecar API types ---

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
	Device string `json:"device"`
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toTranscriptionResponse(resp *whisperResponse) *transcription.TranscriptionResponse {
	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
	}

	out := &transcription.TranscriptionResponse{
		Text:     resp.Text,
		Segments: segments,
		Duration: resp.Duration,
		Language: resp.Language,
	}
	out.Duration = out.AudioDuration()
	return out
}
