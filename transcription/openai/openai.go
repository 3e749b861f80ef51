package openai

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/whisper-gateway/logger"
	"github.com/kbukum/whisper-gateway/resilience"
	"github.com/kbukum/whisper-gateway/transcription"
)

// ProviderName is the registered name for the OpenAI-compatible backend.
const ProviderName = "openai"

const defaultBaseURL = "https://api.openai.com/v1"

var errNoAPIKey = errors.New("whisper.openai_api_key is required for api.openai.com")

// Config holds configuration for the OpenAI-compatible backend.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	RetryAttempts int
	HTTPClient    *http.Client
}

// Provider implements transcription.Provider against any server exposing
// the OpenAI /audio/transcriptions API.
type Provider struct {
	cfg    Config
	client *goopenai.Client
	log    *logger.Logger
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates an OpenAI-compatible backend.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = goopenai.Whisper1
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	return &Provider{
		cfg:    cfg,
		client: goopenai.NewClientWithConfig(clientCfg),
		log:    logger.WithComponent("openai"),
	}
}

// Factory builds the backend from the whisper config.
func Factory() transcription.Factory {
	return func(cfg transcription.Config) (transcription.Provider, error) {
		return NewProvider(Config{
			APIKey:        cfg.OpenAIAPIKey,
			BaseURL:       cfg.OpenAIBaseURL,
			Model:         cfg.OpenAIModel,
			RetryAttempts: cfg.RetryAttempts,
		}), nil
	}
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Device() string { return "remote" }

// IsAvailable lists models to check the endpoint answers. Servers that do
// not implement /models but respond count as available.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.ping(ctx) == nil
}

// Init checks credentials and that the endpoint answers.
func (p *Provider) Init(ctx context.Context) error {
	if p.cfg.APIKey == "" && p.cfg.BaseURL == defaultBaseURL {
		return transcription.NewBackendError(ProviderName, "init", transcription.KindBackendUnavailable, errNoAPIKey)
	}
	return resilience.RetryFunc(ctx, p.retryConfig("ping"), func() error {
		return p.ping(ctx)
	})
}

func (p *Provider) ping(ctx context.Context) error {
	_, err := p.client.ListModels(ctx)
	if err == nil {
		return nil
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
		return nil
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusNotFound {
		return nil
	}
	return classify("ping", err)
}

// Transcribe uploads the file and maps the verbose JSON result.
func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResponse, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	audioReq := goopenai.AudioRequest{
		Model:    model,
		FilePath: req.AudioPath,
		Language: req.Language,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
	}

	resp, err := resilience.Retry(ctx, p.retryConfig("transcribe"), func() (goopenai.AudioResponse, error) {
		r, err := p.client.CreateTranscription(ctx, audioReq)
		if err != nil {
			return r, classify("transcribe", err)
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}

	out := &transcription.TranscriptionResponse{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
		Segments: make([]transcription.Segment, len(resp.Segments)),
	}
	for i, seg := range resp.Segments {
		out.Segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	out.Duration = out.AudioDuration()
	return out, nil
}

// classify wraps API failures in a BackendError. File errors pass through
// untouched so they keep their own kind.
func classify(op string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		kind := transcription.KindBackendResponse
		if apiErr.HTTPStatusCode >= http.StatusInternalServerError {
			kind = transcription.KindBackendUnavailable
		}
		return transcription.NewBackendError(ProviderName, op, kind, err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return transcription.NewBackendError(ProviderName, op, transcription.KindBackendResponse, err)
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return err
	}
	return transcription.NewBackendError(ProviderName, op, transcription.KindBackendUnavailable, err)
}

func (p *Provider) retryConfig(op string) resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig(p.cfg.RetryAttempts)
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		p.log.Warn("OpenAI request failed, retrying", logger.Fields(
			logger.FieldOperation, op,
			"attempt", attempt,
			"backoff", backoff.String(),
			logger.FieldError, err.Error(),
		))
	}
	return cfg
}
