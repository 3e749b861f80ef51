package transcription

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/whisper-gateway/component"
	"github.com/kbukum/whisper-gateway/logger"
	"github.com/kbukum/whisper-gateway/observability"
	"github.com/kbukum/whisper-gateway/provider"
)

var errModelClosed = errors.New("model is not loaded")

// Model is the loaded backend shared by every request. It is a lifecycle
// component: Start loads the backend once and Stop releases it after
// in-flight transcriptions finish or its context expires.
type Model struct {
	cfg      Config
	provider Provider
	log      *logger.Logger

	mu       sync.RWMutex
	loaded   bool
	draining bool
	device   string
	inflight sync.WaitGroup
}

var (
	_ component.Component   = (*Model)(nil)
	_ component.Describable = (*Model)(nil)
)

// NewModel wraps p as the model handle for cfg. Nothing is loaded until
// Start.
func NewModel(cfg Config, p Provider, log *logger.Logger) *Model {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Model{
		cfg:      cfg,
		provider: p,
		log:      log.WithComponent("model"),
	}
}

func (m *Model) Name() string { return "model" }

// Start loads the backend. A failure here is fatal for the service.
func (m *Model) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return nil
	}
	if m.draining {
		return fmt.Errorf("model %s is still being released", m.cfg.Model)
	}

	fields := logger.Fields(logger.FieldModel, m.cfg.Model, logger.FieldBackend, m.provider.Name())
	m.log.Info("Loading Whisper model", fields)

	ctx, span := observability.StartSpan(ctx, observability.SpanModelLoad, trace.WithAttributes(
		attribute.String(observability.AttrBackend, m.provider.Name()),
		attribute.String(observability.AttrModel, m.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	if err := provider.Init(ctx, m.provider); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.log.Error("Failed to load Whisper model", logger.MergeWithError(fields, err))
		return fmt.Errorf("load model %s (%s): %w", m.cfg.Model, m.provider.Name(), err)
	}

	m.device = "cpu"
	if d, ok := m.provider.(DeviceReporter); ok && d.Device() != "" {
		m.device = d.Device()
	}
	m.loaded = true

	took := time.Since(start)
	done := logger.DurationFields("model_load", took)
	for k, v := range fields {
		done[k] = v
	}
	done["device"] = m.device
	m.log.Info("Whisper model loaded", done)
	return nil
}

// Stop refuses new transcriptions and releases the backend once in-flight
// ones return. If ctx expires first the backend is left open and ctx.Err()
// is returned; calling Stop again resumes the wait.
func (m *Model) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.loaded && !m.draining {
		m.mu.Unlock()
		return nil
	}
	m.loaded = false
	m.draining = true
	m.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		m.log.Warn("Model release timed out waiting for in-flight transcriptions",
			logger.MergeWithError(logger.Fields(logger.FieldModel, m.cfg.Model), ctx.Err()))
		return ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.draining {
		return nil
	}
	m.draining = false
	if err := provider.Close(ctx, m.provider); err != nil {
		return fmt.Errorf("release model %s: %w", m.cfg.Model, err)
	}
	m.log.Info("Whisper model released", logger.Fields(logger.FieldModel, m.cfg.Model))
	return nil
}

func (m *Model) Health(_ context.Context) component.Health {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return component.Health{Name: m.Name(), Status: component.StatusUnhealthy, Message: "not loaded"}
	}
	return component.Health{Name: m.Name(), Status: component.StatusHealthy, Message: m.cfg.Model + " loaded"}
}

// Describe returns a summary for the startup log.
func (m *Model) Describe() component.Description {
	return component.Description{
		Name:    "Whisper Model",
		Type:    "model",
		Details: fmt.Sprintf("%s %s (%s)", m.provider.Name(), m.cfg.Model, m.Device()),
	}
}

// Transcribe runs req on the loaded backend. The model stays loaded until
// the call returns unless Stop gives up waiting.
func (m *Model) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	m.mu.RLock()
	if !m.loaded {
		m.mu.RUnlock()
		return nil, NewBackendError(m.provider.Name(), "transcribe", KindModelClosed, errModelClosed)
	}
	m.inflight.Add(1)
	m.mu.RUnlock()
	defer m.inflight.Done()

	return m.provider.Transcribe(ctx, req)
}

// ModelName returns the configured model identifier.
func (m *Model) ModelName() string { return m.cfg.Model }

// Backend returns the backend name.
func (m *Model) Backend() string { return m.provider.Name() }

// Device returns where inference runs. It is "cpu" until the model loads
// and the backend reports otherwise.
func (m *Model) Device() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.device == "" {
		return "cpu"
	}
	return m.device
}

// Config returns a copy of the config the model was built with.
func (m *Model) Config() Config { return m.cfg }
