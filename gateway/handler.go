package gateway

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisper-gateway/logger"
	"github.com/kbukum/whisper-gateway/observability"
	"github.com/kbukum/whisper-gateway/scratch"
	"github.com/kbukum/whisper-gateway/server"
	"github.com/kbukum/whisper-gateway/server/endpoint"
	"github.com/kbukum/whisper-gateway/transcription"
	"github.com/kbukum/whisper-gateway/version"
)

// Handler serves the gateway routes on top of one shared model.
type Handler struct {
	service     string
	maxBodySize string
	model       *transcription.Model
	scratch     *scratch.Dir
	metrics     *observability.Metrics
	log         *logger.Logger
	index       IndexInfo
}

// NewHandler builds the handlers for cfg. cfg must already have defaults
// applied. Metrics are taken from the global meter provider, so they are
// no-ops unless telemetry is enabled.
func NewHandler(cfg *Config, model *transcription.Model, log *logger.Logger) (*Handler, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	dir, err := scratch.NewDir(cfg.Whisper.TempDir)
	if err != nil {
		return nil, err
	}
	metrics, err := observability.NewGlobalMetrics()
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	ver := cfg.Version
	if ver == "" {
		ver = version.Get().Version
	}

	return &Handler{
		service:     cfg.Name,
		maxBodySize: cfg.Server.MaxBodySize,
		model:       model,
		scratch:     dir,
		metrics:     metrics,
		log:         log.WithComponent("gateway"),
		index:       newIndexInfo(cfg.Name, ver, model),
	}, nil
}

// RegisterRoutes adds the gateway routes to r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Index)
	r.GET("/health", endpoint.Health(h.service, h.healthDetails))
	r.POST("/transcribe", h.Transcribe)
}

func (h *Handler) healthDetails(context.Context) map[string]any {
	return map[string]any{
		"model":   h.model.ModelName(),
		"backend": h.model.Backend(),
		"device":  h.model.Device(),
	}
}

// NewServer returns an HTTP server carrying the gateway routes plus
// /version and /metrics.
func NewServer(cfg *Config, model *transcription.Model, log *logger.Logger) (*server.Server, error) {
	h, err := NewHandler(cfg, model, log)
	if err != nil {
		return nil, err
	}
	srv := server.New(cfg.Server, log)
	srv.RegisterDefaultEndpoints()
	h.RegisterRoutes(srv.GinEngine())
	return srv, nil
}
