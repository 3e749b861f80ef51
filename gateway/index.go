package gateway

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisper-gateway/server"
	"github.com/kbukum/whisper-gateway/transcription"
)

// IndexInfo is the body of GET /.
type IndexInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Model     string            `json:"model"`
	Backend   string            `json:"backend"`
	Endpoints map[string]string `json:"endpoints"`
	Usage     Usage             `json:"usage"`
}

// Usage documents how to call the API.
type Usage struct {
	Transcribe EndpointUsage `json:"transcribe"`
}

// EndpointUsage describes one endpoint's request shape.
type EndpointUsage struct {
	Method      string            `json:"method"`
	ContentType string            `json:"content_type"`
	Fields      map[string]string `json:"fields"`
}

func newIndexInfo(service, ver string, model *transcription.Model) IndexInfo {
	return IndexInfo{
		Service: service,
		Version: ver,
		Model:   model.ModelName(),
		Backend: model.Backend(),
		Endpoints: map[string]string{
			"index":      "GET /",
			"health":     "GET /health",
			"transcribe": "POST /transcribe",
			"version":    "GET /version",
			"metrics":    "GET /metrics",
		},
		Usage: Usage{
			Transcribe: EndpointUsage{
				Method:      "POST",
				ContentType: "multipart/form-data",
				Fields: map[string]string{
					fieldAudio:    "Audio file (wav, mp3, m4a, flac, ...), required",
					fieldLanguage: languageUsage(model.Config()),
				},
			},
		},
	}
}

func languageUsage(cfg transcription.Config) string {
	if cfg.LanguageMode == transcription.LanguageFixed {
		return "Language code, optional (default: " + cfg.DefaultLanguage + ")"
	}
	return "Language code, optional (auto-detected when omitted)"
}

// Index returns static service metadata.
func (h *Handler) Index(c *gin.Context) {
	server.RespondOK(c, h.index)
}
