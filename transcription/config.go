package transcription

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language modes.
const (
	// LanguageAuto leaves the language empty so the backend detects it.
	LanguageAuto = "auto"
	// LanguageFixed falls back to DefaultLanguage when the request has none.
	LanguageFixed = "fixed"
)

// Config is the whisper block of the service config.
type Config struct {
	// Backend selects the implementation: whispercpp, sidecar or openai.
	Backend string `yaml:"backend" mapstructure:"backend" validate:"required,oneof=whispercpp sidecar openai"`
	// Model is the model identifier (tiny, base, small, medium, large-v3...).
	Model string `yaml:"model" mapstructure:"model" validate:"required"`

	// whispercpp
	ModelDir  string `yaml:"model_dir" mapstructure:"model_dir"`
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
	Threads   int    `yaml:"threads" mapstructure:"threads" validate:"gte=0"`
	// FFmpegPath converts uploads that are not PCM WAV.
	FFmpegPath string `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`

	// sidecar
	SidecarURL string `yaml:"sidecar_url" mapstructure:"sidecar_url" validate:"omitempty,url"`

	// openai
	OpenAIBaseURL string `yaml:"openai_base_url" mapstructure:"openai_base_url" validate:"omitempty,url"`
	OpenAIAPIKey  string `yaml:"openai_api_key" mapstructure:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model" mapstructure:"openai_model"`

	LanguageMode    string `yaml:"language_mode" mapstructure:"language_mode" validate:"oneof=auto fixed"`
	DefaultLanguage string `yaml:"default_language" mapstructure:"default_language"`

	// TempDir holds uploads while they are transcribed. Empty means the OS
	// temp dir.
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
	// RetryAttempts bounds attempts against remote backends on transient
	// connection failures. 1 disables retry.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts" validate:"gte=1,lte=10"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = "whispercpp"
	}
	if c.Model == "" {
		c.Model = "base"
	}
	if c.ModelDir == "" {
		c.ModelDir = "models"
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.SidecarURL == "" {
		c.SidecarURL = "http://localhost:8387"
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = "whisper-1"
	}
	if c.LanguageMode == "" {
		c.LanguageMode = LanguageAuto
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "en"
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 1
	}
}

// Validate checks cross-field rules the struct tags cannot express.
func (c *Config) Validate() error {
	if c.LanguageMode == LanguageFixed && strings.TrimSpace(c.DefaultLanguage) == "" {
		return fmt.Errorf("whisper.default_language is required when language_mode is fixed")
	}
	return nil
}

// ResolveModelPath returns ModelPath, or ModelDir/ggml-<model>.bin.
func (c *Config) ResolveModelPath() string {
	if c.ModelPath != "" {
		return c.ModelPath
	}
	return filepath.Join(c.ModelDir, "ggml-"+c.Model+".bin")
}

// ResolveLanguage picks the language to send to the backend: the request
// hint when present, otherwise whatever the language mode dictates.
func (c *Config) ResolveLanguage(hint string) string {
	if hint = strings.TrimSpace(hint); hint != "" {
		return hint
	}
	if c.LanguageMode == LanguageFixed {
		return c.DefaultLanguage
	}
	return ""
}
