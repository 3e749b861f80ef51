package transcription

import (
	"path/filepath"
	"testing"

	"github.com/kbukum/whisper-gateway/validation"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Backend != "whispercpp" || cfg.Model != "base" {
		t.Errorf("unexpected backend/model defaults: %s/%s", cfg.Backend, cfg.Model)
	}
	if cfg.LanguageMode != LanguageAuto || cfg.DefaultLanguage != "en" {
		t.Errorf("unexpected language defaults: %s/%s", cfg.LanguageMode, cfg.DefaultLanguage)
	}
	if cfg.SidecarURL != "http://localhost:8387" {
		t.Errorf("unexpected sidecar url %s", cfg.SidecarURL)
	}
	if cfg.FFmpegPath != "ffmpeg" {
		t.Errorf("unexpected ffmpeg path %s", cfg.FFmpegPath)
	}
	if cfg.RetryAttempts != 1 {
		t.Errorf("expected a single attempt by default, got %d", cfg.RetryAttempts)
	}
	if err := validation.Validate(&cfg); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestConfigValidateTags(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "vosk" }},
		{"bad language mode", func(c *Config) { c.LanguageMode = "guess" }},
		{"bad sidecar url", func(c *Config) { c.SidecarURL = "not a url" }},
		{"too many retries", func(c *Config) { c.RetryAttempts = 50 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			if err := validation.Validate(&cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigValidateFixedNeedsLanguage(t *testing.T) {
	cfg := Config{LanguageMode: LanguageFixed, DefaultLanguage: " "}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for fixed mode without a default language")
	}
}

func TestResolveModelPath(t *testing.T) {
	cfg := Config{Model: "small", ModelDir: "/models"}
	if got := cfg.ResolveModelPath(); got != filepath.Join("/models", "ggml-small.bin") {
		t.Errorf("unexpected path %s", got)
	}
	cfg.ModelPath = "/opt/custom.bin"
	if got := cfg.ResolveModelPath(); got != "/opt/custom.bin" {
		t.Errorf("expected explicit path, got %s", got)
	}
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		mode, hint, want string
	}{
		{LanguageAuto, "", ""},
		{LanguageAuto, " es ", "es"},
		{LanguageFixed, "", "en"},
		{LanguageFixed, "fr", "fr"},
	}
	for _, tc := range tests {
		cfg := Config{LanguageMode: tc.mode, DefaultLanguage: "en"}
		if got := cfg.ResolveLanguage(tc.hint); got != tc.want {
			t.Errorf("mode=%s hint=%q: got %q, want %q", tc.mode, tc.hint, got, tc.want)
		}
	}
}

func TestAudioDuration(t *testing.T) {
	r := &TranscriptionResponse{Segments: []Segment{{End: 1}, {End: 3.5}}}
	if got := r.AudioDuration(); got != 3.5 {
		t.Errorf("expected last segment end, got %v", got)
	}
	r.Duration = 4
	if got := r.AudioDuration(); got != 4 {
		t.Errorf("expected reported duration, got %v", got)
	}
}

func TestBackendError(t *testing.T) {
	err := NewBackendError("sidecar", "transcribe", KindBackendResponse, errString("status 500"))
	if err.Error() != "sidecar: transcribe: status 500" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Kind() != KindBackendResponse {
		t.Errorf("unexpected kind %s", err.Kind())
	}
	if err.Transient() {
		t.Error("a backend response must not be retried")
	}
	if !NewBackendError("sidecar", "health", KindBackendUnavailable, errString("status 503")).Transient() {
		t.Error("an unavailable backend should be retried")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
