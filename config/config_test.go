package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server        struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`
	Whisper struct {
		Model           string `mapstructure:"model"`
		DefaultLanguage string `mapstructure:"default_language"`
	} `mapstructure:"whisper"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const sampleYAML = `
name: whisper-gateway
environment: staging
server:
  host: 0.0.0.0
  port: 5000
whisper:
  model: base
  default_language: en
`

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("expected logging service name to follow Name, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("whisper-gateway", &cfg, WithConfigFile(writeConfig(t, sampleYAML))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "whisper-gateway" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config: %+v", cfg.ServiceConfig)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("expected port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Whisper.Model != "base" {
		t.Errorf("expected model 'base', got %q", cfg.Whisper.Model)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("WHISPER_MODEL", "large-v3")
	t.Setenv("WHISPER_DEFAULT_LANGUAGE", "de")
	t.Setenv("SERVER_PORT", "6000")

	var cfg testConfig
	if err := LoadConfig("whisper-gateway", &cfg, WithConfigFile(writeConfig(t, sampleYAML))); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Whisper.Model != "large-v3" {
		t.Errorf("expected WHISPER_MODEL to override, got %q", cfg.Whisper.Model)
	}
	if cfg.Whisper.DefaultLanguage != "de" {
		t.Errorf("expected WHISPER_DEFAULT_LANGUAGE to override, got %q", cfg.Whisper.DefaultLanguage)
	}
	if cfg.Server.Port != 6000 {
		t.Errorf("expected SERVER_PORT to override, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigEnvAlias(t *testing.T) {
	t.Setenv("PORT", "7000")

	var cfg testConfig
	err := LoadConfig("whisper-gateway", &cfg,
		WithConfigFile(writeConfig(t, sampleYAML)),
		WithEnvAlias("PORT", "server.port"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected PORT alias to set server.port, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("WHISPER_MODEL=small\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("WHISPER_MODEL") })

	var cfg testConfig
	err := LoadConfig("whisper-gateway", &cfg,
		WithConfigFile(writeConfig(t, sampleYAML)),
		WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Whisper.Model != "small" {
		t.Errorf("expected .env to set model, got %q", cfg.Whisper.Model)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("whisper-gateway", &cfg, WithConfigFile(writeConfig(t, "server: [unclosed")))
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/whisper-gateway/config.yml": true,
		"./.env":                           true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("whisper-gateway", LoaderConfig{})
	if files.ConfigFile != "./cmd/whisper-gateway/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./config.yml": true}}}
	files := resolver.ResolveFiles("svc", LoaderConfig{ConfigFile: "/etc/svc.yml"})
	if files.ConfigFile != "/etc/svc.yml" {
		t.Errorf("expected explicit config file, got %q", files.ConfigFile)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("WHISPER_DEFAULT_LANGUAGE")
	for _, want := range []string{"whisper_default_language", "whisper.default_language", "whisper.default.language"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if got := generateEnvKeyVariants("PORT"); len(got) != 1 || got[0] != "port" {
		t.Errorf("expected single variant for PORT, got %v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvAlias("PORT", "server.port")(&lc)

	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected loader config: %+v", lc)
	}
	if lc.Aliases["PORT"] != "server.port" {
		t.Errorf("expected alias to be recorded, got %v", lc.Aliases)
	}
}
