package main

import (
	"context"
	"fmt"

	"github.com/kbukum/whisper-gateway/bootstrap"
	"github.com/kbukum/whisper-gateway/config"
	"github.com/kbukum/whisper-gateway/gateway"
	"github.com/kbukum/whisper-gateway/logger"
	"github.com/kbukum/whisper-gateway/observability"
	"github.com/kbukum/whisper-gateway/server"
	"github.com/kbukum/whisper-gateway/transcription"
	"github.com/kbukum/whisper-gateway/transcription/openai"
	sidecar "github.com/kbukum/whisper-gateway/transcription/whisper"
	"github.com/kbukum/whisper-gateway/transcription/whispercpp"
	"github.com/kbukum/whisper-gateway/util"
	"github.com/kbukum/whisper-gateway/version"
)

type serveOptions struct {
	configFile string
	envFile    string
}

// loadConfig reads config.yml, .env and the environment into a Config.
func loadConfig(opts serveOptions) (*gateway.Config, error) {
	loaderOpts := []config.LoaderOption{
		config.WithEnvAlias("PORT", "server.port"),
		config.WithEnvAlias("WHISPER_MODEL", "whisper.model"),
	}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}

	cfg := &gateway.Config{}
	if err := config.LoadConfig(gateway.ServiceName, cfg, loaderOpts...); err != nil {
		return nil, err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}
	return cfg, nil
}

// backends lists every backend this binary can run.
func backends() *transcription.Registry {
	r := transcription.NewRegistry()
	r.RegisterFactory(whispercpp.ProviderName, whispercpp.Factory())
	r.RegisterFactory(sidecar.ProviderName, sidecar.Factory())
	r.RegisterFactory(openai.ProviderName, openai.Factory())
	return r
}

// serve loads the model and then binds the server. Any startup error,
// a failed model load included, is returned so the process exits non-zero.
func serve(ctx context.Context, opts serveOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app, err := bootstrap.NewApp(cfg, bootstrap.WithGracefulTimeout(cfg.ShutdownTimeout))
	if err != nil {
		return err
	}
	log := app.Logger

	backend, err := backends().Create(cfg.Whisper.Backend, cfg.Whisper)
	if err != nil {
		return err
	}
	model := transcription.NewModel(cfg.Whisper, backend, log)

	srv, err := gateway.NewServer(cfg, model, log)
	if err != nil {
		return err
	}

	// Start order matters: no request is accepted before the model loads.
	if err := app.RegisterComponent(observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)); err != nil {
		return err
	}
	if err := app.RegisterComponent(model); err != nil {
		return err
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	log.Info("Configured backend", backendFields(&cfg.Whisper))
	return app.Run(ctx)
}

// backendFields describes the selected backend for the startup log. The
// OpenAI key is masked.
func backendFields(w *transcription.Config) map[string]interface{} {
	fields := logger.Fields(
		logger.FieldBackend, w.Backend,
		logger.FieldModel, w.Model,
		"language_mode", w.LanguageMode,
	)
	switch w.Backend {
	case whispercpp.ProviderName:
		fields[logger.FieldPath] = w.ResolveModelPath()
		fields["ffmpeg"] = w.FFmpegPath
	case sidecar.ProviderName:
		fields["url"] = w.SidecarURL
	case openai.ProviderName:
		fields["url"] = w.OpenAIBaseURL
		fields["openai_model"] = w.OpenAIModel
		fields["openai_api_key"] = util.MaskSecret(w.OpenAIAPIKey, 3)
	}
	return fields
}
