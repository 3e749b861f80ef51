// Package config loads service configuration with Viper.
//
// LoadConfig reads cmd/<service>/config.yml (or an explicit file), loads an
// optional .env file through godotenv, and binds environment variables onto
// nested keys: WHISPER_MODEL sets whisper.model and SERVER_PORT sets
// server.port. Bare variables such as PORT are mapped with WithEnvAlias.
//
//	var cfg gateway.Config
//	err := config.LoadConfig("whisper-gateway", &cfg,
//	    config.WithEnvAlias("PORT", "server.port"))
package config
