package gateway

import (
	"time"

	"github.com/kbukum/whisper-gateway/config"
	"github.com/kbukum/whisper-gateway/observability"
	"github.com/kbukum/whisper-gateway/server"
	"github.com/kbukum/whisper-gateway/transcription"
	"github.com/kbukum/whisper-gateway/validation"
)

const (
	// ServiceName is the default service name and config lookup key.
	ServiceName = "whisper-gateway"
	// DefaultPort is the listening port when none is configured.
	DefaultPort = 5000
	// DefaultShutdownTimeout bounds graceful shutdown, including the wait
	// for in-flight transcriptions.
	DefaultShutdownTimeout = 30 * time.Second
)

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// ShutdownTimeout is how long SIGTERM waits for running requests.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gte=0"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Whisper       transcription.Config `yaml:"whisper" mapstructure:"whisper"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset fields in every block.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	c.Server.ApplyDefaults()
	c.Whisper.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate runs the struct tag checks and each block's own rules.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Whisper.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}
