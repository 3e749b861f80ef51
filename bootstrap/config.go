package bootstrap

import (
	"github.com/kbukum/whisper-gateway/config"
)

// Config is the constraint for application configuration types. Any struct
// that embeds config.ServiceConfig satisfies it through promoted methods, as
// long as it also overrides ApplyDefaults and Validate for its own blocks.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
