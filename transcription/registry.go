package transcription

import "github.com/kbukum/whisper-gateway/provider"

// Registry maps backend names to factories.
type Registry = provider.Registry[Config, Provider]

// Factory builds a backend from the whisper config.
type Factory = provider.Factory[Config, Provider]

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return provider.NewRegistry[Config, Provider]()
}
