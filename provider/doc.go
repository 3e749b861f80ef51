// Package provider holds the small generic framework backends plug into: a
// Provider interface, optional Init/Close lifecycle hooks, and a Registry
// of typed factories selected by name at startup.
//
//	reg := provider.NewRegistry[Config, Backend]()
//	reg.RegisterFactory("sidecar", newSidecar)
//	b, err := reg.Create(cfg.Backend, cfg)
package provider
