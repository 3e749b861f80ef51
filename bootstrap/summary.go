package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/whisper-gateway/component"
	"github.com/kbukum/whisper-gateway/logger"
)

// logSummary writes one line per component and route after startup.
func logSummary(ctx context.Context, log *logger.Logger, name, version string, took time.Duration, registry *component.Registry) {
	log.Info(fmt.Sprintf("%s v%s started in %.2fs", name, version, took.Seconds()))

	health := make(map[string]component.Health)
	for _, h := range registry.HealthAll(ctx) {
		health[h.Name] = h
	}

	for _, c := range registry.All() {
		fields := logger.Fields(logger.FieldComponent, c.Name())
		if h, ok := health[c.Name()]; ok {
			fields[logger.FieldStatus] = string(h.Status)
		}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			fields["type"] = desc.Type
			fields["details"] = desc.Details
			if desc.Port > 0 {
				fields["port"] = desc.Port
			}
		}
		log.Info("Component", fields)

		if rp, ok := c.(component.RouteProvider); ok {
			for _, r := range rp.Routes() {
				log.Debug("Route", map[string]interface{}{
					"method":  r.Method,
					"path":    r.Path,
					"handler": r.Handler,
				})
			}
		}
	}
}
