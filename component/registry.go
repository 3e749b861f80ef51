package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/whisper-gateway/logger"
)

// stopTimeout caps a single component's Stop inside the caller's deadline.
const stopTimeout = 10 * time.Second

// Registry starts components in registration order and stops the started
// ones in reverse, so a component may rely on everything registered
// before it.
type Registry struct {
	mu      sync.RWMutex
	list    []Component
	started []bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.list {
		if existing.Name() == c.Name() {
			return fmt.Errorf("component %s already registered", c.Name())
		}
	}
	r.list = append(r.list, c)
	r.started = append(r.started, false)

	logger.Debug("Component registered", logger.Fields(logger.FieldComponent, c.Name()))
	return nil
}

// StartAll starts each component in turn and stops at the first failure.
// Components that did start are left running for StopAll to release.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.Info("Starting components", logger.Fields("count", len(r.list)))
	for i, c := range r.list {
		fields := logger.Fields(logger.FieldComponent, c.Name())
		if err := c.Start(ctx); err != nil {
			logger.Error("Component start failed", logger.MergeWithError(fields, err))
			return fmt.Errorf("failed to start %s: %w", c.Name(), err)
		}
		r.started[i] = true
		logger.Debug("Component started", fields)
	}
	return nil
}

// StopAll stops started components in reverse order. Every component gets
// a Stop call even when an earlier one fails or times out; the failures
// are joined.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.list) - 1; i >= 0; i-- {
		if !r.started[i] {
			continue
		}
		c := r.list[i]
		fields := logger.Fields(logger.FieldComponent, c.Name())

		stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		err := c.Stop(stopCtx)
		cancel()
		r.started[i] = false

		if err != nil {
			logger.Error("Component stop failed", logger.MergeWithError(fields, err))
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", c.Name(), err))
			continue
		}
		logger.Info("Component stopped", fields)
	}
	return errors.Join(errs...)
}

// HealthAll asks every component for its health, in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, len(r.list))
	for i, c := range r.list {
		out[i] = c.Health(ctx)
	}
	return out
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Component(nil), r.list...)
}
