package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kbukum/whisper-gateway/component"
	"github.com/kbukum/whisper-gateway/config"
	"github.com/kbukum/whisper-gateway/logger"
)

// testConfig is a minimal config that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}
func (m *mockComponent) Describe() component.Description {
	return component.Description{Type: "model", Details: "stub"}
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
			Logging:     logger.Config{Level: "error"},
		},
	}
}

func healthy(name string) *mockComponent {
	return &mockComponent{
		name:   name,
		health: component.Health{Name: name, Status: component.StatusHealthy},
	}
}

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestConfig("whisper-gateway", "1.0.0"))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "whisper-gateway" || app.Version != "1.0.0" {
		t.Errorf("unexpected app identity %q %q", app.Name, app.Version)
	}
	if app.Components == nil || app.Logger == nil {
		t.Error("expected registry and logger to be initialized")
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected defaults applied, got %q", app.Cfg.Environment)
	}
}

func TestNewAppValidation(t *testing.T) {
	if _, err := NewApp(newTestConfig("", "1.0")); err == nil {
		t.Error("expected validation error for missing name")
	}
}

func TestGracefulTimeout(t *testing.T) {
	app, err := NewApp(newTestConfig("svc", "1.0"), WithGracefulTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.shutdownTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", app.shutdownTimeout)
	}

	for _, d := range []time.Duration{0, -time.Second} {
		def, _ := NewApp(newTestConfig("svc", "1.0"), WithGracefulTimeout(d))
		if def.shutdownTimeout != DefaultShutdownTimeout {
			t.Errorf("WithGracefulTimeout(%v): expected default, got %v", d, def.shutdownTimeout)
		}
	}
}

// stuckComponent never finishes stopping on its own.
type stuckComponent struct {
	*mockComponent
}

func (s *stuckComponent) Stop(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunStopIsBoundedByGracefulTimeout(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", "1.0"), WithGracefulTimeout(50*time.Millisecond))
	app.RegisterComponent(&stuckComponent{healthy("model")})

	done := make(chan error, 1)
	go func() { done <- app.Run(canceledContext()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected the timed out stop to be reported")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the graceful timeout")
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", "1.0"))
	if err := app.RegisterComponent(healthy("model")); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}
	if err := app.RegisterComponent(healthy("model")); err == nil {
		t.Error("expected error for duplicate component")
	}
}

func TestRunLifecycle(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", "1.0"))
	model := healthy("model")
	server := healthy("http-server")
	app.RegisterComponent(model)
	app.RegisterComponent(server)

	if err := app.Run(canceledContext()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !model.started || !server.started || !model.stopped || !server.stopped {
		t.Error("expected both components to be started and stopped")
	}
}

func TestRunModelLoadFailure(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", "1.0"))
	telemetry := healthy("telemetry")
	model := &mockComponent{name: "model", startErr: fmt.Errorf("model file not found")}
	server := healthy("http-server")
	app.RegisterComponent(telemetry)
	app.RegisterComponent(model)
	app.RegisterComponent(server)

	err := app.Run(context.Background())
	if err == nil {
		t.Fatal("expected Run to fail when the model cannot load")
	}
	if server.started {
		t.Error("server must not start without a usable model")
	}
	if !telemetry.stopped {
		t.Error("expected already-started components to be stopped")
	}
}

func TestRunStopErrors(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", "1.0"))
	comp := healthy("model")
	comp.stopErr = fmt.Errorf("free failed")
	app.RegisterComponent(comp)

	if err := app.Run(canceledContext()); err == nil {
		t.Error("expected stop error to be returned")
	}
}

func TestReadyCheck(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", "1.0"))
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("expected no error for empty registry, got %v", err)
	}

	app.RegisterComponent(healthy("model"))
	app.RegisterComponent(&mockComponent{
		name:   "http-server",
		health: component.Health{Name: "http-server", Status: component.StatusDegraded, Message: "slow"},
	})
	if err := app.ReadyCheck(context.Background()); err == nil {
		t.Error("expected error for degraded component")
	}
}

func TestWaitForSignalContextCancellation(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", "1.0"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if sig := app.WaitForSignal(ctx); sig != nil {
		t.Errorf("expected nil signal for context cancellation, got %v", sig)
	}
}
