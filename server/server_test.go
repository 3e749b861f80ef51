package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisper-gateway/component"
	apperrors "github.com/kbukum/whisper-gateway/errors"
	"github.com/kbukum/whisper-gateway/logger"
)

func newTestServer(cfg Config) *Server {
	gin.SetMode(gin.TestMode)
	cfg.Host = "127.0.0.1"
	return New(cfg, logger.NewNop())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Host)
	}
	if cfg.MaxBodySize != "100MB" {
		t.Errorf("expected 100MB, got %s", cfg.MaxBodySize)
	}
	if cfg.ReadTimeout != 300 || cfg.WriteTimeout != 600 || cfg.IdleTimeout != 120 {
		t.Errorf("unexpected timeouts %d/%d/%d", cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected all origins allowed, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Port: 5000, MaxBodySize: "100MB"}, false},
		{"port zero", Config{Port: 0}, false},
		{"port too large", Config{Port: 70000}, true},
		{"negative port", Config{Port: -1}, true},
		{"bad body size", Config{Port: 5000, MaxBodySize: "lots"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestStartStopOnEphemeralPort(t *testing.T) {
	srv := newTestServer(Config{Port: 0})
	srv.RegisterDefaultEndpoints()
	sc := NewComponent(srv)

	if h := sc.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := sc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer sc.Stop(context.Background())

	if strings.HasSuffix(srv.Addr(), ":0") {
		t.Fatalf("expected bound port, got %s", srv.Addr())
	}
	resp, err := http.Get(fmt.Sprintf("http://%s/version", srv.Addr()))
	if err != nil {
		t.Fatalf("GET /version failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if h := sc.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}
}

func TestStartBindFailure(t *testing.T) {
	first := newTestServer(Config{Port: 0})
	if err := first.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer first.Stop(context.Background())

	var port int
	fmt.Sscanf(first.Addr()[strings.LastIndex(first.Addr(), ":")+1:], "%d", &port)
	second := newTestServer(Config{Port: port})
	if err := second.Start(context.Background()); err == nil {
		second.Stop(context.Background())
		t.Fatal("expected bind failure on a used port")
	}
}

func TestDefaultEndpoints(t *testing.T) {
	srv := newTestServer(Config{})
	srv.RegisterDefaultEndpoints()

	for _, path := range []string{"/version", "/metrics"} {
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rr.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: invalid JSON: %v", path, err)
		}
		if rr.Header().Get("X-Request-Id") == "" {
			t.Errorf("%s: expected request id header from middleware stack", path)
		}
	}
}

func TestMiddlewareStackRejectsLargeBody(t *testing.T) {
	srv := newTestServer(Config{MaxBodySize: "1KB"})
	called := false
	srv.GinEngine().POST("/transcribe", func(c *gin.Context) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/transcribe", strings.NewReader(strings.Repeat("x", 2048)))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rr.Code)
	}
	if called {
		t.Error("expected handler not to run")
	}
}

func TestMiddlewareStackCORSPreflight(t *testing.T) {
	srv := newTestServer(Config{})
	srv.GinEngine().POST("/transcribe", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodOptions, "/transcribe", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("unexpected allow origin %q", got)
	}
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"missing field", apperrors.MissingField("audio", "no audio file provided"), http.StatusBadRequest, "MISSING_FIELD"},
		{"wrapped app error", fmt.Errorf("handler: %w", apperrors.InvalidInput("audio", "empty filename")), http.StatusBadRequest, "INVALID_INPUT"},
		{"path error", &os.PathError{Op: "open", Path: "/tmp/x", Err: os.ErrNotExist}, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"transcription failed", apperrors.TranscriptionFailed(errors.New("boom")), http.StatusInternalServerError, "Error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			RespondWithError(c, tc.err)

			if rr.Code != tc.wantStatus {
				t.Errorf("expected %d, got %d", tc.wantStatus, rr.Code)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.ErrorType != tc.wantType || body.Error == "" {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}

func TestRoutesSummary(t *testing.T) {
	srv := newTestServer(Config{})
	srv.RegisterDefaultEndpoints()
	srv.GinEngine().GET("/", func(c *gin.Context) {})
	srv.GinEngine().POST("/transcribe", func(c *gin.Context) {})

	routes := NewComponent(srv).Routes()
	if len(routes) != 4 {
		t.Fatalf("expected 4 routes, got %d", len(routes))
	}
	if routes[0].Path != "/" || routes[1].Path != "/transcribe" {
		t.Errorf("expected API routes first, got %v", routes)
	}
	if !systemPaths[routes[2].Path] || !systemPaths[routes[3].Path] {
		t.Errorf("expected system routes last, got %v", routes)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"github.com/kbukum/whisper-gateway/gateway.(*Handler).Transcribe-fm", "Handler.Transcribe"},
		{"github.com/kbukum/whisper-gateway/server/endpoint.Metrics.func1", "metrics"},
		{"main.index", "index"},
	}
	for _, tc := range tests {
		if got := formatHandlerName(tc.in); got != tc.want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
