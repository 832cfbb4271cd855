package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noratrieb/qotdd/internal/adapters/http/dto"
	"github.com/Noratrieb/qotdd/internal/adapters/http/handlers"
	"github.com/Noratrieb/qotdd/internal/app"
	"github.com/Noratrieb/qotdd/internal/domain"
	"github.com/Noratrieb/qotdd/internal/platform/config"
	"github.com/Noratrieb/qotdd/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// denyLimiter rejects every client.
type denyLimiter struct{}

func (denyLimiter) Allow(netip.Addr) bool   { return false }
func (denyLimiter) Run(ctx context.Context) { <-ctx.Done() }

func testRouterConfig(t *testing.T, limiter ports.RateLimiter) RouterConfig {
	t.Helper()

	selector, err := app.NewSelector(app.PolicyRotation, domain.Collection{
		domain.NewQuote("Hello, world.", ""),
	})
	require.NoError(t, err)

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Selector: selector,
		Limiter:  limiter,
		Logger:   discardLogger(),
	})

	return RouterConfig{
		Logger:        discardLogger(),
		AppConfig:     &config.AppConfig{Name: "qotdd", Version: "test"},
		HealthHandler: handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.BuildInfo{}),
		QuoteHandler:  handlers.NewQuoteHandler(service),
		Timeout:       5 * time.Second,
	}
}

func TestSetupRouter_Routes(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, testRouterConfig(t, nil))

	tests := []struct {
		path           string
		expectedStatus int
	}{
		{"/-/live", http.StatusOK},
		{"/-/ready", http.StatusOK},
		{"/-/build", http.StatusOK},
		{"/-/metrics", http.StatusOK},
		{"/api/v1/quotes/next", http.StatusOK},
		{"/api/v1/does-not-exist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSetupRouter_RequestIDHeader(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, testRouterConfig(t, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/next", nil)
	engine.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetupRouter_RateLimitedPreview(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, testRouterConfig(t, denyLimiter{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/next", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeRateLimited, resp.Error.Code)
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := &config.OpsConfig{
		Enabled:         true,
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}

	srv := New(cfg, discardLogger())
	require.NotNil(t, srv.Engine())
	assert.Equal(t, cfg, srv.Config())

	errCh := srv.Start()

	// Give the listener a moment, then shut down cleanly.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	err, ok := <-errCh
	if ok {
		require.NoError(t, err)
	}
}
