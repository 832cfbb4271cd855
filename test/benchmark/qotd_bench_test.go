package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Noratrieb/qotdd/internal/adapters/http/handlers"
	"github.com/Noratrieb/qotdd/internal/app"
	"github.com/Noratrieb/qotdd/internal/domain"
	"github.com/Noratrieb/qotdd/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

func benchQuotes(n int) domain.Collection {
	quotes := make(domain.Collection, n)
	for i := range quotes {
		quotes[i] = domain.NewQuote(fmt.Sprintf("quote number %d", i), "bench")
	}

	return quotes
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

// BenchmarkRotationSelector measures the per-request cost of the
// rotation cursor. This sits on the hot path of every connection.
func BenchmarkRotationSelector(b *testing.B) {
	selector, err := app.NewSelector(app.PolicyRotation, benchQuotes(100))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = selector.Next()
	}
}

// BenchmarkRandomSelector measures the per-request cost of random selection.
func BenchmarkRandomSelector(b *testing.B) {
	selector, err := app.NewSelector(app.PolicyRandom, benchQuotes(100))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = selector.Next()
	}
}

// BenchmarkRotationSelectorParallel measures cursor contention under
// concurrent connections.
func BenchmarkRotationSelectorParallel(b *testing.B) {
	selector, err := app.NewSelector(app.PolicyRotation, benchQuotes(100))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = selector.Next()
		}
	})
}

// BenchmarkRateLimiterAllow measures the admission check for a single client.
func BenchmarkRateLimiterAllow(b *testing.B) {
	limiter := app.NewIPRateLimiter(app.IPRateLimiterConfig{
		Burst:  1 << 30,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	client := netip.MustParseAddr("192.0.2.1")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = limiter.Allow(client)
	}
}

// BenchmarkQuoteFor measures the full application-layer path for one
// connection: rate limit check plus selection.
func BenchmarkQuoteFor(b *testing.B) {
	selector, err := app.NewSelector(app.PolicyRotation, benchQuotes(100))
	if err != nil {
		b.Fatal(err)
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Selector: selector,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	client := netip.MustParseAddr("192.0.2.1")
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := service.QuoteFor(ctx, client); err != nil {
			b.Fatal(err)
		}
	}
}

// setupHealthHandler creates a HealthHandler with a minimal registry for benchmarking.
func setupHealthHandler() *handlers.HealthHandler {
	registry := ports.NewHealthRegistry()
	buildInfo := handlers.NewBuildInfo("1.0.0", "abc123", "2026-01-01T00:00:00Z")
	return handlers.NewHealthHandler(registry, buildInfo)
}

// BenchmarkLivenessHandler measures the performance of the liveness endpoint.
// This is a critical path for Kubernetes probes and should be extremely fast.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Liveness(c)
	}
}
