// Package main is the entry point for the qotdd daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Noratrieb/qotdd/internal/adapters/http"
	"github.com/Noratrieb/qotdd/internal/adapters/http/handlers"
	"github.com/Noratrieb/qotdd/internal/adapters/qotd"
	"github.com/Noratrieb/qotdd/internal/adapters/store"
	"github.com/Noratrieb/qotdd/internal/app"
	"github.com/Noratrieb/qotdd/internal/platform/config"
	"github.com/Noratrieb/qotdd/internal/platform/logging"
	"github.com/Noratrieb/qotdd/internal/platform/telemetry"
	"github.com/Noratrieb/qotdd/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the daemon.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting qotdd",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Load the quote collection (fatal before binding any port)
	source := newQuoteSource(cfg, logger)

	quotes, err := source.Load()
	if err != nil {
		return fmt.Errorf("loading quotes: %w", err)
	}

	logger.Info("quote collection loaded",
		slog.Int("count", quotes.Len()),
	)

	if err := healthRegistry.Register(source); err != nil {
		return fmt.Errorf("registering quote store health check: %w", err)
	}

	// 7. Create selector and rate limiter
	selector, err := app.NewSelector(app.SelectionPolicy(cfg.Quotes.Policy), quotes)
	if err != nil {
		return fmt.Errorf("creating selector: %w", err)
	}

	var limiter ports.RateLimiter = app.NopRateLimiter{}
	if cfg.RateLimit.Enabled {
		limiter = app.NewIPRateLimiter(app.IPRateLimiterConfig{
			Burst:    cfg.RateLimit.Burst,
			Interval: cfg.RateLimit.DecayInterval,
			Logger:   logger,
		})
	}

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()

	go limiter.Run(limiterCtx)

	// 8. Create quote service (application layer)
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Selector: selector,
		Limiter:  limiter,
		Logger:   logger,
	})

	// 9. Create QOTD listeners
	tcpServer := qotd.NewServer(&cfg.QOTD, quoteService, logger)
	if err := healthRegistry.Register(tcpServer); err != nil {
		return fmt.Errorf("registering qotd tcp health check: %w", err)
	}

	var udpServer *qotd.UDPServer
	if cfg.QOTD.UDPEnabled {
		udpServer = qotd.NewUDPServer(&cfg.QOTD, quoteService, logger)
		if err := healthRegistry.Register(udpServer); err != nil {
			return fmt.Errorf("registering qotd udp health check: %w", err)
		}
	}

	// 10. Create the ops HTTP server if enabled
	var opsServer *http.Server
	if cfg.Ops.Enabled {
		buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
		healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
		quoteHandler := handlers.NewQuoteHandler(quoteService)

		opsServer = http.New(&cfg.Ops, logger)
		http.SetupRouter(opsServer.Engine(), http.RouterConfig{
			Logger:        logger,
			AppConfig:     &cfg.App,
			HealthHandler: healthHandler,
			QuoteHandler:  quoteHandler,
			Timeout:       http.DefaultRequestTimeout,
		})
	}

	// 11. Start everything (non-blocking)
	tcpErr := tcpServer.Start()

	var udpErr <-chan error
	if udpServer != nil {
		udpErr = udpServer.Start()
	}

	var opsErr <-chan error
	if opsServer != nil {
		opsErr = opsServer.Start()
	}

	// 12. Wait for shutdown signal or server failure
	return waitForShutdown(ctx, logger, cfg, shutdownTargets{
		tcp: tcpServer,
		udp: udpServer,
		ops: opsServer,
	}, tcpErr, udpErr, opsErr)
}

// newQuoteSource picks the configured quote source: a file when a path
// is set, the embedded collection otherwise.
func newQuoteSource(cfg *config.Config, logger *slog.Logger) interface {
	ports.QuoteSource
	ports.HealthChecker
} {
	if cfg.Quotes.Path != "" {
		logger.Info("using quote file",
			slog.String("path", cfg.Quotes.Path),
		)

		return store.NewFileSource(cfg.Quotes.Path)
	}

	logger.Info("using embedded quote collection")

	return store.NewEmbeddedSource()
}

// shutdownTargets holds the servers that need graceful shutdown.
// udp and ops may be nil when disabled.
type shutdownTargets struct {
	tcp *qotd.Server
	udp *qotd.UDPServer
	ops *http.Server
}

// waitForShutdown blocks until a shutdown signal is received or a server
// fails, then gracefully stops all listeners.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	targets shutdownTargets,
	tcpErr, udpErr, opsErr <-chan error,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var cause error

	select {
	case err := <-tcpErr:
		cause = fmt.Errorf("qotd tcp server: %w", err)

	case err := <-udpErr:
		cause = fmt.Errorf("qotd udp server: %w", err)

	case err := <-opsErr:
		cause = fmt.Errorf("ops server: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Graceful shutdown sequence: stop the protocol listeners first,
	// then the ops surface.
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", cfg.QOTD.ShutdownTimeout),
	)

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout(cfg))
	defer cancel()

	var shutdownErrs []error

	if err := targets.tcp.Shutdown(shutdownCtx); err != nil {
		shutdownErrs = append(shutdownErrs, err)
	}

	if targets.udp != nil {
		if err := targets.udp.Shutdown(shutdownCtx); err != nil {
			shutdownErrs = append(shutdownErrs, err)
		}
	}

	if targets.ops != nil {
		if err := targets.ops.Shutdown(shutdownCtx); err != nil {
			shutdownErrs = append(shutdownErrs, err)
		}
	}

	if cause != nil {
		return cause
	}

	if err := errors.Join(shutdownErrs...); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

// shutdownTimeout returns the longest configured shutdown timeout so a
// single context can bound the whole shutdown sequence.
func shutdownTimeout(cfg *config.Config) time.Duration {
	timeout := cfg.QOTD.ShutdownTimeout
	if cfg.Ops.Enabled && cfg.Ops.ShutdownTimeout > timeout {
		timeout = cfg.Ops.ShutdownTimeout
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return timeout
}
