package app

import (
	"context"
	"log/slog"
	"net/netip"

	"github.com/Noratrieb/qotdd/internal/domain"
	"github.com/Noratrieb/qotdd/internal/platform/logging"
	"github.com/Noratrieb/qotdd/internal/ports"
)

// QuoteService orchestrates the quote-of-the-day use case.
// Every protocol surface (TCP, UDP, the ops HTTP preview) goes through
// this service, so rate limiting and selection policy are applied
// uniformly. It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	selector ports.QuoteSelector
	limiter  ports.RateLimiter
	logger   *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	// Selector chooses one quote per request. Required.
	Selector ports.QuoteSelector

	// Limiter admits or rejects clients by IP. Optional; nil disables
	// rate limiting.
	Limiter ports.RateLimiter

	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if no selector is configured - the daemon cannot run without one.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Selector == nil {
		panic("app: QuoteService requires a selector")
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NopRateLimiter{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		selector: cfg.Selector,
		limiter:  limiter,
		logger:   logger.With(slog.String("component", "app.QuoteService")),
	}
}

// QuoteFor returns the quote for a client connection, or a
// domain.RateLimitedError if the client has exhausted its budget.
func (s *QuoteService) QuoteFor(ctx context.Context, client netip.Addr) (domain.Quote, error) {
	logger := logging.FromContext(ctx)

	if !s.limiter.Allow(client) {
		logger.DebugContext(ctx, "client rate limited",
			slog.String("client_ip", client.String()),
		)

		return domain.Quote{}, domain.NewRateLimitedError(client.String())
	}

	quote := s.selector.Next()

	logger.DebugContext(ctx, "quote selected",
		slog.String("client_ip", client.String()),
		slog.String("author", quote.Author),
	)

	return quote, nil
}
