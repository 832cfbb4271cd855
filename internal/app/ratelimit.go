package app

import (
	"context"
	"log/slog"
	"net/netip"
	"sync"
	"time"
)

// Rate limiter defaults, matching a budget of ten quotes per decay window.
const (
	DefaultRateLimitBurst    = 10
	DefaultRateLimitInterval = time.Minute
)

// IPRateLimiter limits how many quotes each client IP receives per decay
// window, so the daemon cannot be used for traffic amplification.
//
// Allow increments the caller's counter and admits while the previous
// count is below the burst. A background loop lowers every counter by the
// burst once per interval and drops entries that reach zero, so idle
// clients cost no memory.
type IPRateLimiter struct {
	burst    int
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	counts map[netip.Addr]int
}

// IPRateLimiterConfig contains configuration for the limiter.
type IPRateLimiterConfig struct {
	// Burst is the number of requests admitted per window. Zero or
	// negative means DefaultRateLimitBurst.
	Burst int

	// Interval is the decay period. Zero or negative means
	// DefaultRateLimitInterval.
	Interval time.Duration

	Logger *slog.Logger
}

// NewIPRateLimiter creates a limiter with the provided configuration.
func NewIPRateLimiter(cfg IPRateLimiterConfig) *IPRateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimitBurst
	}

	if cfg.Interval <= 0 {
		cfg.Interval = DefaultRateLimitInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &IPRateLimiter{
		burst:    cfg.Burst,
		interval: cfg.Interval,
		logger:   logger.With(slog.String("component", "app.IPRateLimiter")),
		counts:   make(map[netip.Addr]int),
	}
}

// Allow reports whether the client at addr may receive a quote,
// and charges the client's budget either way.
func (l *IPRateLimiter) Allow(addr netip.Addr) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.counts[addr]
	l.counts[addr] = prev + 1

	return prev < l.burst
}

// Run executes the decay loop until ctx is canceled.
func (l *IPRateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.lower()
		}
	}
}

// lower subtracts one burst from every counter and drops zeroed entries.
func (l *IPRateLimiter) lower() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for addr, count := range l.counts {
		count -= l.burst
		if count <= 0 {
			delete(l.counts, addr)
			continue
		}

		l.counts[addr] = count
	}

	l.logger.Debug("rate limit budgets lowered", slog.Int("tracked_ips", len(l.counts)))
}

// NopRateLimiter admits every client. Used when rate limiting is disabled.
type NopRateLimiter struct{}

// Allow always reports true.
func (NopRateLimiter) Allow(netip.Addr) bool {
	return true
}

// Run blocks until ctx is canceled.
func (NopRateLimiter) Run(ctx context.Context) {
	<-ctx.Done()
}
