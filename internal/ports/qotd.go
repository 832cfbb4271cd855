// Package ports defines interfaces for the daemon's internal collaborators.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Return domain types, never adapter types
//   - Error returns use domain error types (ErrLoad, ErrRateLimited, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"net/netip"

	"github.com/Noratrieb/qotdd/internal/domain"
)

// QuoteSelector chooses one quote per request from a fixed collection.
// Implementations must be safe for concurrent use; every returned quote
// is drawn from the collection the selector was built with.
type QuoteSelector interface {
	// Next returns the quote for the next request.
	Next() domain.Quote
}

// RateLimiter admits or rejects clients by IP address.
// Implementations must be safe for concurrent use.
type RateLimiter interface {
	// Allow reports whether the client at addr may receive a quote.
	// A rejected client is not served; it may retry after the budget decays.
	Allow(addr netip.Addr) bool

	// Run executes the limiter's background decay loop until the context
	// is canceled.
	Run(ctx context.Context)
}

// QuoteSource loads the authoritative quote collection at startup.
// The collection is immutable for the process lifetime once loaded.
type QuoteSource interface {
	// Load reads the quote collection.
	// Returns a domain.LoadError if the source is missing, unreadable,
	// or yields zero quotes.
	Load() (domain.Collection, error)
}
