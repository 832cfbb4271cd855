package store

import (
	"context"

	"github.com/Noratrieb/qotdd/internal/domain"
)

// EmbeddedSource serves the compiled-in default collection.
// It is used when no quote file is configured, so the daemon is useful
// out of the box.
type EmbeddedSource struct{}

// NewEmbeddedSource creates a source backed by the built-in quotes.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

// Load returns the built-in collection. It never fails.
func (s *EmbeddedSource) Load() (domain.Collection, error) {
	return domain.Collection{
		domain.NewQuote("Quickness is the essence of the war.", "Sun Tzu"),
		domain.NewQuote("Pretend inferiority and encourage his arrogance.", "Sun Tzu"),
		domain.NewQuote("meow.", "wffl"),
	}, nil
}

// Name implements ports.HealthChecker.
func (s *EmbeddedSource) Name() string {
	return "quote-store"
}

// Check implements ports.HealthChecker. The embedded source is always ready.
func (s *EmbeddedSource) Check(_ context.Context) error {
	return nil
}
