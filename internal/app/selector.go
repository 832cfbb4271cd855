// Package app contains application services that orchestrate use cases.
// This layer coordinates domain logic and infrastructure through ports:
// the protocol adapters (TCP, UDP, ops HTTP) call in here, and this layer
// talks to selectors and rate limiters, never to sockets.
package app

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/Noratrieb/qotdd/internal/domain"
	"github.com/Noratrieb/qotdd/internal/ports"
)

// SelectionPolicy names a quote selection strategy.
type SelectionPolicy string

const (
	// PolicyRandom draws a uniformly random quote per request.
	PolicyRandom SelectionPolicy = "random"

	// PolicyRotation cycles through the collection in order.
	PolicyRotation SelectionPolicy = "rotation"
)

// NewSelector creates the selector for the given policy.
func NewSelector(policy SelectionPolicy, quotes domain.Collection) (ports.QuoteSelector, error) {
	switch policy {
	case PolicyRotation:
		return NewRotationSelector(quotes)
	case PolicyRandom, "":
		return NewRandomSelector(quotes)
	default:
		return nil, fmt.Errorf("unknown selection policy %q", policy)
	}
}

// RotationSelector cycles through the collection with an atomic cursor.
// Concurrent callers each get a well-defined index; over any window of
// Len() sequential calls every quote is returned exactly once.
type RotationSelector struct {
	quotes domain.Collection
	cursor atomic.Uint64
}

// NewRotationSelector creates a rotation selector over quotes.
func NewRotationSelector(quotes domain.Collection) (*RotationSelector, error) {
	if len(quotes) == 0 {
		return nil, fmt.Errorf("rotation selector requires a non-empty collection")
	}

	return &RotationSelector{quotes: quotes}, nil
}

// Next returns the next quote in cyclic order.
func (s *RotationSelector) Next() domain.Quote {
	idx := (s.cursor.Add(1) - 1) % uint64(len(s.quotes))
	return s.quotes[idx]
}

// RandomSelector draws a uniformly random quote per request.
type RandomSelector struct {
	quotes domain.Collection

	// rng is nil for the shared, lock-free global source; seeded
	// selectors carry their own generator behind a mutex.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSelector creates a random selector using the process-wide
// random source.
func NewRandomSelector(quotes domain.Collection) (*RandomSelector, error) {
	if len(quotes) == 0 {
		return nil, fmt.Errorf("random selector requires a non-empty collection")
	}

	return &RandomSelector{quotes: quotes}, nil
}

// NewSeededRandomSelector creates a random selector with a fixed seed,
// for reproducible tests.
func NewSeededRandomSelector(quotes domain.Collection, seed uint64) (*RandomSelector, error) {
	s, err := NewRandomSelector(quotes)
	if err != nil {
		return nil, err
	}

	s.rng = rand.New(rand.NewPCG(seed, seed))

	return s, nil
}

// Next returns a random quote from the collection.
func (s *RandomSelector) Next() domain.Quote {
	if s.rng == nil {
		return s.quotes[rand.IntN(len(s.quotes))]
	}

	s.mu.Lock()
	idx := s.rng.IntN(len(s.quotes))
	s.mu.Unlock()

	return s.quotes[idx]
}
