package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noratrieb/qotdd/internal/domain"
)

func testCollection(texts ...string) domain.Collection {
	quotes := make(domain.Collection, 0, len(texts))
	for _, t := range texts {
		quotes = append(quotes, domain.NewQuote(t, ""))
	}

	return quotes
}

func TestNewSelector(t *testing.T) {
	quotes := testCollection("a", "b")

	tests := []struct {
		name     string
		policy   SelectionPolicy
		expected any
		wantErr  bool
	}{
		{name: "rotation", policy: PolicyRotation, expected: &RotationSelector{}},
		{name: "random", policy: PolicyRandom, expected: &RandomSelector{}},
		{name: "empty defaults to random", policy: "", expected: &RandomSelector{}},
		{name: "unknown policy", policy: "fibonacci", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewSelector(tt.policy, quotes)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, sel)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.expected, sel)
		})
	}
}

func TestRotationSelector_EmptyCollection(t *testing.T) {
	sel, err := NewRotationSelector(nil)

	require.Error(t, err)
	assert.Nil(t, sel)
}

func TestRotationSelector_VisitsEachQuoteOncePerCycle(t *testing.T) {
	quotes := testCollection("a", "b", "c")

	sel, err := NewRotationSelector(quotes)
	require.NoError(t, err)

	// Two full cycles, stable order.
	for cycle := 0; cycle < 2; cycle++ {
		for i := range quotes {
			assert.Equal(t, quotes[i], sel.Next(), "cycle %d position %d", cycle, i)
		}
	}
}

func TestRotationSelector_SingleQuote(t *testing.T) {
	quotes := testCollection("only")

	sel, err := NewRotationSelector(quotes)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, quotes[0], sel.Next())
	}
}

func TestRotationSelector_ConcurrentCallsStayInRange(t *testing.T) {
	quotes := testCollection("a", "b", "c", "d", "e")

	sel, err := NewRotationSelector(quotes)
	require.NoError(t, err)

	const (
		goroutines = 8
		perWorker  = 200
	)

	counts := make(chan domain.Quote, goroutines*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < perWorker; j++ {
				counts <- sel.Next()
			}
		}()
	}

	wg.Wait()
	close(counts)

	// Every returned quote is a member of the collection, and across a
	// whole number of cycles each appears equally often.
	seen := make(map[string]int)
	for q := range counts {
		seen[q.Text]++
	}

	require.Len(t, seen, len(quotes))
	for _, q := range quotes {
		assert.Equal(t, goroutines*perWorker/len(quotes), seen[q.Text], "quote %q", q.Text)
	}
}

func TestRandomSelector_EmptyCollection(t *testing.T) {
	sel, err := NewRandomSelector(nil)

	require.Error(t, err)
	assert.Nil(t, sel)
}

func TestRandomSelector_ReturnsOnlyCollectionMembers(t *testing.T) {
	quotes := testCollection("a", "b", "c")

	sel, err := NewRandomSelector(quotes)
	require.NoError(t, err)

	members := make(map[string]bool, len(quotes))
	for _, q := range quotes {
		members[q.Text] = true
	}

	for i := 0; i < 100; i++ {
		assert.True(t, members[sel.Next().Text])
	}
}

func TestSeededRandomSelector_IsReproducible(t *testing.T) {
	quotes := testCollection("a", "b", "c", "d")

	sel1, err := NewSeededRandomSelector(quotes, 42)
	require.NoError(t, err)

	sel2, err := NewSeededRandomSelector(quotes, 42)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		assert.Equal(t, sel1.Next(), sel2.Next(), "draw %d", i)
	}
}

func TestSeededRandomSelector_EventuallyDrawsEveryQuote(t *testing.T) {
	quotes := testCollection("a", "b", "c")

	sel, err := NewSeededRandomSelector(quotes, 7)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[sel.Next().Text] = true
	}

	assert.Len(t, seen, len(quotes))
}
