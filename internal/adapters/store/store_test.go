package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noratrieb/qotdd/internal/domain"
)

// writeQuoteFile writes content to a temp file and returns its path.
func writeQuoteFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quotes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestFileSource_Load(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected domain.Collection
	}{
		{
			name:    "single record",
			content: "Hello, world.\n",
			expected: domain.Collection{
				domain.NewQuote("Hello, world.", ""),
			},
		},
		{
			name: "blank line separated records",
			content: "Quickness is the essence of the war. ~ Sun Tzu\n" +
				"\n" +
				"meow. ~ wffl\n",
			expected: domain.Collection{
				domain.NewQuote("Quickness is the essence of the war.", "Sun Tzu"),
				domain.NewQuote("meow.", "wffl"),
			},
		},
		{
			name: "multi-line record joined with spaces",
			content: "The supreme art of war\nis to subdue the enemy\nwithout fighting. ~ Sun Tzu\n" +
				"\n\n\n" +
				"Second quote.\n",
			expected: domain.Collection{
				domain.NewQuote("The supreme art of war is to subdue the enemy without fighting.", "Sun Tzu"),
				domain.NewQuote("Second quote.", ""),
			},
		},
		{
			name:    "comments and surrounding whitespace ignored",
			content: "# daemon defaults\n\n   padded quote   \n\n# trailing comment\n",
			expected: domain.Collection{
				domain.NewQuote("padded quote", ""),
			},
		},
		{
			name:    "only last tilde separates author",
			content: "to be ~ or not to be ~ Shakespeare\n",
			expected: domain.Collection{
				domain.NewQuote("to be ~ or not to be", "Shakespeare"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(writeQuoteFile(t, tt.content))

			quotes, err := src.Load()

			require.NoError(t, err)
			assert.Equal(t, tt.expected, quotes)
		})
	}
}

func TestFileSource_Load_TruncatesLongRecords(t *testing.T) {
	src := NewFileSource(writeQuoteFile(t, strings.Repeat("x", 2*domain.MaxQuoteLength)))

	quotes, err := src.Load()

	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.LessOrEqual(t, len(quotes[0].String()), domain.MaxQuoteLength)
}

func TestFileSource_Load_OversizedAuthor(t *testing.T) {
	src := NewFileSource(writeQuoteFile(t, "hi ~ "+strings.Repeat("a", 600)+"\n"))

	quotes, err := src.Load()

	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.LessOrEqual(t, len(quotes[0].String()), domain.MaxQuoteLength)
}

func TestFileSource_Load_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.txt"))

	quotes, err := src.Load()

	require.Error(t, err)
	assert.Nil(t, quotes)
	assert.True(t, domain.IsLoad(err))

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Source, "nope.txt")
}

func TestFileSource_Load_EmptyFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero bytes", content: ""},
		{name: "only blank lines", content: "\n\n\n"},
		{name: "only comments", content: "# nothing here\n# still nothing\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(writeQuoteFile(t, tt.content))

			quotes, err := src.Load()

			require.Error(t, err)
			assert.Nil(t, quotes)
			assert.True(t, domain.IsLoad(err))
			assert.Contains(t, err.Error(), "no quotes found")
		})
	}
}

func TestFileSource_Check(t *testing.T) {
	src := NewFileSource(writeQuoteFile(t, "hi\n"))

	// Unhealthy before load.
	err := src.Check(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))

	_, err = src.Load()
	require.NoError(t, err)

	assert.NoError(t, src.Check(context.Background()))
	assert.Equal(t, "quote-store", src.Name())
}

func TestEmbeddedSource_Load(t *testing.T) {
	src := NewEmbeddedSource()

	quotes, err := src.Load()

	require.NoError(t, err)
	require.NotEmpty(t, quotes)

	for _, q := range quotes {
		assert.False(t, q.IsZero())
		assert.LessOrEqual(t, len(q.String()), domain.MaxQuoteLength)
	}

	assert.NoError(t, src.Check(context.Background()))
}
