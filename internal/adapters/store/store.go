// Package store loads the quote collection the daemon serves.
//
// The on-disk format is a plain text file meant to be edited by hand:
// records are separated by one or more blank lines, lines within a record
// are joined with a single space, lines starting with '#' are comments,
// and a trailing " ~ Author" suffix names the author. Records longer than
// the configured maximum are truncated.
package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Noratrieb/qotdd/internal/domain"
)

// authorSeparator splits a record into quote text and author.
const authorSeparator = " ~ "

// FileSource reads quotes from a text file at startup.
// It implements ports.QuoteSource and ports.HealthChecker.
type FileSource struct {
	path   string
	loaded bool
}

// NewFileSource creates a source reading from the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and parses the quote file.
// Returns a domain.LoadError if the file is missing, unreadable, or
// contains no quotes. Load is a one-time startup operation; the returned
// collection is never mutated afterwards.
func (s *FileSource) Load() (domain.Collection, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, domain.NewLoadError(s.path, "opening file", err)
	}
	defer f.Close()

	quotes, err := parse(f)
	if err != nil {
		return nil, domain.NewLoadError(s.path, "reading file", err)
	}

	if len(quotes) == 0 {
		return nil, domain.NewLoadError(s.path, "no quotes found", nil)
	}

	s.loaded = true

	return quotes, nil
}

// Name implements ports.HealthChecker.
func (s *FileSource) Name() string {
	return "quote-store"
}

// Check implements ports.HealthChecker.
// The collection is immutable after startup, so the store is healthy
// exactly when the initial load succeeded.
func (s *FileSource) Check(_ context.Context) error {
	if !s.loaded {
		return domain.NewUnavailableError("quote-store", "not loaded")
	}

	return nil
}

// parse reads blank-line separated quote records.
func parse(f *os.File) (domain.Collection, error) {
	var (
		quotes  domain.Collection
		current []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}

		q := parseRecord(strings.Join(current, " "))
		if !q.IsZero() {
			quotes = append(quotes, q)
		}

		current = current[:0]
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#"):
			// comment
		default:
			current = append(current, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}

	flush()

	return quotes, nil
}

// parseRecord splits an optional trailing author off a record.
// Only the last separator counts, so quote text may itself contain " ~ ".
func parseRecord(record string) domain.Quote {
	if i := strings.LastIndex(record, authorSeparator); i >= 0 {
		return domain.NewQuote(record[:i], record[i+len(authorSeparator):])
	}

	return domain.NewQuote(record, "")
}
