// Package domain contains core business entities and rules.
package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxQuoteLength is the default maximum length of a quote's wire form in
// bytes. It matches the historical 512-byte datagram constraint of the
// Quote of the Day protocol (RFC 865).
const MaxQuoteLength = 512

// Quote represents a single quotation.
// This is a domain entity - it is immutable after load and has no
// knowledge of external systems.
type Quote struct {
	// Text is the body of the quote.
	Text string

	// Author is who said or wrote the quote. May be empty.
	Author string
}

// NewQuote creates a quote from raw text and author, trimming whitespace
// and truncating the rendered form to MaxQuoteLength bytes.
func NewQuote(text, author string) Quote {
	q := Quote{
		Text:   strings.TrimSpace(text),
		Author: strings.TrimSpace(author),
	}

	overflow := len(q.String()) - MaxQuoteLength
	if overflow <= 0 {
		return q
	}

	if overflow < len(q.Text) {
		q.Text = strings.TrimSpace(Truncate(q.Text, len(q.Text)-overflow))
		return q
	}

	// The attribution alone exceeds the budget. Drop it and keep as much
	// of the text as fits.
	q.Author = ""
	q.Text = strings.TrimSpace(Truncate(q.Text, MaxQuoteLength))

	return q
}

// Truncate cuts s to at most n bytes, backing up so a multi-byte rune is
// never split. n must be non-negative.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}

// String renders the quote in its wire form, without a trailing newline.
func (q Quote) String() string {
	if q.Author == "" {
		return q.Text
	}

	return q.Text + " ~ " + q.Author
}

// IsZero reports whether the quote has no text.
func (q Quote) IsZero() bool {
	return q.Text == ""
}

// Collection is an ordered set of quotes, read-only after load.
// The invariant that a collection is non-empty is enforced at load time;
// an empty source is a fatal startup error.
type Collection []Quote

// Len returns the number of quotes in the collection.
func (c Collection) Len() int {
	return len(c)
}
