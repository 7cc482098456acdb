package repository

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Quote is a single catalog record.
type Quote struct {
	Text     string `json:"text" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// Collection is the persisted snapshot: an ordered list of quotes.
type Collection struct {
	Quotes []Quote `validate:"dive"`
}

// Trimmed returns the quote with surrounding whitespace removed from both fields.
func (q Quote) Trimmed() Quote {
	return Quote{Text: strings.TrimSpace(q.Text), Category: strings.TrimSpace(q.Category)}
}

// Key is the dedupe identity of a quote. Category never participates.
func (q Quote) Key() string {
	return TextKey(q.Text)
}

// TextKey normalizes text into an identity key: trimmed and NFC-composed,
// so visually identical text typed on different platforms collapses.
func TextKey(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// SeedQuotes returns the default collection used when durable storage is empty or unreadable.
func SeedQuotes() []Quote {
	return []Quote{
		{Text: "The best way to get started is to quit talking and begin doing.", Category: "Motivation"},
		{Text: "Success is not final, failure is not fatal: It is the courage to continue that counts.", Category: "Inspiration"},
		{Text: "Don’t let yesterday take up too much of today.", Category: "Life"},
	}
}

// CloneQuotes copies a slice so callers never share the backing array with the store.
// A nil input yields an empty, non-nil slice so it encodes as [] rather than null.
func CloneQuotes(quotes []Quote) []Quote {
	if quotes == nil {
		return []Quote{}
	}
	return slices.Clone(quotes)
}

// AreCollectionsEqual reports whether both slices hold the same records in the same order.
func AreCollectionsEqual(a, b []Quote) bool {
	return slices.Equal(a, b)
}
