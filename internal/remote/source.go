// Package remote talks to the sync endpoint and translates its items into quotes.
package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/repository"
)

// Source abstracts the remote side of a sync round-trip.
type Source interface {
	// Push sends the full local collection. The response body is ignored.
	Push(ctx context.Context, quotes []repository.Quote) error
	// Pull fetches the remote snapshot.
	Pull(ctx context.Context) ([]Item, error)
}

// Item is one record of the remote snapshot. Other fields the endpoint
// sends (ids, bodies) are ignored whatever their type.
type Item struct {
	Title string `json:"title"`
}

// ToQuotes maps remote items onto quotes of the given category.
// Any item without a usable title rejects the whole payload.
func ToQuotes(items []Item, category string) ([]repository.Quote, error) {
	quotes := make([]repository.Quote, 0, len(items))
	for i, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return nil, errors.NewShapeError("pull", fmt.Sprintf("item %d has no title", i))
		}
		quotes = append(quotes, repository.Quote{Text: title, Category: category})
	}
	return quotes, nil
}
