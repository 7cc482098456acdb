// Package category derives the distinct categories of the collection and
// tracks the active filter selection.
package category

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/events"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/repository"
)

// All is the selection meaning "no filter".
const All = "all"

// Index is recomputed after every store mutation through Refresh.
type Index struct {
	mu         sync.RWMutex
	quotes     []repository.Quote
	categories []string
	selected   string

	storage repository.Storage
	key     string
	pub     events.Publisher
}

// NewIndex creates an index persisting the selection under key. pub may be nil.
func NewIndex(storage repository.Storage, key string, pub events.Publisher) *Index {
	return &Index{
		quotes:     []repository.Quote{},
		categories: []string{All},
		selected:   All,
		storage:    storage,
		key:        key,
		pub:        pub,
	}
}

// Refresh recomputes the category set from quotes. A selection that no longer
// exists falls back to All.
func (i *Index) Refresh(quotes []repository.Quote) {
	cats := distinct(quotes)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.quotes = repository.CloneQuotes(quotes)
	i.categories = cats
	if !slices.Contains(cats, i.selected) {
		logger.WithComponent("category").Infof("selected category '%s' vanished, showing all", i.selected)
		i.selected = All
	}
}

// Categories returns All followed by the distinct categories in first-seen order.
func (i *Index) Categories() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.categories)
}

// Has reports whether c is a selectable value.
func (i *Index) Has(c string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Contains(i.categories, c)
}

// Restore reads the persisted selection. Absent, unreadable or stale values
// select All; only a failing storage medium is returned.
func (i *Index) Restore(ctx context.Context) (string, error) {
	log := logger.WithComponent("category")
	data, ok, err := i.storage.Get(ctx, i.key)
	if err != nil {
		return All, fmt.Errorf("restore filter: %w", err)
	}

	restored := All
	if ok {
		var persisted string
		if err := json.Unmarshal(data, &persisted); err != nil {
			log.Warnf("ignoring stored filter: %v", errors.NewParseError(i.key, err))
		} else {
			restored = persisted
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if !slices.Contains(i.categories, restored) {
		log.Debugf("stored filter '%s' is not a current category, using '%s'", restored, All)
		restored = All
	}
	i.selected = restored
	return restored, nil
}

// Select persists a new selection. Unknown categories are rejected.
func (i *Index) Select(ctx context.Context, c string) error {
	if !i.Has(c) {
		return errors.NewValidationError("category", c, "is not a known category")
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal filter: %w", err)
	}
	if err := i.storage.Set(ctx, i.key, payload); err != nil {
		return fmt.Errorf("save filter: %w", err)
	}

	i.mu.Lock()
	i.selected = c
	i.mu.Unlock()

	logger.WithComponent("category").Debugf("filter set to '%s'", c)
	if i.pub != nil {
		i.pub.PublishFilterChanged(events.FilterChangedEvent{Selected: c, At: time.Now()})
	}
	return nil
}

// Selected returns the active selection.
func (i *Index) Selected() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.selected
}

// ByCategory returns the whole collection for All, otherwise the records of
// that category in their original order.
func (i *Index) ByCategory(selection string) []repository.Quote {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return filter(i.quotes, selection)
}

// Filtered applies the active selection.
func (i *Index) Filtered() []repository.Quote {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return filter(i.quotes, i.selected)
}

func filter(quotes []repository.Quote, selection string) []repository.Quote {
	if selection == All {
		return repository.CloneQuotes(quotes)
	}
	out := []repository.Quote{}
	for _, q := range quotes {
		if q.Category == selection {
			out = append(out, q)
		}
	}
	return out
}

func distinct(quotes []repository.Quote) []string {
	cats := []string{All}
	seen := map[string]struct{}{All: {}}
	for _, q := range quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		cats = append(cats, q.Category)
	}
	return cats
}
