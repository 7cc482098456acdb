package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/bassista/go_quotes/internal/events"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/repository"
)

// ChangeHook runs synchronously after every mutation, inside the mutation's
// critical section, with a private copy of the new collection.
type ChangeHook func(quotes []repository.Quote)

// QuoteStore owns the in-memory collection and its durable snapshot.
type QuoteStore struct {
	mu     sync.RWMutex // guards quotes
	quotes []repository.Quote

	// writeMu serializes mutations: each one saves and runs hooks before the next starts.
	writeMu sync.Mutex

	storage repository.Storage
	key     string
	pub     events.Publisher

	hooksMu sync.RWMutex
	hooks   []ChangeHook
}

// NewQuoteStore creates an empty store persisting under key. pub may be nil.
func NewQuoteStore(storage repository.Storage, key string, pub events.Publisher) *QuoteStore {
	return &QuoteStore{
		quotes:  []repository.Quote{},
		storage: storage,
		key:     key,
		pub:     pub,
	}
}

// OnChange registers a hook fired after every mutation and after Load.
func (s *QuoteStore) OnChange(hook ChangeHook) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Load reads the durable snapshot. Missing or malformed data falls back to the
// seed collection; only a failing storage medium is returned as an error.
func (s *QuoteStore) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	log := logger.WithComponent("store")
	data, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load quotes: %w", err)
	}

	var quotes []repository.Quote
	switch {
	case !ok:
		log.Infof("no stored quotes under '%s', using seed collection", s.key)
		quotes = repository.SeedQuotes()
	default:
		decoded, decodeErr := decodeQuotes(s.key, data)
		if decodeErr != nil {
			log.Warnf("stored quotes unusable, using seed collection: %v", decodeErr)
			quotes = repository.SeedQuotes()
		} else {
			quotes = decoded
		}
	}

	s.mu.Lock()
	s.quotes = quotes
	s.mu.Unlock()

	log.Infof("loaded %d quotes", len(quotes))
	s.runHooks(repository.CloneQuotes(quotes))
	return nil
}

// Save writes the full collection as one snapshot.
func (s *QuoteStore) Save(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.saveLocked(ctx, s.All())
}

// saveLocked persists quotes (caller must hold writeMu).
func (s *QuoteStore) saveLocked(ctx context.Context, quotes []repository.Quote) error {
	payload, err := json.Marshal(repository.CloneQuotes(quotes))
	if err != nil {
		return fmt.Errorf("marshal quotes: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, payload); err != nil {
		return fmt.Errorf("save quotes: %w", err)
	}
	logger.WithComponent("store").Debugf("persisted %d quotes", len(quotes))
	return nil
}

// All returns a copy of the ordered collection.
func (s *QuoteStore) All() []repository.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return repository.CloneQuotes(s.quotes)
}

// Len returns the number of records.
func (s *QuoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}

// Add trims and validates the input, appends it and persists. It does not dedupe:
// a direct user action may repeat existing text.
func (s *QuoteStore) Add(ctx context.Context, text, category string) (repository.Quote, error) {
	q := repository.Quote{Text: text, Category: category}.Trimmed()
	if err := repository.ValidateQuote(q); err != nil {
		return repository.Quote{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := s.commitLocked(ctx, []repository.Quote{q})
	if err != nil {
		return repository.Quote{}, err
	}

	logger.WithComponent("store").Infof("quote added in category '%s'", q.Category)
	s.notifyLocked(events.ReasonAdd, 1, next)
	return q, nil
}

// Merge applies the additive policy: records whose normalized text is already
// present (or repeated earlier in the batch) are ignored, the rest are appended.
// Existing records are never overwritten. It returns the appended records.
func (s *QuoteStore) Merge(ctx context.Context, reason events.Reason, incoming []repository.Quote) ([]repository.Quote, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	log := logger.WithComponent("store").WithField("reason", reason)
	added := Partition(s.All(), incoming).New
	if len(added) == 0 {
		log.Debugf("merge of %d records added nothing", len(incoming))
		return []repository.Quote{}, nil
	}

	next, err := s.commitLocked(ctx, added)
	if err != nil {
		return nil, err
	}

	log.Infof("merged %d new quotes (%d ignored)", len(added), len(incoming)-len(added))
	s.notifyLocked(reason, len(added), next)
	return added, nil
}

// Replace swaps the whole collection, e.g. after the durable file was edited
// by another process. It does not save. Reports whether anything changed.
func (s *QuoteStore) Replace(_ context.Context, quotes []repository.Quote) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.replaceLocked(quotes)
}

// replaceLocked swaps the collection (caller must hold writeMu).
func (s *QuoteStore) replaceLocked(quotes []repository.Quote) bool {
	if repository.AreCollectionsEqual(s.All(), quotes) {
		return false
	}

	next := repository.CloneQuotes(quotes)
	s.mu.Lock()
	s.quotes = next
	s.mu.Unlock()

	logger.WithComponent("store").Infof("collection replaced with %d quotes", len(next))
	s.notifyLocked(events.ReasonReload, 0, repository.CloneQuotes(next))
	return true
}

// StartWatcher reloads the collection whenever the durable snapshot changes
// outside this process. Our own saves are detected as no-ops.
func (s *QuoteStore) StartWatcher(ctx context.Context, w repository.Watcher) error {
	return w.Watch(ctx, s.key, func() { s.reload(ctx) })
}

// reload reads and applies the durable snapshot under writeMu, so a mutation
// saved meanwhile can never be replaced by an older read.
func (s *QuoteStore) reload(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	log := logger.WithComponent("store")
	data, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		log.Errorf("watch reload failed: %v", err)
		return
	}
	if !ok {
		log.Debugf("durable quotes removed, keeping in-memory collection")
		return
	}
	quotes, err := decodeQuotes(s.key, data)
	if err != nil {
		log.Warnf("ignoring unusable durable quotes: %v", err)
		return
	}
	if s.replaceLocked(quotes) {
		log.Info("collection reloaded from newer durable snapshot")
	}
}

// commitLocked appends records, persists and rolls back on failure (caller must hold writeMu).
func (s *QuoteStore) commitLocked(ctx context.Context, records []repository.Quote) ([]repository.Quote, error) {
	s.mu.Lock()
	prevLen := len(s.quotes)
	s.quotes = append(s.quotes, records...)
	next := repository.CloneQuotes(s.quotes)
	s.mu.Unlock()

	if err := s.saveLocked(ctx, next); err != nil {
		s.mu.Lock()
		s.quotes = s.quotes[:prevLen]
		s.mu.Unlock()
		return nil, err
	}
	return next, nil
}

// notifyLocked runs hooks and publishes the change (caller must hold writeMu).
func (s *QuoteStore) notifyLocked(reason events.Reason, added int, quotes []repository.Quote) {
	s.runHooks(quotes)
	if s.pub != nil {
		s.pub.PublishQuotesChanged(events.QuotesChangedEvent{
			Reason: reason,
			Added:  added,
			Total:  len(quotes),
			At:     time.Now(),
		})
	}
}

func (s *QuoteStore) runHooks(quotes []repository.Quote) {
	s.hooksMu.RLock()
	hooks := append([]ChangeHook(nil), s.hooks...)
	s.hooksMu.RUnlock()

	for _, hook := range hooks {
		hook(repository.CloneQuotes(quotes))
	}
}

// decodeQuotes parses a durable snapshot and rejects records that fail validation.
func decodeQuotes(source string, data []byte) ([]repository.Quote, error) {
	var quotes []repository.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, errors.NewParseError(source, err)
	}
	if err := repository.ValidateQuotes(quotes); err != nil {
		return nil, errors.NewParseError(source, err)
	}
	return repository.CloneQuotes(quotes), nil
}
