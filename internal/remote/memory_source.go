package remote

import (
	"context"
	"slices"
	"sync"

	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/repository"
)

// MemorySource is an in-process remote. It serves a fixed snapshot, records
// what was pushed and can be told to fail, which makes it useful offline and in tests.
type MemorySource struct {
	mu      sync.RWMutex
	items   []Item
	pushed  [][]repository.Quote
	pullErr error
	pushErr error
}

// Compile-time interface check.
var _ Source = (*MemorySource)(nil)

func NewMemorySource(items ...Item) *MemorySource {
	return &MemorySource{items: slices.Clone(items)}
}

func (m *MemorySource) Push(_ context.Context, quotes []repository.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushed = append(m.pushed, repository.CloneQuotes(quotes))
	logger.WithComponent("memory-source").Debugf("received push of %d quotes", len(quotes))
	return nil
}

func (m *MemorySource) Pull(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pullErr != nil {
		return nil, m.pullErr
	}
	logger.WithComponent("memory-source").Debugf("serving %d items", len(m.items))
	return slices.Clone(m.items), nil
}

// SetItems replaces the served snapshot.
func (m *MemorySource) SetItems(items ...Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = slices.Clone(items)
}

// FailPull makes every Pull return err until reset with nil.
func (m *MemorySource) FailPull(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pullErr = err
}

// FailPush makes every Push return err until reset with nil.
func (m *MemorySource) FailPush(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushErr = err
}

// Pushed returns every payload received so far.
func (m *MemorySource) Pushed() [][]repository.Quote {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.pushed)
}
