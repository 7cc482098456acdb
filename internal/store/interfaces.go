package store

import (
	"context"

	"github.com/bassista/go_quotes/internal/events"
	"github.com/bassista/go_quotes/internal/repository"
)

// Reader is the minimal store API for read-only consumers.
type Reader interface {
	All() []repository.Quote
	Len() int
}

// Adder is the store API needed by the add-quote handlers.
type Adder interface {
	Reader
	Add(ctx context.Context, text, category string) (repository.Quote, error)
}

// Merger is the store API needed by import and sync.
type Merger interface {
	Reader
	Merge(ctx context.Context, reason events.Reason, incoming []repository.Quote) ([]repository.Quote, error)
}

// AppStore is the store contract the application container exposes.
type AppStore interface {
	Adder
	Merger
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	Replace(ctx context.Context, quotes []repository.Quote) bool
	OnChange(hook ChangeHook)
	StartWatcher(ctx context.Context, w repository.Watcher) error
}

// Compile-time interface check.
var _ AppStore = (*QuoteStore)(nil)
