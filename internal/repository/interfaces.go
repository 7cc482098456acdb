package repository

import "context"

// Storage is a small key/value store holding JSON documents.
// FileStorage backs the durable keys (collection, filter) and
// MemoryStorage backs the session keys (last displayed quote).
type Storage interface {
	// Get returns the raw value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the value atomically.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes the key; removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Watcher notifies about external changes to a key.
// The caller owns ctx: cancel it to stop watching.
type Watcher interface {
	Watch(ctx context.Context, key string, onChange func()) error
}

// WatchableStorage is a Storage whose keys can be watched.
type WatchableStorage interface {
	Storage
	Watcher
}
