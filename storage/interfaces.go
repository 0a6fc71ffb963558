package storage

import (
	"context"
)

// KeyValueStore is a persistent string key-value store scoped to one user
// profile. Implementations must be thread-safe.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key has never been set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	// The write is durable when Set returns.
	Set(ctx context.Context, key, value string) error

	// Close closes the storage backend and releases resources.
	Close() error
}
