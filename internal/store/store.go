// Package store provides the keyed persistence layer used for drafts and
// usage accounting. The pipeline only sees the Store interface, so tests run
// against the in-memory implementation while the CLI uses BoltStore.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a minimal keyed byte store. Writes are last-write-wins; no other
// invariants are promised.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// List returns all keys with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}
