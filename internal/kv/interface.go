package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is an opaque key-value string store, the persistence surface of the lobby.
type Store interface {
	// Get returns the value under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set replaces the value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
