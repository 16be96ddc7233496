// Package kv defines the persistent key-value capability the bookmark store
// runs on. Backends live in subpackages and hold raw JSON values.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// Store is a flat namespace of JSON values addressed by string keys.
// Each method is atomic on its own; callers never compose them in a transaction.
type Store interface {
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// All returns every key/value pair in the namespace.
	All(ctx context.Context) (map[string][]byte, error)
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
