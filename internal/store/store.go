// Package store is the persistence layer: a durable, synchronous,
// string-keyed store of JSON-encoded blobs. Every piece of app state lives
// under its own well-known key; no two independent pieces of state may share
// one. Reads tolerate missing keys and malformed values, both are reported
// as absent so callers fall back to defaults instead of erroring.
package store

import (
	"context"
	"encoding/json"
)

// Store is a synchronous key-value store. A Put that returns nil is visible
// to every subsequent Get in the same process and across restarts.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put writes value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns all keys with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// GetJSON decodes the value at key into out. A missing key or a value that
// fails to decode both return false with out untouched beyond any partial
// decode; the caller's zero value stands in for corrupt state.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// Corrupt blob: treat as absent, never propagate.
		return false, nil
	}
	return true, nil
}

// PutJSON encodes v and writes it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, raw)
}
