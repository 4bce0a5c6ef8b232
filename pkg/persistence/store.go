// Package persistence stores serialized path snapshots under string keys.
//
// Three backends implement Store:
//   - FileStore keeps an append-only log of CRC-checked frames per key and
//     recovers the last intact snapshot after a torn write;
//   - BadgerStore keeps snapshots in an embedded BadgerDB;
//   - MemoryStore keeps them in a map, for tests and throwaway sessions.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultKey is the key under which the editor persists its path.
const DefaultKey = "map"

var (
	// ErrKeyNotFound is returned by Load when nothing is stored under the key.
	ErrKeyNotFound = errors.New("persistence: key not found")

	// ErrCorruptedData is returned by Load when data exists but no intact
	// snapshot can be recovered from it.
	ErrCorruptedData = errors.New("persistence: corrupted data")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("persistence: store closed")

	// ErrInvalidKey rejects keys that are empty or contain path separators.
	ErrInvalidKey = errors.New("persistence: invalid key")
)

// Store is a key/value store for snapshot payloads.
type Store interface {
	// Load returns the latest payload saved under key.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save stores payload under key, replacing any previous value.
	Save(ctx context.Context, key string, payload []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
