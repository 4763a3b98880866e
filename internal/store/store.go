// Package store provides the persistent key-value store shared by all
// stateful components.
//
// The store has no knowledge of schema: values are opaque serialized blobs
// keyed by name. Each component exclusively owns its keys and performs its
// own read-modify-write. All blobs are schema-on-read: a parse failure is
// logged and treated as absent, never fatal.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/peterbourgon/diskv/v3"

	"github.com/soothhq/sooth/internal/log"
)

// ErrLocked indicates another process holds the data directory.
var ErrLocked = errors.New("store: data directory locked by another process")

// KV is the contract stateful components depend on.
type KV interface {
	// Get returns the blob stored under key, or false when absent.
	Get(key string) ([]byte, bool)
	// Set stores the blob under key, replacing any previous value.
	Set(key string, value []byte) error
	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(key string) error
}

// Store is a diskv-backed KV holding an exclusive lock on its directory.
// All access is expected from a single event loop; the lock guards against
// a second process, not concurrent goroutines.
type Store struct {
	d      *diskv.Diskv
	lock   *flock.Flock
	logger log.Logger
}

var _ KV = (*Store)(nil)

// Open creates the data directory if needed, acquires its lock, and
// returns a ready Store. Returns ErrLocked when another instance owns the
// directory.
func Open(dir string, logger log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("store: creating data directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, ".lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("store: acquiring lock: %w", err)
	}
	if !held {
		return nil, ErrLocked
	}

	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		lock:   lock,
		logger: logger,
	}, nil
}

// Close releases the directory lock. The Store must not be used afterwards.
func (s *Store) Close() error {
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("store: releasing lock: %w", err)
	}
	return nil
}

// Get implements KV.
func (s *Store) Get(key string) ([]byte, bool) {
	data, err := s.d.Read(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set implements KV.
func (s *Store) Set(key string, value []byte) error {
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("store: writing %q: %w", key, err)
	}
	return nil
}

// Remove implements KV.
func (s *Store) Remove(key string) error {
	if err := s.d.Erase(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("store: erasing %q: %w", key, err)
	}
	return nil
}

// LoadJSON reads and unmarshals the blob under key into dst.
// Returns false when the key is absent or the blob fails to parse; parse
// failures are logged and the key treated as absent (schema-on-read).
// Decoding goes through a scratch value so dst is untouched on failure:
// json.Unmarshal leaves its target partially populated when it errors
// mid-decode, and a half-loaded record is worse than an empty one.
func LoadJSON[T any](kv KV, logger log.Logger, key string, dst *T) bool {
	data, ok := kv.Get(key)
	if !ok {
		return false
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		logger.Warn("discarding corrupt record", "key", key, "error", err)
		return false
	}
	*dst = decoded
	return true
}

// SaveJSON marshals v and stores it under key. Write failures are logged,
// not returned: persistence is advisory to the in-memory state, and no
// caller has a better recovery than retrying on the next mutation.
func SaveJSON(kv KV, logger log.Logger, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("marshaling record", "key", key, "error", err)
		return
	}
	if err := kv.Set(key, data); err != nil {
		logger.Error("persisting record", "key", key, "error", err)
	}
}
