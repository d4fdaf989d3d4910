// Package storage is the persistence layer: named JSON collections kept in a
// durable key-value Medium that is injected by the caller.
//
// Every collection is read and written whole, as one JSON array. There are no
// row-level updates and no versioning: a read-modify-write from two writers
// against the same key is last-writer-wins. Callers that share a Store inside
// one process serialise their own read-modify-write sequences.
//
// Nothing in this package fails loudly. Reads fall back to an empty collection
// and writes report false; the cause is logged. Load is the exception: it
// returns the read error so a caller never writes back a collection it could
// not see.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnavailable is returned by Load, and logged by the other operations,
// when the Store has no medium to talk to.
var ErrUnavailable = errors.New("storage medium unavailable")

// Medium is the contract any durable key-value backend must satisfy.
// Implementations must be safe for concurrent use.
type Medium interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any prior value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Store reads and writes collections through a Medium.
type Store struct {
	medium Medium
	log    *slog.Logger
}

// New returns a Store over medium. A nil medium yields a Store in which every
// read is empty and every write fails.
func New(medium Medium, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{medium: medium, log: log.With(slog.String("component", "storage"))}
}

// Available reports whether the Store has a medium.
func (s *Store) Available() bool {
	return s.medium != nil
}

// Read returns the collection stored under key. An absent key, a missing
// medium, a read failure or undecodable JSON all yield an empty slice.
func Read[T any](s *Store, key Key) []T {
	items, err := Load[T](s, key)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			s.log.Warn("read skipped", slog.String("key", string(key)), slog.String("error", err.Error()))
		} else {
			s.log.Error("read failed", slog.String("key", string(key)), slog.String("error", err.Error()))
		}
		return make([]T, 0)
	}
	return items
}

// Load is Read for callers that must tell an empty collection from a failed
// one, such as a read-modify-write. An absent key is an empty collection.
func Load[T any](s *Store, key Key) ([]T, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}

	raw, ok, err := s.medium.Get(string(key))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return make([]T, 0), nil
	}

	items := make([]T, 0)
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		// "null" decodes to a nil slice.
		items = make([]T, 0)
	}

	return items, nil
}

// Write replaces the collection under key with records. It reports whether
// the value reached the medium.
func Write[T any](s *Store, key Key, records []T) bool {
	if !s.Available() {
		s.log.Warn("write skipped", slog.String("key", string(key)), slog.String("error", ErrUnavailable.Error()))
		return false
	}

	if records == nil {
		records = []T{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		s.log.Error("collection is not encodable", slog.String("key", string(key)), slog.String("error", err.Error()))
		return false
	}

	if err := s.medium.Set(string(key), string(data)); err != nil {
		s.log.Error("write failed",
			slog.String("key", string(key)),
			slog.Int("bytes", len(data)),
			slog.String("error", err.Error()))
		return false
	}

	return true
}

// Remove deletes the collection under key. Removing an absent collection
// succeeds.
func (s *Store) Remove(key Key) bool {
	if !s.Available() {
		s.log.Warn("remove skipped", slog.String("key", string(key)), slog.String("error", ErrUnavailable.Error()))
		return false
	}

	if err := s.medium.Delete(string(key)); err != nil {
		s.log.Error("remove failed", slog.String("key", string(key)), slog.String("error", err.Error()))
		return false
	}

	return true
}

// ClearAll removes every recognised collection. It keeps going after a
// failure and reports whether all removals succeeded.
func (s *Store) ClearAll() bool {
	ok := true
	for _, key := range Keys() {
		if !s.Remove(key) {
			ok = false
		}
	}
	return ok
}
