// Package memory is an in-process storage.Medium, used by tests and by
// commands that must not touch the database file.
package memory

import (
	"errors"
	"fmt"
	"sync"
)

// ErrQuotaExceeded is returned by Set when the value would push the medium
// past its byte quota.
var ErrQuotaExceeded = errors.New("memory medium quota exceeded")

// Medium keeps values in a map.
type Medium struct {
	mu     sync.RWMutex
	values map[string]string
	quota  int
}

// New returns an empty, unbounded medium.
func New() *Medium {
	return &Medium{values: make(map[string]string)}
}

// NewWithQuota returns an empty medium holding at most quota bytes of values.
func NewWithQuota(quota int) *Medium {
	m := New()
	m.quota = quota
	return m
}

func (m *Medium) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Medium) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		used := 0
		for k, v := range m.values {
			if k != key {
				used += len(v)
			}
		}
		if used+len(value) > m.quota {
			return fmt.Errorf("set %q (%d bytes): %w", key, len(value), ErrQuotaExceeded)
		}
	}

	m.values[key] = value
	return nil
}

func (m *Medium) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Medium) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
