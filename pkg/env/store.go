// Package env abstracts the process environment behind a Store so that
// validation can run against the real environment, an in-memory map in
// tests, or a temporary overlay.
package env

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Store is a mutable source of environment variables
type Store interface {
	// Lookup returns the value of key and whether it is set
	Lookup(key string) (string, bool)

	// Set assigns value to key
	Set(key, value string) error

	// Unset removes key
	Unset(key string) error

	// Snapshot returns a copy of every variable in the store
	Snapshot() map[string]string
}

type osStore struct{}

// OS returns a Store backed by the process environment
func OS() Store {
	return osStore{}
}

func (osStore) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (osStore) Set(key, value string) error {
	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (osStore) Unset(key string) error {
	if err := os.Unsetenv(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

func (osStore) Snapshot() map[string]string {
	environ := os.Environ()
	values := make(map[string]string, len(environ))
	for _, kv := range environ {
		// Windows exposes per-drive variables such as "=C:"
		if i := strings.Index(kv, "="); i > 0 {
			values[kv[:i]] = kv[i+1:]
		}
	}
	return values
}

// Map is an in-memory Store, safe for concurrent use
type Map struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMap returns a Map holding a copy of initial
func NewMap(initial map[string]string) *Map {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Map{values: values}
}

func (m *Map) Lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("set: empty key")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Map) Unset(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Map) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values := make(map[string]string, len(m.values))
	for k, v := range m.values {
		values[k] = v
	}
	return values
}
