// Package prefs holds small persisted visitor flags behind an injected
// key-value store, so callers never reach for a global directly.
package prefs

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("preference not found")

// Store persists string values by key. Get returns ErrNotFound for keys
// that were never set.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Flag is a boolean read once when created and written on the first Mark.
type Flag struct {
	store Store
	key   string

	mu  sync.Mutex
	set bool
}

// LoadFlag reads key from store. A missing key is an unset flag.
func LoadFlag(ctx context.Context, store Store, key string) (*Flag, error) {
	f := &Flag{store: store, key: key}
	v, err := store.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return f, err
	default:
		f.set = v == "true"
	}
	return f, nil
}

func (f *Flag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}

// Mark sets the flag, writing through to the store only the first time.
func (f *Flag) Mark(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set {
		return nil
	}
	if err := f.store.Set(ctx, f.key, "true"); err != nil {
		return err
	}
	f.set = true
	return nil
}
