// Package memory provides an in-process records.Backend for tests and ephemeral runs.
package memory

import (
	"context"
	"errors"
	"sync"

	"kopikeliling/internal/domain/records"
)

// Backend keeps serialized collections in a map.
type Backend struct {
	mu    sync.Mutex
	data  map[records.Collection][]byte
	saves int

	// FailNextSave makes the next Save return an error. Tests use it to
	// verify a failed write leaves the store unchanged.
	FailNextSave bool
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{data: make(map[records.Collection][]byte)}
}

// NewWith returns a backend preloaded with payloads.
func NewWith(payloads map[records.Collection][]byte) *Backend {
	b := New()
	for c, p := range payloads {
		b.data[c] = append([]byte(nil), p...)
	}
	return b
}

// ErrInjected is returned by Save when FailNextSave is set.
var ErrInjected = errors.New("memory backend: injected save failure")

// Load implements records.Backend.
func (b *Backend) Load(_ context.Context) (map[records.Collection][]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[records.Collection][]byte, len(b.data))
	for c, p := range b.data {
		out[c] = append([]byte(nil), p...)
	}
	return out, nil
}

// Save implements records.Backend.
func (b *Backend) Save(_ context.Context, changes map[records.Collection][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailNextSave {
		b.FailNextSave = false
		return ErrInjected
	}
	for c, p := range changes {
		b.data[c] = append([]byte(nil), p...)
	}
	b.saves++
	return nil
}

// Payload returns the stored bytes of one collection.
func (b *Backend) Payload(c records.Collection) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.data[c]
	return p, ok
}

// Saves counts successful Save calls.
func (b *Backend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// Close implements io.Closer.
func (b *Backend) Close() error { return nil }
