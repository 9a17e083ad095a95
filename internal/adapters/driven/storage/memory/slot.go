// Package memory provides in-memory implementations of the driven
// storage ports, used as test fakes and as a fallback when durable
// storage is unavailable.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/apunto-labs/apunto-cli/internal/core/ports/driven"
)

// Ensure HistorySlot implements the interface.
var _ driven.HistorySlot = (*HistorySlot)(nil)

// HistorySlot is an in-memory implementation of driven.HistorySlot.
type HistorySlot struct {
	mu   sync.RWMutex
	data []byte

	// FailPing, FailRead and FailWrite force the corresponding
	// operations to fail, for exercising degraded paths in tests.
	FailPing  bool
	FailRead  bool
	FailWrite bool
}

// NewHistorySlot creates an empty in-memory slot.
func NewHistorySlot() *HistorySlot {
	return &HistorySlot{}
}

// Read returns the stored blob, or nil when empty.
func (s *HistorySlot) Read(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailRead {
		return nil, errors.New("memory slot: read disabled")
	}
	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Write replaces the stored blob.
func (s *HistorySlot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrite {
		return errors.New("memory slot: write disabled")
	}
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}

// Reset empties the slot.
func (s *HistorySlot) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// Ping reports whether the slot is reachable.
func (s *HistorySlot) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailPing {
		return errors.New("memory slot: unavailable")
	}
	return nil
}
