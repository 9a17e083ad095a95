package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/apunto-labs/apunto-cli/internal/core/domain"
	"github.com/apunto-labs/apunto-cli/internal/core/ports/driven"
	"github.com/apunto-labs/apunto-cli/internal/core/ports/driving"
	"github.com/apunto-labs/apunto-cli/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryKeeper = (*HistoryService)(nil)

// HistoryService keeps the durable record of past analyses. Reads
// prefer the remote backend and fall back to the local slot; deletes
// go to both; saves, updates and clears are local-only. Every failure
// is recovered here rather than propagated: history is an auxiliary
// feature that must never block the analysis flow.
type HistoryService struct {
	mu     sync.Mutex
	slot   driven.HistorySlot
	remote driven.HistoryBackend
	now    func() time.Time
}

// NewHistoryService creates a history service. remote may be nil, in
// which case the store is local-only.
func NewHistoryService(slot driven.HistorySlot, remote driven.HistoryBackend) *HistoryService {
	return &HistoryService{
		slot:   slot,
		remote: remote,
		now:    time.Now,
	}
}

// Save assigns a unique ID and the current timestamp, prepends the
// item (newest first) and persists the collection. Failures are
// logged and swallowed.
func (s *HistoryService) Save(ctx context.Context, item domain.HistoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available(ctx) {
		return
	}

	item.ID = uuid.NewString()
	item.Timestamp = s.now().UnixMilli()

	items := s.readLocal(ctx)
	items = append([]domain.HistoryItem{item}, items...)
	s.writeLocal(ctx, items)
}

// List returns the history newest-first. The remote backend is the
// source of truth when reachable: its result overwrites the local
// cache. On remote failure the local cache is returned verbatim, and
// on total failure the result is empty. List never returns an error.
func (s *HistoryService) List(ctx context.Context, userID string) []domain.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available(ctx) {
		return nil
	}

	if s.remote != nil {
		items, err := s.remote.ListHistory(ctx, userID)
		if err == nil {
			s.writeLocal(ctx, items)
			return items
		}
		logger.Warn("remote history fetch failed, using local cache: %v", err)
	}

	return s.readLocal(ctx)
}

// Delete removes the item remotely first, then from the local cache
// regardless of the remote outcome. Unknown IDs are a no-op and no
// failure is ever surfaced.
func (s *HistoryService) Delete(ctx context.Context, id, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available(ctx) {
		return
	}

	if s.remote != nil {
		if err := s.remote.DeleteHistory(ctx, id, userID); err != nil {
			logger.Warn("remote history delete failed for %s: %v", id, err)
		}
	}

	items := s.readLocal(ctx)
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) != len(items) {
		s.writeLocal(ctx, kept)
	}
}

// Update merges the patch into the local item with the given ID and
// persists the collection. Missing IDs and empty patches are no-ops.
func (s *HistoryService) Update(ctx context.Context, id string, patch domain.HistoryPatch) {
	if patch.IsZero() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available(ctx) {
		return
	}

	items := s.readLocal(ctx)
	for i := range items {
		if items[i].ID == id {
			items[i].Apply(patch)
			s.writeLocal(ctx, items)
			return
		}
	}
	logger.Debug("history update: id %s not found", id)
}

// Clear removes all local history. Remote storage is untouched.
func (s *HistoryService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available(ctx) {
		return
	}
	if err := s.slot.Reset(ctx); err != nil {
		logger.Warn("clearing history: %v", err)
	}
}

// available probes the persistence layer. When the probe fails every
// operation degrades to a no-op instead of crashing the caller.
func (s *HistoryService) available(ctx context.Context) bool {
	if s.slot == nil {
		return false
	}
	if err := s.slot.Ping(ctx); err != nil {
		logger.Warn("history storage unavailable: %v", err)
		return false
	}
	return true
}

// readLocal loads the cached collection. A corrupted blob is
// discarded (the slot is reset to empty) rather than propagated.
func (s *HistoryService) readLocal(ctx context.Context) []domain.HistoryItem {
	data, err := s.slot.Read(ctx)
	if err != nil {
		logger.Warn("reading history: %v", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var items []domain.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("history cache corrupted, resetting: %v", err)
		if resetErr := s.slot.Reset(ctx); resetErr != nil {
			logger.Warn("resetting corrupted history: %v", resetErr)
		}
		return nil
	}
	return items
}

// writeLocal persists the full collection, swallowing failures.
func (s *HistoryService) writeLocal(ctx context.Context, items []domain.HistoryItem) {
	if items == nil {
		items = []domain.HistoryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		logger.Warn("encoding history: %v", err)
		return
	}
	if err := s.slot.Write(ctx, data); err != nil {
		logger.Warn("writing history: %v", err)
	}
}
