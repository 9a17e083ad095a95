package driving

import (
	"context"

	"github.com/apunto-labs/apunto-cli/internal/core/domain"
)

// HistoryKeeper manages the persisted record of past analyses.
// Every operation is best-effort: failures degrade to no-ops or
// empty results, never to surfaced errors, so a history outage can
// never block the primary analysis flow.
type HistoryKeeper interface {
	// Save assigns an ID and timestamp and prepends the item.
	Save(ctx context.Context, item domain.HistoryItem)

	// List returns the history newest-first, preferring the remote
	// source and falling back to the local cache.
	List(ctx context.Context, userID string) []domain.HistoryItem

	// Delete removes an item remotely and locally. Unknown IDs are
	// a no-op.
	Delete(ctx context.Context, id, userID string)

	// Update merges a patch into the local item with the given ID.
	Update(ctx context.Context, id string, patch domain.HistoryPatch)

	// Clear removes all local history. Remote storage is untouched.
	Clear(ctx context.Context)
}
