package driven

import "context"

// HistorySlot persists the whole history collection as one opaque
// blob under a fixed key. There is no row-level access: every write
// replaces the entire collection.
type HistorySlot interface {
	// Read returns the stored blob, or (nil, nil) when the slot is
	// empty.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored blob.
	Write(ctx context.Context, data []byte) error

	// Reset empties the slot. Used both for explicit clears and to
	// discard a corrupted blob.
	Reset(ctx context.Context) error

	// Ping is a lightweight probe confirming the persistence layer
	// is reachable. Callers degrade to no-ops when it fails.
	Ping(ctx context.Context) error
}
