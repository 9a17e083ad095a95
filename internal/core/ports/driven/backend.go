package driven

import (
	"context"

	"github.com/apunto-labs/apunto-cli/internal/core/domain"
)

// AnalysisRequest is the transport-ready payload for one analysis call.
type AnalysisRequest struct {
	// Image is a base64 data URI carrying the encoded document photo.
	Image string

	// Description is the user-supplied description, already trimmed.
	Description string
}

// AnalysisBackend sends exactly one analysis request to the remote
// backend. Implementations report non-2xx statuses and transport
// failures as errors; they never retry.
type AnalysisBackend interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*domain.AnalysisResult, error)
}

// HistoryBackend is the optional remote source of truth for history.
type HistoryBackend interface {
	// ListHistory fetches the remote history, keyed by userID when
	// non-empty, already normalised into domain items.
	ListHistory(ctx context.Context, userID string) ([]domain.HistoryItem, error)

	// DeleteHistory removes one remote record.
	DeleteHistory(ctx context.Context, id, userID string) error
}
