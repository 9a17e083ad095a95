package driving

import (
	"context"

	"github.com/apunto-labs/apunto-cli/internal/core/domain"
)

// Analyzer runs one document analysis end-to-end: encode the image,
// send it with its description, and return either a result or a
// classified *domain.AnalysisError.
type Analyzer interface {
	Analyze(ctx context.Context, imagePath, description string) (*domain.AnalysisResult, error)
}
