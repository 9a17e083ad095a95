package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apunto-labs/apunto-cli/internal/core/domain"
	"github.com/apunto-labs/apunto-cli/internal/core/ports/driven"
	"github.com/apunto-labs/apunto-cli/internal/core/ports/driving"
	"github.com/apunto-labs/apunto-cli/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.Analyzer = (*AnalysisService)(nil)

// DefaultRequestTimeout bounds one analysis HTTP call end-to-end.
const DefaultRequestTimeout = 75 * time.Second

// AnalysisService executes one document-analysis request end-to-end:
// connectivity precheck, image encoding, dispatch, and error
// classification. It performs no retries and persists nothing.
type AnalysisService struct {
	backend      driven.AnalysisBackend
	connectivity driven.Connectivity
	timeout      time.Duration
}

// NewAnalysisService creates an analysis service. connectivity may be
// nil, in which case every call proceeds optimistically. A zero
// timeout falls back to DefaultRequestTimeout.
func NewAnalysisService(
	backend driven.AnalysisBackend,
	connectivity driven.Connectivity,
	timeout time.Duration,
) *AnalysisService {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &AnalysisService{
		backend:      backend,
		connectivity: connectivity,
		timeout:      timeout,
	}
}

// Analyze sends the image at imagePath with its description to the
// backend and returns the structured result. Every failure surfaces
// as a classified *domain.AnalysisError; nothing is swallowed.
func (s *AnalysisService) Analyze(
	ctx context.Context,
	imagePath, description string,
) (*domain.AnalysisResult, error) {
	if s.backend == nil {
		return nil, domain.NewAnalysisError(domain.CategoryUnknown, "analysis backend not configured")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, domain.NewAnalysisError(domain.CategoryInvalidInput, "description must not be empty")
	}

	// Fail fast when definitely offline instead of waiting out a
	// doomed request timeout. An ambiguous probe proceeds.
	if s.connectivity != nil && s.connectivity.State(ctx) == driven.NetOffline {
		logger.Debug("connectivity precheck: offline, skipping request")
		return nil, domain.NewAnalysisError(domain.CategoryNoInternet, "")
	}

	image, err := EncodeImage(imagePath)
	if err != nil {
		return nil, domain.NewAnalysisError(domain.CategoryEncodeFailed, err.Error())
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger.Debug("dispatching analysis request (%d byte payload)", len(image))
	result, err := s.backend.Analyze(reqCtx, driven.AnalysisRequest{
		Image:       image,
		Description: description,
	})
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, domain.NewAnalysisError(domain.CategoryTimeout, "")
		}
		return nil, domain.Classify(err)
	}

	result.Normalize()
	return result, nil
}

// EncodeImage reads the image file and encodes it as a base64 data
// URI. The MIME type is inferred from the file extension, defaulting
// to image/jpeg when the extension is unrecognised.
func EncodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image %s is empty", path)
	}

	mime := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".gif":
		mime = "image/gif"
	case ".webp":
		mime = "image/webp"
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
