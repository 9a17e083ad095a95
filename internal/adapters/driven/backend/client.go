// Package backend implements the HTTP adapter for the Apunto
// analysis backend. It covers both driven ports the backend serves:
// analysis dispatch and the optional remote history source.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/apunto-labs/apunto-cli/internal/core/domain"
	"github.com/apunto-labs/apunto-cli/internal/core/ports/driven"
	"github.com/apunto-labs/apunto-cli/internal/logger"
)

// DefaultRequestsPerSecond throttles outbound calls so a watch-mode
// burst of captures cannot flood the backend.
const DefaultRequestsPerSecond = 2

// Ensure Client implements both backend ports.
var (
	_ driven.AnalysisBackend = (*Client)(nil)
	_ driven.HistoryBackend  = (*Client)(nil)
)

// Client is the HTTP client for the analysis backend. It performs no
// retries; a failed call surfaces to the caller classified.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Useful for
// tests and for callers that manage their own transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRequestsPerSecond adjusts the client-side throttle.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewClient creates a backend client for the given base URL
// (e.g. "http://localhost:3000/api").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// analyzeBody is the wire shape of the analysis request.
type analyzeBody struct {
	Image       string `json:"image"`
	Description string `json:"description"`
}

// analyzeResponse is the wire shape of a successful analysis. All
// fields are optional on the wire; defaults apply at this boundary.
type analyzeResponse struct {
	ExtractedText string               `json:"extractedText"`
	Summary       string               `json:"summary"`
	Label         string               `json:"label"`
	DetectedInfo  *domain.DetectedInfo `json:"detectedInfo"`
	Tags          []string             `json:"tags"`
}

// Analyze POSTs the encoded image and description to /analyze and
// decodes the result. Non-2xx statuses map through
// domain.ClassifyStatus; the deadline is owned by the caller's
// context.
func (c *Client) Analyze(ctx context.Context, req driven.AnalysisRequest) (*domain.AnalysisResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(analyzeBody{Image: req.Image, Description: req.Description})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	logger.Debug("analyze responded %d in %s", resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	result := &domain.AnalysisResult{
		ExtractedText: decoded.ExtractedText,
		Summary:       decoded.Summary,
		Label:         decoded.Label,
		DetectedInfo:  decoded.DetectedInfo,
		Tags:          decoded.Tags,
	}
	result.Normalize()
	return result, nil
}

// historyResponse is the wire shape of the remote history listing.
type historyResponse struct {
	History []historyRecord `json:"history"`
}

// historyRecord is one remote record. The backend uses snake_case
// field names and an RFC 3339 creation time.
type historyRecord struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	ExtractedText string `json:"extracted_text"`
	Summary       string `json:"summary"`
	Label         string `json:"label"`
	CreatedAt     string `json:"created_at"`
}

// ListHistory fetches the remote history for a user and normalises
// it into domain items. Remote records carry no image reference.
func (c *Client) ListHistory(ctx context.Context, userID string) ([]domain.HistoryItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/history"
	if userID != "" {
		endpoint += "?userId=" + url.QueryEscape(userID)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var decoded historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}

	items := make([]domain.HistoryItem, 0, len(decoded.History))
	for _, rec := range decoded.History {
		items = append(items, domain.HistoryItem{
			ID:            rec.ID,
			ImageURI:      "",
			Description:   rec.Description,
			ExtractedText: rec.ExtractedText,
			Summary:       rec.Summary,
			Label:         rec.Label,
			Timestamp:     parseCreatedAt(rec.CreatedAt),
		})
	}
	return items, nil
}

// DeleteHistory removes one remote record.
func (c *Client) DeleteHistory(ctx context.Context, id, userID string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + "/history/" + url.PathEscape(id)
	if userID != "" {
		endpoint += "?userId=" + url.QueryEscape(userID)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	return nil
}

// statusError reads the response body and maps the status to a
// classified error. Runs before the generic classifier and takes
// precedence over it.
func statusError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		body = nil
	}
	return domain.ClassifyStatus(resp.StatusCode, body)
}

// parseCreatedAt converts the backend's RFC 3339 creation time to
// milliseconds since epoch. Unparsable values map to 0 rather than
// failing the listing.
func parseCreatedAt(raw string) int64 {
	if raw == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		logger.Debug("unparsable created_at %q", raw)
		return 0
	}
	return t.UnixMilli()
}
