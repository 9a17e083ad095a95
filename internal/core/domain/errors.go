package domain

import "errors"

// Category is the closed set of failure categories the analysis
// pipeline can surface. Every non-success path terminates in exactly
// one of these.
type Category string

const (
	// CategoryNoInternet indicates the device is definitely offline
	// or the network layer reported an unreachable network.
	CategoryNoInternet Category = "NO_INTERNET"

	// CategoryTimeout indicates the request deadline elapsed before
	// the backend responded.
	CategoryTimeout Category = "TIMEOUT"

	// CategoryAPIUnreachable indicates the backend host refused the
	// connection or could not be resolved.
	CategoryAPIUnreachable Category = "API_UNREACHABLE"

	// CategoryServerError indicates an HTTP 500 from the backend,
	// optionally carrying server-provided detail text.
	CategoryServerError Category = "ERROR_SERVER"

	// CategoryServiceUnavailable indicates an HTTP 503 from the backend.
	CategoryServiceUnavailable Category = "SERVICE_UNAVAILABLE"

	// CategoryInvalidInput indicates the caller supplied unusable
	// input (empty description). Distinct from network failures.
	CategoryInvalidInput Category = "INVALID_INPUT"

	// CategoryEncodeFailed indicates the image could not be read or
	// encoded for transport. Fatal to the call, never merged into
	// the network categories.
	CategoryEncodeFailed Category = "ENCODE_FAILED"

	// CategoryBackendMessage carries a server-provided message
	// verbatim for non-2xx statuses other than 500 and 503.
	CategoryBackendMessage Category = "BACKEND_MESSAGE"

	// CategoryUnknown is the fallback for unclassifiable failures.
	CategoryUnknown Category = "UNKNOWN_ERROR"
)

// AnalysisError is a classified failure from the analysis pipeline.
// The Category is always one of the closed set above; Detail is
// optional supplementary text (server message, encode reason).
type AnalysisError struct {
	Category Category
	Detail   string
}

// Error renders the category, with detail when present. Backend
// pass-through messages render verbatim.
func (e *AnalysisError) Error() string {
	if e.Category == CategoryBackendMessage {
		return e.Detail
	}
	if e.Detail != "" {
		return string(e.Category) + ": " + e.Detail
	}
	return string(e.Category)
}

// Retryable reports whether the failure is a transient network
// condition worth re-invoking the identical call for.
func (e *AnalysisError) Retryable() bool {
	switch e.Category {
	case CategoryNoInternet, CategoryTimeout, CategoryAPIUnreachable, CategoryServiceUnavailable:
		return true
	default:
		return false
	}
}

// NewAnalysisError builds a classified failure.
func NewAnalysisError(cat Category, detail string) *AnalysisError {
	return &AnalysisError{Category: cat, Detail: detail}
}

// AsAnalysisError extracts an AnalysisError from an error chain.
func AsAnalysisError(err error) (*AnalysisError, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
