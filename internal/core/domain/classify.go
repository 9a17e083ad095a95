package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Substring sets used by Classify. These mirror the messages the
// platform network layers produce; matching is first-match-wins in
// the order below, so an unreachability indicator outranks a timeout
// indicator appearing in the same message.
var (
	noInternetIndicators = []string{
		"Network request failed",
		"Failed to fetch",
		"NetworkError",
		"network is unreachable",
		"network is down",
	}

	timeoutIndicators = []string{
		"timeout",
		"TIMEOUT",
		"deadline exceeded",
	}

	unreachableIndicators = []string{
		"connection refused",
		"ECONNREFUSED",
		"no such host",
		"ENOTFOUND",
		"getaddrinfo",
	}
)

// Classify maps any failure to exactly one AnalysisError. It is total
// (returns nil only for a nil input), deterministic, and performs no
// I/O. Already classified errors pass through unchanged.
func Classify(err error) *AnalysisError {
	if err == nil {
		return nil
	}
	if ae, ok := AsAnalysisError(err); ok {
		return ae
	}

	msg := err.Error()

	if containsAny(msg, noInternetIndicators) || isNetworkDown(err) {
		return NewAnalysisError(CategoryNoInternet, "")
	}
	if isTimeout(err) || containsAny(msg, timeoutIndicators) {
		return NewAnalysisError(CategoryTimeout, "")
	}
	if isUnreachable(err) || containsAny(msg, unreachableIndicators) {
		return NewAnalysisError(CategoryAPIUnreachable, "")
	}

	return NewAnalysisError(CategoryUnknown, msg)
}

// ClassifyStatus maps a non-2xx HTTP status and its response body to
// an AnalysisError. Status-driven classification runs before the
// generic Classify and takes precedence over it.
func ClassifyStatus(status int, body []byte) *AnalysisError {
	detail := extractMessage(body)

	switch status {
	case 500:
		return NewAnalysisError(CategoryServerError, detail)
	case 503:
		return NewAnalysisError(CategoryServiceUnavailable, "")
	default:
		if detail == "" {
			detail = fmt.Sprintf("Error %d", status)
		}
		return NewAnalysisError(CategoryBackendMessage, detail)
	}
}

// extractMessage pulls the server-provided detail out of an error
// body, preferring "message" over "error". Malformed bodies yield "".
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func containsAny(msg string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(msg, ind) {
			return true
		}
	}
	return false
}

// isNetworkDown reports typed signals that the local network stack is
// down, as opposed to the remote host being unreachable.
func isNetworkDown(err error) bool {
	return errors.Is(err, syscall.ENETDOWN) || errors.Is(err, syscall.ENETUNREACH)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func isUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
