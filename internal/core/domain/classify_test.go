package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_NilInput(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassify_PassesThroughClassifiedErrors(t *testing.T) {
	original := NewAnalysisError(CategoryServerError, "db down")

	got := Classify(original)
	require.NotNil(t, got)
	assert.Equal(t, CategoryServerError, got.Category)
	assert.Equal(t, "db down", got.Detail)

	// Wrapped classified errors also pass through.
	wrapped := fmt.Errorf("dispatching request: %w", original)
	got = Classify(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, CategoryServerError, got.Category)
}

func TestClassify_Categories(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{
			name: "network request failed",
			err:  errors.New("Network request failed"),
			want: CategoryNoInternet,
		},
		{
			name: "failed to fetch",
			err:  errors.New("Failed to fetch"),
			want: CategoryNoInternet,
		},
		{
			name: "generic NetworkError",
			err:  errors.New("NetworkError when attempting to fetch resource"),
			want: CategoryNoInternet,
		},
		{
			name: "network unreachable syscall",
			err:  &net.OpError{Op: "dial", Err: syscall.ENETUNREACH},
			want: CategoryNoInternet,
		},
		{
			name: "timeout substring",
			err:  errors.New("request timeout after 60s"),
			want: CategoryTimeout,
		},
		{
			name: "context deadline",
			err:  fmt.Errorf("calling backend: %w", context.DeadlineExceeded),
			want: CategoryTimeout,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:3000: connect: connection refused"),
			want: CategoryAPIUnreachable,
		},
		{
			name: "dns failure",
			err:  &net.DNSError{Err: "no such host", Name: "api.apunto.invalid"},
			want: CategoryAPIUnreachable,
		},
		{
			name: "unknown failure",
			err:  errors.New("something exploded"),
			want: CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Category)
		})
	}
}

// A message carrying both an unreachability indicator and a timeout
// indicator must classify as NO_INTERNET: network substrings outrank
// timeout substrings.
func TestClassify_NetworkIndicatorOutranksTimeout(t *testing.T) {
	got := Classify(errors.New("Failed to fetch: timeout"))
	require.NotNil(t, got)
	assert.Equal(t, CategoryNoInternet, got.Category)
}

// timeoutErr is a typed net.Error that also carries a network
// substring in its message; the substring still wins.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "Failed to fetch" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify_NetworkSubstringOutranksTypedTimeout(t *testing.T) {
	got := Classify(timeoutErr{})
	require.NotNil(t, got)
	assert.Equal(t, CategoryNoInternet, got.Category)
}

func TestClassify_Totality(t *testing.T) {
	valid := map[Category]bool{
		CategoryNoInternet:         true,
		CategoryTimeout:            true,
		CategoryAPIUnreachable:     true,
		CategoryServerError:        true,
		CategoryServiceUnavailable: true,
		CategoryInvalidInput:       true,
		CategoryEncodeFailed:       true,
		CategoryBackendMessage:     true,
		CategoryUnknown:            true,
	}

	inputs := []error{
		errors.New(""),
		errors.New("完全に不明なエラー"),
		&net.OpError{Op: "read", Err: errors.New("weird")},
		fmt.Errorf("wrap: %w", fmt.Errorf("wrap: %w", errors.New("deep"))),
		context.Canceled,
		&net.DNSError{},
	}
	for _, err := range inputs {
		got := Classify(err)
		require.NotNil(t, got)
		assert.True(t, valid[got.Category], "category %q not in closed set", got.Category)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       Category
		wantDetail string
	}{
		{
			name:       "500 with message detail",
			status:     500,
			body:       `{"message":"db down"}`,
			want:       CategoryServerError,
			wantDetail: "db down",
		},
		{
			name:       "500 with error detail",
			status:     500,
			body:       `{"error":"boom"}`,
			want:       CategoryServerError,
			wantDetail: "boom",
		},
		{
			name:   "503 ignores body",
			status: 503,
			body:   `{"message":"maintenance"}`,
			want:   CategoryServiceUnavailable,
		},
		{
			name:       "404 passes message through",
			status:     404,
			body:       `{"error":"not found"}`,
			want:       CategoryBackendMessage,
			wantDetail: "not found",
		},
		{
			name:       "non-json body falls back to status",
			status:     418,
			body:       "<html>teapot</html>",
			want:       CategoryBackendMessage,
			wantDetail: "Error 418",
		},
		{
			name:       "empty body falls back to status",
			status:     404,
			body:       "",
			want:       CategoryBackendMessage,
			wantDetail: "Error 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus(tt.status, []byte(tt.body))
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Category)
			assert.Equal(t, tt.wantDetail, got.Detail)
		})
	}
}

func TestAnalysisError_Error(t *testing.T) {
	assert.Equal(t, "NO_INTERNET", NewAnalysisError(CategoryNoInternet, "").Error())
	assert.Equal(t, "ERROR_SERVER: db down", NewAnalysisError(CategoryServerError, "db down").Error())
	// Backend messages render verbatim.
	assert.Equal(t, "not found", NewAnalysisError(CategoryBackendMessage, "not found").Error())
}

func TestAnalysisError_Retryable(t *testing.T) {
	retryable := []Category{
		CategoryNoInternet, CategoryTimeout,
		CategoryAPIUnreachable, CategoryServiceUnavailable,
	}
	for _, cat := range retryable {
		assert.True(t, NewAnalysisError(cat, "").Retryable(), string(cat))
	}

	final := []Category{
		CategoryServerError, CategoryInvalidInput, CategoryEncodeFailed,
		CategoryBackendMessage, CategoryUnknown,
	}
	for _, cat := range final {
		assert.False(t, NewAnalysisError(cat, "").Retryable(), string(cat))
	}
}

func TestClassify_IsFastAndPure(t *testing.T) {
	// Classify must never block; a generous bound catches accidental I/O.
	start := time.Now()
	for i := 0; i < 1000; i++ {
		Classify(errors.New("some failure"))
	}
	assert.Less(t, time.Since(start), 2*time.Second)
}
