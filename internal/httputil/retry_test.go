// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func countingServer(t *testing.T, handler func(n int32, w http.ResponseWriter)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handler(atomic.AddInt32(&calls, 1), w)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestDoWithRetry_ImmediateSuccess(t *testing.T) {
	ts, calls := countingServer(t, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusOK)
	})

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestDoWithRetry_RetriesThen200(t *testing.T) {
	ts, calls := countingServer(t, func(n int32, w http.ResponseWriter) {
		if n <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestDoWithRetry_ExhaustsRetries(t *testing.T) {
	ts, calls := countingServer(t, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 2, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	// 1 initial + 2 retries.
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestDoWithRetry_DefaultMaxRetries(t *testing.T) {
	ts, calls := countingServer(t, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 0, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	// 1 initial + 3 default retries.
	assert.Equal(t, int32(4), atomic.LoadInt32(calls))
}

func TestDoWithRetry_ContextCancelled(t *testing.T) {
	ts, _ := countingServer(t, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoWithRetry_Non429PassesThrough(t *testing.T) {
	ts, calls := countingServer(t, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
