package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/limiter"
	"github.com/stretchr/testify/require"
)

func testFetcher(t *testing.T) *Fetcher {
	t.Helper()

	loader, _ := cfg.NewMockLoader()
	config, err := loader.Load()
	require.NoError(t, err)

	// Rút ngắn các khoảng chờ để test chạy nhanh
	config.GithubApi.MinSpacingMs = 1
	config.GithubApi.RetryDelayMs = 1
	config.GithubApi.RetryAttempts = 3

	budget := limiter.NewBudget(config)
	return NewFetcher(nopLogger{}, config, budget)
}

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warn(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Error(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Debug(ctx context.Context, format string, args ...interface{}) {}

func TestFetchReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "4999")
		_, _ = w.Write([]byte("hello"))
	}))
	defer server.Close()

	f := testFetcher(t)
	body, err := f.Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), body)

	// Header rate limit phải được ghi nhận vào Budget
	require.Equal(t, 4999, f.Budget.Remaining())
}

func TestFetchSendsHeaders(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	f := testFetcher(t)
	_, err := f.Fetch(context.Background(), server.URL, map[string]string{"Authorization": "token abc"})
	require.NoError(t, err)
	require.Equal(t, "token abc", gotAuth.Load())
}

func TestFetchNonRetryableReturnsNilBody(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := testFetcher(t)
	body, err := f.Fetch(context.Background(), server.URL, nil)

	// Lỗi ứng dụng không retry, caller nhận body nil để tự fallback
	require.NoError(t, err)
	require.Nil(t, body)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRetriesTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := testFetcher(t)
	_, err := f.Fetch(context.Background(), url, nil)
	require.Error(t, err)
}

func TestFetchRetriesAfterRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// Lần đầu trả về tín hiệu rate limit với reset trong quá khứ
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", "1")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("X-RateLimit-Remaining", "4999")
		_, _ = w.Write([]byte("recovered"))
	}))
	defer server.Close()

	f := testFetcher(t)
	body, err := f.Fetch(context.Background(), server.URL, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("recovered"), body)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoPostSendsPayload(t *testing.T) {
	var gotMethod atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod.Store(r.Method)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := testFetcher(t)
	body, err := f.Do(context.Background(), http.MethodPost, server.URL, nil, []byte(`{"query":"x"}`))
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), body)
	require.Equal(t, http.MethodPost, gotMethod.Load())
}
