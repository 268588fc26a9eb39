package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Stats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"running": ["vllm-qwen"],
			"last_hits": {"vllm-qwen": "2026-03-01T12:00:00Z"},
			"start_metrics": {"vllm-qwen": {"start_count": 3, "average_duration_ms": 41000}}
		}`))
	}))
	defer srv.Close()

	stats, err := NewClient(srv.URL + "/").Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"vllm-qwen"}, stats.Running)
	assert.Equal(t, int64(3), stats.StartMetrics["vllm-qwen"].StartCount)
	assert.Equal(t, 2026, stats.LastHits["vllm-qwen"].Year())
}

func TestClient_Routes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/routes", r.URL.Path)
		_, _ = w.Write([]byte(`{"routes":[{"key":"qwen","container":"vllm-qwen","port":8000}],"models":[]}`))
	}))
	defer srv.Close()

	routes, err := NewClient(srv.URL).Routes(context.Background())

	require.NoError(t, err)
	require.Len(t, routes.Routes, 1)
	assert.Equal(t, "vllm-qwen", routes.Routes[0].Container)
}

func TestClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate_limited"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Stats(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate_limited")
}

func TestClient_HealthDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded","docker":"unreachable"}`))
	}))
	defer srv.Close()

	h, err := NewClient(srv.URL).Health(context.Background())

	require.Error(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "unreachable", h.Docker)
}

func TestClient_HealthUnexpectedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate_limited"}`))
	}))
	defer srv.Close()

	h, err := NewClient(srv.URL).Health(context.Background())

	require.Error(t, err)
	assert.Nil(t, h)
	assert.Contains(t, err.Error(), "429")
}
