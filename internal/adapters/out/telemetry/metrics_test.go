package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ColdStart(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveColdStart("vllm-qwen", 42*time.Second, nil)
	m.ObserveColdStart("vllm-qwen", time.Second, errors.New("unhealthy"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.coldStarts.WithLabelValues("vllm-qwen", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.coldStarts.WithLabelValues("vllm-qwen", "failure")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.coldStartDuration))
}

func TestMetrics_RunningAndStops(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.SetRunning("sdxl", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.running.WithLabelValues("sdxl")))

	m.IncContainerStop("sdxl", "idle")
	m.SetRunning("sdxl", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.running.WithLabelValues("sdxl")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.containerStops.WithLabelValues("sdxl", "idle")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(nil)
	m.IncForward("buffered", "qwen", http.StatusOK)
	m.IncRejected("unknown_model")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `launcher_forwarded_requests_total{mode="buffered",route="qwen",status="200"} 1`)
	assert.Contains(t, string(body), `launcher_rejected_requests_total{reason="unknown_model"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
