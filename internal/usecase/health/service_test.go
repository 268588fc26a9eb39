package health

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out/mocks"
	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

func testRoute() domain.Route {
	return domain.Route{Key: "qwen", ContainerName: "vllm-qwen", Port: 8000}
}

func TestService_WaitHealthy_ImmediateSuccess(t *testing.T) {
	prober := mocks.NewMockHTTPProber(t)
	prober.EXPECT().
		Probe(mock.Anything, "http://vllm-qwen:8000/v1/models", mock.Anything).
		Return(http.StatusOK, int64(3), nil).
		Once()

	svc := NewService(prober, Config{Interval: time.Millisecond, Timeout: time.Second}, zerowrap.Default())

	require.NoError(t, svc.WaitHealthy(context.Background(), testRoute()))
}

func TestService_WaitHealthy_RetriesUntilReady(t *testing.T) {
	prober := mocks.NewMockHTTPProber(t)
	prober.EXPECT().Probe(mock.Anything, mock.Anything, mock.Anything).
		Return(0, int64(1), errors.New("connection refused")).Once()
	prober.EXPECT().Probe(mock.Anything, mock.Anything, mock.Anything).
		Return(http.StatusServiceUnavailable, int64(1), nil).Once()
	prober.EXPECT().Probe(mock.Anything, mock.Anything, mock.Anything).
		Return(http.StatusOK, int64(1), nil).Once()

	svc := NewService(prober, Config{Interval: time.Millisecond, Timeout: 5 * time.Second}, zerowrap.Default())

	require.NoError(t, svc.WaitHealthy(context.Background(), testRoute()))
}

func TestService_WaitHealthy_DeadlineExpires(t *testing.T) {
	prober := mocks.NewMockHTTPProber(t)
	prober.EXPECT().Probe(mock.Anything, mock.Anything, mock.Anything).
		Return(http.StatusServiceUnavailable, int64(1), nil)

	svc := NewService(prober, Config{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}, zerowrap.Default())

	err := svc.WaitHealthy(context.Background(), testRoute())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnhealthy)
	assert.Contains(t, err.Error(), "vllm-qwen")
}

func TestService_WaitHealthy_CallerCancelled(t *testing.T) {
	prober := mocks.NewMockHTTPProber(t)
	prober.EXPECT().Probe(mock.Anything, mock.Anything, mock.Anything).
		Return(0, int64(0), errors.New("connection refused"))

	svc := NewService(prober, Config{Interval: 5 * time.Millisecond, Timeout: time.Minute}, zerowrap.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := svc.WaitHealthy(ctx, testRoute())

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrBackendUnhealthy)
}

func TestService_WaitHealthy_InjectsAuthorization(t *testing.T) {
	prober := mocks.NewMockHTTPProber(t)
	prober.EXPECT().
		Probe(mock.Anything, "http://10.0.0.5:8000/v1/models", mock.MatchedBy(func(h http.Header) bool {
			return h.Get("Authorization") == "Bearer sk-local"
		})).
		Return(http.StatusOK, int64(1), nil).Once()

	svc := NewService(prober, Config{APIKey: "sk-local", BackendHost: "10.0.0.5"}, zerowrap.Default())

	require.NoError(t, svc.WaitHealthy(context.Background(), testRoute()))
}

func TestService_WaitHealthy_PassthroughSkipsAuthorization(t *testing.T) {
	prober := mocks.NewMockHTTPProber(t)
	prober.EXPECT().
		Probe(mock.Anything, "http://sdxl:7860/healthz", mock.MatchedBy(func(h http.Header) bool {
			return h.Get("Authorization") == ""
		})).
		Return(http.StatusNoContent, int64(1), nil).Once()

	svc := NewService(prober, Config{APIKey: "sk-local"}, zerowrap.Default())
	route := domain.Route{
		Key:           "sdxl",
		ContainerName: "sdxl",
		Port:          7860,
		HealthPath:    "/healthz",
		AuthMode:      domain.AuthModePassthrough,
	}

	require.NoError(t, svc.WaitHealthy(context.Background(), route))
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(nil, Config{}, zerowrap.Default())

	assert.Equal(t, DefaultInterval, svc.cfg.Interval)
	assert.Equal(t, DefaultTimeout, svc.cfg.Timeout)
}
