package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/http/middleware"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/out/ratelimit"
)

func tagHandler(tag string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Handler", tag)
		_, _ = io.WriteString(w, r.URL.Path)
	})
}

func TestRootHandler_Dispatch(t *testing.T) {
	h := newRootHandler(handlerDeps{
		admin: tagHandler("admin"),
		proxy: tagHandler("proxy"),
		log:   zerowrap.Default(),
	})

	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "admin"},
		{"/routes", "admin"},
		{"/stats", "admin"},
		{"/metrics", "admin"},
		{"/v1/models", "proxy"},
		{"/qwen/healthz", "proxy"},
		{"/qwen//v1/../models", "proxy"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, tt.path)
		assert.Equal(t, tt.want, rec.Header().Get("X-Handler"), tt.path)
		assert.Equal(t, tt.path, rec.Body.String(), "path reaches the handler uncleaned")
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	}
}

func TestRootHandler_RateLimitsAdminOnly(t *testing.T) {
	h := newRootHandler(handlerDeps{
		admin: tagHandler("admin"),
		proxy: tagHandler("proxy"),
		perIP: ratelimit.NewMemoryStore(0.001, 1, zerowrap.Default()),
		log:   zerowrap.Default(),
	})

	do := func(path string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/stats"))
	assert.Equal(t, http.StatusTooManyRequests, do("/stats"))
	assert.Equal(t, http.StatusOK, do("/qwen/v1/models"), "proxied traffic is not limited")
}

type recordedStates struct {
	mu     sync.Mutex
	states []string
}

func (r *recordedStates) notify(state string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *recordedStates) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.states...)
}

func TestServe_LifecycleAndNotify(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	states := &recordedStates{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, tagHandler("root"), serverConfig{
			ReadHeaderTimeout: time.Second,
			IdleTimeout:       time.Second,
			ShutdownTimeout:   time.Second,
		}, states.notify, zerowrap.Default())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.Header.Get("X-Handler") == "root"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}

	assert.Equal(t, []string{daemon.SdNotifyReady, daemon.SdNotifyStopping}, states.get())
}

func TestServe_DrainsInFlightRequests(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, "done")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, slow, serverConfig{ShutdownTimeout: 5 * time.Second}, func(string) {}, zerowrap.Default())
	}()

	type result struct {
		body string
		err  error
	}
	res := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			res <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		res <- result{body: string(b), err: err}
	}()

	<-started
	cancel()

	r := <-res
	require.NoError(t, r.err)
	assert.Equal(t, "done", r.body)
	require.NoError(t, <-done)
}
