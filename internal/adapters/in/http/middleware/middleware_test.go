package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/out/ratelimit"
)

func TestClientIP(t *testing.T) {
	trusted := ParseTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "not-an-ip"})

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		trusted    TrustedProxies
		want       string
	}{
		{"direct", "192.168.1.7:5555", "", "", trusted, "192.168.1.7"},
		{"spoofed xff from untrusted peer", "192.168.1.7:5555", "1.2.3.4", "", trusted, "192.168.1.7"},
		{"xff from trusted peer", "10.1.2.3:80", "1.2.3.4, 10.1.2.3", "", trusted, "1.2.3.4"},
		{"x-real-ip from trusted peer", "127.0.0.1:80", "", "5.6.7.8", trusted, "5.6.7.8"},
		{"no trusted proxies", "127.0.0.1:80", "1.2.3.4", "", nil, "127.0.0.1"},
		{"remote without port", "10.0.0.1", "9.9.9.9", "", trusted, "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, ClientIP(r, tt.trusted))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	p := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.0.1 ", "::1", "garbage"})

	require.Len(t, p, 3)
	assert.True(t, p.Contains("10.200.0.1"))
	assert.True(t, p.Contains("192.168.0.1"))
	assert.False(t, p.Contains("192.168.0.2"))
	assert.True(t, p.Contains("::1"))
	assert.False(t, p.Contains(""))
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var seen string
	h := RequestLogger(zerowrap.New(zerowrap.Config{Level: "warn"}), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
		log := zerowrap.FromCtx(r.Context())
		log.Debug().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/qwen/v1/models", nil))

	id := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	h := RequestLogger(zerowrap.Default(), nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	_, _ = rw.Write([]byte("hi"))
	rw.WriteHeader(http.StatusBadGateway)

	assert.Equal(t, http.StatusOK, rw.StatusCode())
	assert.Equal(t, 2, rw.BytesWritten())
	assert.Same(t, rec, rw.Unwrap())
}

func TestPanicRecovery(t *testing.T) {
	h := PanicRecovery(zerowrap.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, rec.Body.String())
}

func TestPanicRecovery_ReraisesAbort(t *testing.T) {
	h := PanicRecovery(zerowrap.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestPanicRecovery_AbortsAfterHeaders(t *testing.T) {
	inner := Chain(RequestLogger(zerowrap.Default(), nil), PanicRecovery(zerowrap.Default()))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			panic("late")
		}),
	)
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		inner.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(mw("a"), mw("b"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestRateLimit_PerClient(t *testing.T) {
	perIP := ratelimit.NewMemoryStore(0.001, 1, zerowrap.Default())
	h := RateLimit(nil, perIP, nil, zerowrap.Default())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1000").Code)
	limited := do("10.0.0.1:1001")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate_limited"}`, limited.Body.String())

	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1000").Code, "other clients keep their own budget")
}

func TestRateLimit_Global(t *testing.T) {
	global := ratelimit.NewMemoryStore(0.001, 1, zerowrap.Default())
	h := RateLimit(global, nil, nil, zerowrap.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	h := RateLimit(nil, nil, nil, zerowrap.Default())(next)

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
