// Package httpprober sends single readiness requests to backend containers.
package httpprober

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
)

// DefaultTimeout bounds one probe request. The overall readiness deadline
// is enforced by the caller.
const DefaultTimeout = 5 * time.Second

// maxDrain is how much of a probe body is read so the connection can be reused.
const maxDrain = 64 << 10

// Ensure Prober implements out.HTTPProber.
var _ out.HTTPProber = (*Prober)(nil)

// Prober implements the HTTPProber port over net/http.
type Prober struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures the Prober.
type Option func(*Prober)

// WithTimeout sets the per-probe timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		p.timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent sent with every probe.
func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		p.userAgent = ua
	}
}

// New creates a new HTTP prober.
func New(opts ...Option) *Prober {
	p := &Prober{
		timeout:   DefaultTimeout,
		userAgent: "launcher-healthcheck/1.0",
	}

	for _, opt := range opts {
		opt(p)
	}

	p.client = &http.Client{
		Timeout: p.timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		},
		// Don't follow redirects - a redirect is not a ready backend
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return p
}

// Probe sends an HTTP GET request and returns the status code and response time.
func (p *Prober) Probe(ctx context.Context, url string, header http.Header) (int, int64, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		elapsed := time.Since(start).Milliseconds()
		return 0, elapsed, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	elapsed := time.Since(start).Milliseconds()
	return resp.StatusCode, elapsed, nil
}
