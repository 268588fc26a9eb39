// Package proxy implements the launcher's request path: it resolves a
// request to a route, makes that route's backend the active one and
// forwards the request to it.
package proxy

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/in"
	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
)

// Defaults for Config fields left zero.
const (
	DefaultMaxBodyBytes          = 16 << 20
	DefaultBodyTimeout           = 30 * time.Second
	DefaultResponseHeaderTimeout = 10 * time.Minute
)

// openAIPrefix is the optional namespace clients may put in front of the
// OpenAI-compatible endpoints. Backends only serve the bare /v1 paths.
const openAIPrefix = "/openai"

// Forwarding modes, used as metric and log labels.
const (
	modePassthrough = "passthrough"
	modeBuffered    = "buffered"
)

// Config holds configuration needed by the proxy service.
type Config struct {
	// APIKey is injected as a bearer token for routes in inject mode.
	APIKey string
	// BackendHost overrides the container name as the backend host.
	BackendHost string
	// MaxBodyBytes caps buffered request bodies.
	MaxBodyBytes int64
	// BodyTimeout bounds how long reading a buffered body may take.
	BodyTimeout time.Duration
	// ResponseHeaderTimeout bounds the wait for backend response headers.
	// Non-streaming completions can take minutes.
	ResponseHeaderTimeout time.Duration
}

// Service implements http.Handler for every non-admin request.
type Service struct {
	catalog   in.RouteCatalog
	exclusive in.ExclusivityService
	store     out.StateStore
	metrics   out.Metrics
	config    Config
	transport http.RoundTripper
	log       zerowrap.Logger
	now       func() time.Time
}

// NewService creates a new proxy service.
func NewService(
	catalog in.RouteCatalog,
	exclusive in.ExclusivityService,
	store out.StateStore,
	metrics out.Metrics,
	config Config,
	log zerowrap.Logger,
) *Service {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.BodyTimeout <= 0 {
		config.BodyTimeout = DefaultBodyTimeout
	}
	if config.ResponseHeaderTimeout <= 0 {
		config.ResponseHeaderTimeout = DefaultResponseHeaderTimeout
	}

	return &Service{
		catalog:   catalog,
		exclusive: exclusive,
		store:     store,
		metrics:   metrics,
		config:    config,
		transport: newTransport(config.ResponseHeaderTimeout),
		log:       log,
		now:       time.Now,
	}
}

// newTransport returns the shared backend transport. Backends are on the
// local host or network, so dials fail fast.
func newTransport(responseHeaderTimeout time.Duration) *http.Transport {
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: responseHeaderTimeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
	}
}

// ServeHTTP dispatches model listing, model-routed and prefix-routed requests.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := zerowrap.CtxWithFields(r.Context(), map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "Proxy",
		zerowrap.FieldMethod:   r.Method,
		zerowrap.FieldPath:     r.URL.Path,
		zerowrap.FieldClientIP: r.RemoteAddr,
	})
	r = r.WithContext(ctx)

	switch {
	case isModelListing(r):
		s.listModels(w, r)
	case isModelRouted(r):
		s.serveBuffered(w, r)
	default:
		s.servePassthrough(w, r)
	}
}

func isModelListing(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	p := strings.TrimSuffix(r.URL.Path, "/")
	return p == "/v1/models" || p == openAIPrefix+"/v1/models"
}

// isModelRouted reports whether the request names its backend through the
// JSON body rather than the path.
func isModelRouted(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	p := r.URL.Path
	return strings.HasPrefix(p, "/v1/") || strings.HasPrefix(p, openAIPrefix+"/v1/")
}

// backendPath maps an inbound model-routed path to the backend's native path.
func backendPath(p string) string {
	if strings.HasPrefix(p, openAIPrefix+"/") {
		return strings.TrimPrefix(p, openAIPrefix)
	}
	return p
}
