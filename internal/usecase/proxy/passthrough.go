package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
	"github.com/johnmschoonover/multi-llm-hosting/internal/logging"
)

// servePassthrough handles "/{routeKey}/..." by streaming the request to
// the route's backend with the prefix removed.
func (s *Service) servePassthrough(w http.ResponseWriter, r *http.Request) {
	route, rest, err := s.resolvePrefix(r.URL)
	if err != nil {
		s.writeDomainError(w, r, err, codeProxyFailed)
		return
	}

	ctx := zerowrap.CtxWithFields(r.Context(), map[string]any{
		logging.FieldRoute:     route.Key,
		logging.FieldContainer: route.ContainerName,
	})
	r = r.WithContext(ctx)

	if err := s.activate(ctx, route); err != nil {
		s.writeDomainError(w, r, err, codeProxyFailed)
		return
	}

	targetURL, err := url.Parse(route.BaseURL(s.config.BackendHost))
	if err != nil {
		s.writeDomainError(w, r, err, codeProxyFailed)
		return
	}

	s.newReverseProxy(route, targetURL, rest).ServeHTTP(w, r)
}

// newReverseProxy uses Rewrite rather than Director so hop-by-hop headers
// are removed before Authorization is inspected; a client-sent
// "Connection: Authorization" cannot strip an injected token.
func (s *Service) newReverseProxy(route domain.Route, targetURL, rest *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = rest.Path
			pr.Out.URL.RawPath = rest.RawPath
			pr.SetURL(targetURL)
			pr.SetXForwarded()
			pr.Out.Host = targetURL.Host
			s.applyAuth(pr.Out.Header, route)
		},
		Transport: s.transport,
		// Flush immediately so server-sent events stream token by token.
		FlushInterval: -1,
		ModifyResponse: func(resp *http.Response) error {
			s.metrics.IncForward(modePassthrough, route.Key, resp.StatusCode)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log := s.logFor(r)
			log.Error().Err(err).Str("target", targetURL.String()).Msg("proxy error: backend request failed")
			s.writeDomainError(w, r, domain.ErrForwardFailed, codeProxyFailed)
		},
	}
}
