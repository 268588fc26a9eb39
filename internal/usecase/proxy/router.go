package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

// resolvePrefix splits "/{routeKey}/rest" and looks the key up. The
// remainder keeps its original escaping and is "/" when empty.
func (s *Service) resolvePrefix(u *url.URL) (domain.Route, *url.URL, error) {
	escaped := strings.TrimPrefix(u.EscapedPath(), "/")
	key, rest, _ := strings.Cut(escaped, "/")
	rest = "/" + rest

	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	key = strings.ToLower(key)

	route, ok := s.catalog.Route(key)
	if !ok || key == "" {
		return domain.Route{}, nil, fmt.Errorf("%w: %q", domain.ErrRouteNotFound, key)
	}

	path, err := url.PathUnescape(rest)
	if err != nil {
		path = rest
	}
	out := &url.URL{Path: path, RawQuery: u.RawQuery}
	if path != rest {
		out.RawPath = rest
	}
	return route, out, nil
}

// resolveModel looks a model id up in the index.
func (s *Service) resolveModel(id string) (domain.Route, error) {
	route, ok := s.catalog.ResolveModel(id)
	if !ok {
		return domain.Route{}, fmt.Errorf("%w: %s", domain.ErrUnknownModel, id)
	}
	return route, nil
}

// activate makes route's backend the running one and then records the hit.
// The hit is only recorded once the backend is known to be up.
func (s *Service) activate(ctx context.Context, route domain.Route) error {
	if err := s.exclusive.Ensure(ctx, route); err != nil {
		return err
	}
	s.store.TouchLastHit(route.ContainerName, s.now())
	return nil
}

// applyAuth injects the launcher's bearer token when the route allows it and
// the client sent no credentials of its own.
func (s *Service) applyAuth(h http.Header, route domain.Route) {
	if !route.InjectsAuth() || s.config.APIKey == "" {
		return
	}
	if h.Get("Authorization") == "" {
		h.Set("Authorization", "Bearer "+s.config.APIKey)
	}
}

func (s *Service) logFor(r *http.Request) zerowrap.Logger {
	return zerowrap.FromCtx(r.Context())
}
