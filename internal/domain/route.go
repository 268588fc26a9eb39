package domain

import (
	"net"
	"strconv"
	"strings"
)

// AuthMode controls how the Authorization header is handled for a route.
type AuthMode string

const (
	// AuthModeInject adds the launcher's API key when the client sent none.
	AuthModeInject AuthMode = "inject"
	// AuthModePassthrough forwards client headers untouched.
	AuthModePassthrough AuthMode = "passthrough"
)

// DefaultHealthPath is probed when a route does not declare one.
const DefaultHealthPath = "/v1/models"

// ParseAuthMode normalizes a configured auth mode. Empty means inject.
func ParseAuthMode(s string) (AuthMode, bool) {
	switch AuthMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AuthModeInject:
		return AuthModeInject, true
	case AuthModePassthrough:
		return AuthModePassthrough, true
	default:
		return "", false
	}
}

// Route maps a URL prefix and a set of model ids to one backend container.
// Routes are built once at startup and never mutated.
type Route struct {
	Key           string
	ContainerName string
	Port          int
	HealthPath    string
	AuthMode      AuthMode
	ModelIDs      []string
}

// InjectsAuth reports whether requests to this route get the launcher's credentials.
func (r Route) InjectsAuth() bool {
	return r.AuthMode != AuthModePassthrough
}

// EffectiveHealthPath returns the configured health path or DefaultHealthPath.
func (r Route) EffectiveHealthPath() string {
	if r.HealthPath == "" {
		return DefaultHealthPath
	}
	return r.HealthPath
}

// ModelEntry is one row of the model listing.
type ModelEntry struct {
	ID      string
	Route   string
	OwnedBy string
}

// BaseURL returns the backend origin for the route. host overrides the
// container name when the launcher does not share a network with its backends.
func (r Route) BaseURL(host string) string {
	if host == "" {
		host = r.ContainerName
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(r.Port))
}
