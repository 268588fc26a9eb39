// Package routeconfig loads route definitions from environment-style
// key/value input and the config file.
//
// Environment form, one group per route:
//
//	ROUTE_QWEN_CONTAINER=vllm-qwen
//	ROUTE_QWEN_PORT=8000/tcp
//	ROUTE_QWEN_HEALTH_PATH=/v1/models
//	ROUTE_QWEN_AUTH=inject
//	ROUTE_QWEN_MODELS=chat-general,qwen2.5-7b
//
// The key segment is lower-cased and underscores become hyphens, so
// ROUTE_QWEN_CODER_PORT configures route "qwen-coder".
package routeconfig

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bnema/zerowrap"
	"github.com/docker/go-connections/nat"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

const envPrefix = "ROUTE_"

// Field suffixes, longest first so HEALTH_PATH is not read as a key ending
// in _HEALTH.
var fieldSuffixes = []string{"_HEALTH_PATH", "_CONTAINER", "_MODELS", "_PORT", "_AUTH"}

// reservedKeys collide with the launcher's own endpoints or API prefixes.
var reservedKeys = map[string]struct{}{
	"healthz": {},
	"routes":  {},
	"stats":   {},
	"metrics": {},
	"v1":      {},
	"openai":  {},
}

// Source names where routes come from. Every field is optional.
type Source struct {
	// Environ is KEY=VALUE pairs, normally os.Environ().
	Environ []string
	// DotenvPath is read with godotenv; process variables win over it.
	DotenvPath string
	// Viper supplies the "routes" list of the config file.
	Viper *viper.Viper
}

// fileRoute is one entry of the config file's "routes" list.
type fileRoute struct {
	Key        string   `mapstructure:"key"`
	Container  string   `mapstructure:"container"`
	Port       string   `mapstructure:"port"`
	HealthPath string   `mapstructure:"health_path"`
	Auth       string   `mapstructure:"auth"`
	Models     []string `mapstructure:"models"`
}

// partial collects the raw fields of one route before validation.
type partial struct {
	key, container, port, healthPath, auth string
	models                                 []string
	hasModels                              bool
}

// Load merges routes from the config file and the environment. Routes keep
// file order, then environment-only routes follow sorted by key. For a key
// defined in both places, each field set in the environment overrides the
// file's value.
func Load(src Source, log zerowrap.Logger) ([]domain.Route, error) {
	ctx := zerowrap.CtxWithFields(zerowrap.WithCtx(context.Background(), log), map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "routeconfig",
	})
	log = zerowrap.FromCtx(ctx)

	var order []string
	parts := make(map[string]*partial)

	if src.Viper != nil {
		var entries []fileRoute
		if err := src.Viper.UnmarshalKey("routes", &entries); err != nil {
			return nil, fmt.Errorf("%w: routes: %w", domain.ErrInvalidConfig, err)
		}
		for i, e := range entries {
			key := normalizeKey(e.Key)
			if key == "" {
				return nil, fmt.Errorf("%w: routes[%d] has no key", domain.ErrInvalidRoute, i)
			}
			if _, dup := parts[key]; dup {
				return nil, fmt.Errorf("%w: duplicate route key %q in config file", domain.ErrInvalidRoute, key)
			}
			parts[key] = &partial{
				key:        key,
				container:  e.Container,
				port:       e.Port,
				healthPath: e.HealthPath,
				auth:       e.Auth,
				models:     e.Models,
				hasModels:  e.Models != nil,
			}
			order = append(order, key)
		}
	}

	env, err := environment(src, log)
	if err != nil {
		return nil, err
	}

	var envOnly []string
	for name, value := range env {
		key, field, ok := splitEnvKey(name)
		if !ok {
			continue
		}
		p, exists := parts[key]
		if !exists {
			p = &partial{key: key}
			parts[key] = p
			envOnly = append(envOnly, key)
		}
		applyField(p, field, value)
	}
	slices.Sort(envOnly)
	order = append(order, envOnly...)

	routes := make([]domain.Route, 0, len(order))
	for _, key := range order {
		r, err := build(parts[key])
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}

	log.Debug().Int("routes", len(routes)).Msg("route configuration loaded")
	return routes, nil
}

// environment returns the dotenv file overlaid with Environ.
func environment(src Source, log zerowrap.Logger) (map[string]string, error) {
	env := make(map[string]string)

	if src.DotenvPath != "" {
		fileEnv, err := godotenv.Read(src.DotenvPath)
		switch {
		case err == nil:
			for k, v := range fileEnv {
				env[k] = v
			}
			log.Debug().Str("path", src.DotenvPath).Int("keys", len(fileEnv)).Msg("loaded dotenv file")
		case os.IsNotExist(err):
			log.Debug().Str("path", src.DotenvPath).Msg("no dotenv file")
		default:
			return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrInvalidConfig, src.DotenvPath, err)
		}
	}

	for _, kv := range src.Environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}
	return env, nil
}

// splitEnvKey turns ROUTE_QWEN_CODER_PORT into ("qwen-coder", "_PORT").
func splitEnvKey(name string) (key, field string, ok bool) {
	rest, found := strings.CutPrefix(name, envPrefix)
	if !found {
		return "", "", false
	}
	for _, suffix := range fieldSuffixes {
		if k, found := strings.CutSuffix(rest, suffix); found && k != "" {
			return normalizeKey(strings.ReplaceAll(k, "_", "-")), suffix, true
		}
	}
	return "", "", false
}

func applyField(p *partial, field, value string) {
	switch field {
	case "_CONTAINER":
		p.container = value
	case "_PORT":
		p.port = value
	case "_HEALTH_PATH":
		p.healthPath = value
	case "_AUTH":
		p.auth = value
	case "_MODELS":
		p.models = splitList(value)
		p.hasModels = true
	}
}

func build(p *partial) (domain.Route, error) {
	if _, reserved := reservedKeys[p.key]; reserved {
		return domain.Route{}, fmt.Errorf("%w: route key %q is reserved", domain.ErrInvalidRoute, p.key)
	}

	container := strings.TrimSpace(p.container)
	if container == "" {
		return domain.Route{}, fmt.Errorf("%w: route %q has no container", domain.ErrInvalidRoute, p.key)
	}

	port, err := parsePort(p.port)
	if err != nil {
		return domain.Route{}, fmt.Errorf("%w: route %q: %w", domain.ErrInvalidRoute, p.key, err)
	}

	auth, ok := domain.ParseAuthMode(p.auth)
	if !ok {
		return domain.Route{}, fmt.Errorf("%w: route %q has unknown auth mode %q", domain.ErrInvalidRoute, p.key, p.auth)
	}

	r := domain.Route{
		Key:           p.key,
		ContainerName: container,
		Port:          port,
		HealthPath:    strings.TrimSpace(p.healthPath),
		AuthMode:      auth,
	}
	if p.hasModels {
		r.ModelIDs = cleanList(p.models)
	}
	return r, nil
}

// parsePort accepts "8000" and "8000/tcp".
func parsePort(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("missing port")
	}
	proto, port := nat.SplitProtoPort(raw)
	if !strings.EqualFold(proto, "tcp") {
		return 0, fmt.Errorf("port %q: only tcp is supported", raw)
	}
	n, err := nat.ParsePort(port)
	if err != nil {
		return 0, fmt.Errorf("port %q: %w", raw, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("port %q: must be between 1 and 65535", raw)
	}
	return n, nil
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func splitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
