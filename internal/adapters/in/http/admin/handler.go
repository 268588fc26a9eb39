// Package admin implements the HTTP adapter for the launcher's own endpoints.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/dto"
	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/in"
	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

// Paths served by the admin handler. Route keys may not collide with them.
const (
	PathHealth  = "/healthz"
	PathRoutes  = "/routes"
	PathStats   = "/stats"
	PathMetrics = "/metrics"
)

// engineCheckTimeout bounds the Docker ping behind /healthz.
const engineCheckTimeout = 3 * time.Second

// EngineChecker reports whether the container engine is reachable.
type EngineChecker interface {
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
}

// Handler implements the HTTP handler for the admin endpoints.
type Handler struct {
	catalog     in.RouteCatalog
	exclusive   in.ExclusivityService
	engine      EngineChecker
	metrics     http.Handler
	idleTimeout time.Duration
	log         zerowrap.Logger
}

// NewHandler creates a new admin HTTP handler. metrics may be nil, in which
// case /metrics answers 404.
func NewHandler(
	catalog in.RouteCatalog,
	exclusive in.ExclusivityService,
	engine EngineChecker,
	metrics http.Handler,
	idleTimeout time.Duration,
	log zerowrap.Logger,
) *Handler {
	return &Handler{
		catalog:     catalog,
		exclusive:   exclusive,
		engine:      engine,
		metrics:     metrics,
		idleTimeout: idleTimeout,
		log:         log,
	}
}

// Owns reports whether path belongs to the admin surface.
func Owns(path string) bool {
	switch path {
	case PathHealth, PathRoutes, PathStats, PathMetrics:
		return true
	}
	return false
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := zerowrap.CtxWithFields(r.Context(), map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "http",
		zerowrap.FieldMethod:  r.Method,
		zerowrap.FieldPath:    r.URL.Path,
	})
	r = r.WithContext(ctx)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}

	switch r.URL.Path {
	case PathHealth:
		h.handleHealth(w, r)
	case PathRoutes:
		h.handleRoutes(w, r)
	case PathStats:
		h.handleStats(w, r)
	case PathMetrics:
		if h.metrics == nil {
			h.sendError(w, http.StatusNotFound, "metrics_disabled")
			return
		}
		h.metrics.ServeHTTP(w, r)
	default:
		h.sendError(w, http.StatusNotFound, "not_found")
	}
}

// sendJSON sends a JSON response.
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// sendError sends an error response.
func (h *Handler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, dto.ErrorResponse{Error: message})
}

// handleHealth answers 200 while the process is up and the container engine
// responds, 503 otherwise.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), engineCheckTimeout)
	defer cancel()

	if err := h.engine.Ping(ctx); err != nil {
		log := zerowrap.FromCtx(ctx)
		log.Warn().Err(err).Msg("container engine unreachable")
		h.sendJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{
			Status: "degraded",
			Docker: "unreachable",
			Error:  err.Error(),
		})
		return
	}

	resp := dto.HealthResponse{Status: "ok", Docker: "ok"}
	if v, err := h.engine.Version(ctx); err == nil {
		resp.Version = v
	}
	h.sendJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	h.sendJSON(w, http.StatusOK, RoutesResponse(h.catalog))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.exclusive.Stats(r.Context())
	if err != nil {
		log := zerowrap.FromCtx(r.Context())
		log.Error().Err(err).Msg("failed to collect stats")
		h.sendError(w, http.StatusBadGateway, "container_operation_failed")
		return
	}
	resp := StatsResponse(stats)
	if h.idleTimeout > 0 {
		resp.IdleTimeout = h.idleTimeout.String()
	}
	h.sendJSON(w, http.StatusOK, resp)
}

// RoutesResponse renders the catalog for /routes and the routes command.
func RoutesResponse(catalog in.RouteCatalog) dto.RoutesResponse {
	routes := catalog.Routes()
	resp := dto.RoutesResponse{
		Routes: make([]dto.Route, 0, len(routes)),
		Models: []dto.Model{},
	}
	for _, r := range routes {
		models := r.ModelIDs
		if models == nil {
			models = []string{}
		}
		resp.Routes = append(resp.Routes, dto.Route{
			Key:        r.Key,
			Container:  r.ContainerName,
			Port:       r.Port,
			HealthPath: r.EffectiveHealthPath(),
			Auth:       string(authMode(r)),
			Models:     models,
		})
	}
	for _, m := range catalog.Models() {
		resp.Models = append(resp.Models, dto.Model{ID: m.ID, Route: m.Route, OwnedBy: m.OwnedBy})
	}
	return resp
}

// StatsResponse converts a domain snapshot to its wire form.
func StatsResponse(stats *domain.Stats) dto.StatsResponse {
	resp := dto.StatsResponse{
		Running:      stats.Running,
		LastHits:     stats.LastHits,
		StartMetrics: make(map[string]dto.StartMetrics, len(stats.StartMetrics)),
	}
	if resp.Running == nil {
		resp.Running = []string{}
	}
	if resp.LastHits == nil {
		resp.LastHits = map[string]time.Time{}
	}
	for name, m := range stats.StartMetrics {
		resp.StartMetrics[name] = dto.StartMetrics{
			StartCount:        m.StartCount,
			TotalDurationMs:   m.TotalDurationMs,
			LastDurationMs:    m.LastDurationMs,
			AverageDurationMs: m.AverageDurationMs(),
			LastStartedAt:     m.LastStartedAt,
		}
	}
	return resp
}

func authMode(r domain.Route) domain.AuthMode {
	if r.AuthMode == "" {
		return domain.AuthModeInject
	}
	return r.AuthMode
}
