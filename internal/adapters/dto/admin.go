package dto

import "time"

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Docker  string `json:"docker"`
	Version string `json:"docker_version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Route describes one configured route.
type Route struct {
	Key        string   `json:"key" yaml:"key"`
	Container  string   `json:"container" yaml:"container"`
	Port       int      `json:"port" yaml:"port"`
	HealthPath string   `json:"health_path" yaml:"health_path"`
	Auth       string   `json:"auth" yaml:"auth"`
	Models     []string `json:"models" yaml:"models"`
}

// Model is one row of the model index.
type Model struct {
	ID      string `json:"id" yaml:"id"`
	Route   string `json:"route" yaml:"route"`
	OwnedBy string `json:"owned_by" yaml:"owned_by"`
}

// RoutesResponse is returned by GET /routes.
type RoutesResponse struct {
	Routes []Route `json:"routes" yaml:"routes"`
	Models []Model `json:"models" yaml:"models"`
}

// StartMetrics mirrors domain.StartMetrics with an average added.
type StartMetrics struct {
	StartCount        int64     `json:"start_count"`
	TotalDurationMs   int64     `json:"total_duration_ms"`
	LastDurationMs    int64     `json:"last_duration_ms"`
	AverageDurationMs int64     `json:"average_duration_ms"`
	LastStartedAt     time.Time `json:"last_started_at"`
}

// StatsResponse is returned by GET /stats.
type StatsResponse struct {
	Running      []string                `json:"running"`
	LastHits     map[string]time.Time    `json:"last_hits"`
	StartMetrics map[string]StartMetrics `json:"start_metrics"`
	IdleTimeout  string                  `json:"idle_timeout,omitempty"`
}
