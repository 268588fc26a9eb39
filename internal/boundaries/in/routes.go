package in

import "github.com/johnmschoonover/multi-llm-hosting/internal/domain"

// RouteCatalog answers route and model lookups. It is immutable after load.
type RouteCatalog interface {
	// Route looks up a route by its lower-case key.
	Route(key string) (domain.Route, bool)

	// Routes returns every route sorted by key.
	Routes() []domain.Route

	// ResolveModel maps a model id to the route serving it.
	ResolveModel(id string) (domain.Route, bool)

	// Models returns the model listing sorted by id.
	Models() []domain.ModelEntry

	// Tracked returns the distinct container names of all routes.
	Tracked() []string
}
