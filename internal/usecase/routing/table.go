// Package routing holds the immutable route table and the model index
// derived from it.
package routing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/in"
	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

// Ensure Table implements in.RouteCatalog.
var _ in.RouteCatalog = (*Table)(nil)

// Table is built once at startup and only read afterwards, so it needs no
// locking.
type Table struct {
	routes  map[string]domain.Route
	models  map[string]string // model id -> route key
	listing []domain.ModelEntry
	tracked []string
}

// NewTable validates routes and builds the model index. Routes are indexed
// in slice order: when two routes claim the same model id the later one
// wins and a warning is logged.
func NewTable(routes []domain.Route, log zerowrap.Logger) (*Table, error) {
	t := &Table{
		routes: make(map[string]domain.Route, len(routes)),
		models: make(map[string]string),
	}

	seenContainers := make(map[string]struct{})
	for _, r := range routes {
		r.Key = strings.ToLower(r.Key)
		if err := validate(r); err != nil {
			return nil, err
		}
		if _, dup := t.routes[r.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate route key %q", domain.ErrInvalidRoute, r.Key)
		}
		t.routes[r.Key] = r

		if _, seen := seenContainers[r.ContainerName]; !seen {
			seenContainers[r.ContainerName] = struct{}{}
			t.tracked = append(t.tracked, r.ContainerName)
		}

		for _, id := range ModelIDs(r) {
			if prev, taken := t.models[id]; taken && prev != r.Key {
				log.Warn().
					Str("model", id).
					Str("previous_route", prev).
					Str("route", r.Key).
					Msg("model id claimed by more than one route, last one wins")
			}
			t.models[id] = r.Key
		}
	}
	slices.Sort(t.tracked)

	for id, key := range t.models {
		t.listing = append(t.listing, domain.ModelEntry{
			ID:      id,
			Route:   key,
			OwnedBy: t.routes[key].ContainerName,
		})
	}
	slices.SortFunc(t.listing, func(a, b domain.ModelEntry) int { return strings.Compare(a.ID, b.ID) })

	return t, nil
}

// ModelIDs returns the ids a route answers to: its explicit list, else its
// container name, else its key.
func ModelIDs(r domain.Route) []string {
	var ids []string
	for _, id := range r.ModelIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	if r.ContainerName != "" {
		return []string{r.ContainerName}
	}
	return []string{r.Key}
}

func validate(r domain.Route) error {
	switch {
	case r.Key == "":
		return fmt.Errorf("%w: empty route key", domain.ErrInvalidRoute)
	case strings.ContainsAny(r.Key, "/ "):
		return fmt.Errorf("%w: route key %q must be a single path segment", domain.ErrInvalidRoute, r.Key)
	case r.ContainerName == "":
		return fmt.Errorf("%w: route %q has no container", domain.ErrInvalidRoute, r.Key)
	case r.Port <= 0 || r.Port > 65535:
		return fmt.Errorf("%w: route %q has invalid port %d", domain.ErrInvalidRoute, r.Key, r.Port)
	case r.HealthPath != "" && !strings.HasPrefix(r.HealthPath, "/"):
		return fmt.Errorf("%w: route %q health path must start with /", domain.ErrInvalidRoute, r.Key)
	}
	return nil
}

// Route looks a route up by key, case-insensitively.
func (t *Table) Route(key string) (domain.Route, bool) {
	r, ok := t.routes[strings.ToLower(key)]
	return r, ok
}

// Routes returns every route sorted by key.
func (t *Table) Routes() []domain.Route {
	out := make([]domain.Route, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b domain.Route) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// ResolveModel maps a model id to its route. Ids are matched exactly.
func (t *Table) ResolveModel(id string) (domain.Route, bool) {
	key, ok := t.models[id]
	if !ok {
		return domain.Route{}, false
	}
	return t.routes[key], true
}

// Models returns the model listing sorted by id.
func (t *Table) Models() []domain.ModelEntry {
	return slices.Clone(t.listing)
}

// Tracked returns the distinct container names, sorted.
func (t *Table) Tracked() []string {
	return slices.Clone(t.tracked)
}
