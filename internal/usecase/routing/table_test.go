package routing

import (
	"testing"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

func sampleRoutes() []domain.Route {
	return []domain.Route{
		{Key: "Qwen", ContainerName: "vllm-qwen", Port: 8000, ModelIDs: []string{"chat-general", "qwen2.5-7b"}},
		{Key: "coder", ContainerName: "vllm-coder", Port: 8000},
		{Key: "sdxl", ContainerName: "sdxl", Port: 7860, HealthPath: "/healthz", AuthMode: domain.AuthModePassthrough},
	}
}

func TestNewTable_RoutesAndTracked(t *testing.T) {
	table, err := NewTable(sampleRoutes(), zerowrap.Default())
	require.NoError(t, err)

	r, ok := table.Route("QWEN")
	require.True(t, ok)
	assert.Equal(t, "qwen", r.Key)
	assert.Equal(t, "vllm-qwen", r.ContainerName)

	_, ok = table.Route("missing")
	assert.False(t, ok)

	keys := []string{}
	for _, r := range table.Routes() {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"coder", "qwen", "sdxl"}, keys)
	assert.Equal(t, []string{"sdxl", "vllm-coder", "vllm-qwen"}, table.Tracked())
}

func TestNewTable_ModelIndexFallbacks(t *testing.T) {
	table, err := NewTable(sampleRoutes(), zerowrap.Default())
	require.NoError(t, err)

	r, ok := table.ResolveModel("chat-general")
	require.True(t, ok)
	assert.Equal(t, "qwen", r.Key)

	// No explicit ids: container name is the model id.
	r, ok = table.ResolveModel("vllm-coder")
	require.True(t, ok)
	assert.Equal(t, "coder", r.Key)

	_, ok = table.ResolveModel("missing")
	assert.False(t, ok)

	assert.Equal(t, []domain.ModelEntry{
		{ID: "chat-general", Route: "qwen", OwnedBy: "vllm-qwen"},
		{ID: "qwen2.5-7b", Route: "qwen", OwnedBy: "vllm-qwen"},
		{ID: "sdxl", Route: "sdxl", OwnedBy: "sdxl"},
		{ID: "vllm-coder", Route: "coder", OwnedBy: "vllm-coder"},
	}, table.Models())
}

func TestModelIDs_FallsBackToKey(t *testing.T) {
	assert.Equal(t, []string{"solo"}, ModelIDs(domain.Route{Key: "solo"}))
	assert.Equal(t, []string{"a", "b"}, ModelIDs(domain.Route{Key: "k", ModelIDs: []string{" a ", "", "b"}}))
}

func TestNewTable_ModelCollisionLastWriteWins(t *testing.T) {
	table, err := NewTable([]domain.Route{
		{Key: "first", ContainerName: "c1", Port: 1, ModelIDs: []string{"shared"}},
		{Key: "second", ContainerName: "c2", Port: 2, ModelIDs: []string{"shared"}},
	}, zerowrap.Default())
	require.NoError(t, err)

	r, ok := table.ResolveModel("shared")
	require.True(t, ok)
	assert.Equal(t, "second", r.Key)
	assert.Len(t, table.Models(), 1)
}

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name  string
		route domain.Route
	}{
		{"empty key", domain.Route{ContainerName: "c", Port: 1}},
		{"slash in key", domain.Route{Key: "a/b", ContainerName: "c", Port: 1}},
		{"no container", domain.Route{Key: "a", Port: 1}},
		{"bad port", domain.Route{Key: "a", ContainerName: "c", Port: 70000}},
		{"relative health path", domain.Route{Key: "a", ContainerName: "c", Port: 1, HealthPath: "health"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable([]domain.Route{tt.route}, zerowrap.Default())
			assert.ErrorIs(t, err, domain.ErrInvalidRoute)
		})
	}

	_, err := NewTable([]domain.Route{
		{Key: "a", ContainerName: "c", Port: 1},
		{Key: "A", ContainerName: "d", Port: 2},
	}, zerowrap.Default())
	assert.ErrorIs(t, err, domain.ErrInvalidRoute)
}

func TestTable_ReturnsCopies(t *testing.T) {
	table, err := NewTable(sampleRoutes(), zerowrap.Default())
	require.NoError(t, err)

	models := table.Models()
	models[0].ID = "mutated"
	tracked := table.Tracked()
	tracked[0] = "mutated"

	assert.NotEqual(t, "mutated", table.Models()[0].ID)
	assert.NotEqual(t, "mutated", table.Tracked()[0])
}
