package routeconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/zerowrap"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

func viperFromYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(doc)))
	return v
}

func TestLoad_Environment(t *testing.T) {
	routes, err := Load(Source{Environ: []string{
		"PATH=/usr/bin",
		"ROUTE_QWEN_CONTAINER=vllm-qwen",
		"ROUTE_QWEN_PORT=8000/tcp",
		"ROUTE_QWEN_MODELS=chat-general, qwen2.5-7b ,",
		"ROUTE_SDXL_CONTAINER=sdxl",
		"ROUTE_SDXL_PORT=7860",
		"ROUTE_SDXL_HEALTH_PATH=/healthz",
		"ROUTE_SDXL_AUTH=passthrough",
	}}, zerowrap.Default())

	require.NoError(t, err)
	assert.Equal(t, []domain.Route{
		{
			Key: "qwen", ContainerName: "vllm-qwen", Port: 8000,
			AuthMode: domain.AuthModeInject, ModelIDs: []string{"chat-general", "qwen2.5-7b"},
		},
		{
			Key: "sdxl", ContainerName: "sdxl", Port: 7860,
			HealthPath: "/healthz", AuthMode: domain.AuthModePassthrough,
		},
	}, routes)
}

func TestLoad_KeyNormalization(t *testing.T) {
	routes, err := Load(Source{Environ: []string{
		"ROUTE_QWEN_CODER_CONTAINER=coder",
		"ROUTE_QWEN_CODER_PORT=8001",
		"ROUTE_QWEN_CODER_HEALTH_PATH=/health",
	}}, zerowrap.Default())

	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "qwen-coder", routes[0].Key)
	assert.Equal(t, "/health", routes[0].HealthPath)
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	v := viperFromYAML(t, `
routes:
  - key: Qwen
    container: vllm-qwen
    port: 8000
    models: [chat-general]
  - key: flux
    container: flux
    port: "7000/tcp"
    health_path: /healthz
    auth: passthrough
`)

	routes, err := Load(Source{
		Viper: v,
		Environ: []string{
			"ROUTE_QWEN_PORT=9000",
			"ROUTE_ALPHA_CONTAINER=alpha",
			"ROUTE_ALPHA_PORT=8100",
		},
	}, zerowrap.Default())

	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, "qwen", routes[0].Key)
	assert.Equal(t, 9000, routes[0].Port, "environment wins")
	assert.Equal(t, []string{"chat-general"}, routes[0].ModelIDs, "untouched fields keep file values")

	assert.Equal(t, "flux", routes[1].Key)
	assert.Equal(t, 7000, routes[1].Port)
	assert.Equal(t, domain.AuthModePassthrough, routes[1].AuthMode)

	assert.Equal(t, "alpha", routes[2].Key, "environment-only routes come after file routes")
}

func TestLoad_DotenvUnderProcessEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"# backends\n"+
			"ROUTE_QWEN_CONTAINER=vllm-qwen\n"+
			"ROUTE_QWEN_PORT=8000\n"+
			"ROUTE_QWEN_MODELS=\"chat-general,coder\"\n",
	), 0o600))

	routes, err := Load(Source{
		DotenvPath: path,
		Environ:    []string{"ROUTE_QWEN_PORT=8080"},
	}, zerowrap.Default())

	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, 8080, routes[0].Port)
	assert.Equal(t, []string{"chat-general", "coder"}, routes[0].ModelIDs)
}

func TestLoad_MissingDotenvIsFine(t *testing.T) {
	routes, err := Load(Source{DotenvPath: filepath.Join(t.TempDir(), "absent.env")}, zerowrap.Default())

	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		want    string
	}{
		{"reserved key", []string{"ROUTE_STATS_CONTAINER=x", "ROUTE_STATS_PORT=1"}, "reserved"},
		{"reserved openai", []string{"ROUTE_OPENAI_CONTAINER=x", "ROUTE_OPENAI_PORT=1"}, "reserved"},
		{"no container", []string{"ROUTE_QWEN_PORT=8000"}, "no container"},
		{"no port", []string{"ROUTE_QWEN_CONTAINER=q"}, "missing port"},
		{"udp port", []string{"ROUTE_QWEN_CONTAINER=q", "ROUTE_QWEN_PORT=8000/udp"}, "only tcp"},
		{"port out of range", []string{"ROUTE_QWEN_CONTAINER=q", "ROUTE_QWEN_PORT=70000"}, "70000"},
		{"port zero", []string{"ROUTE_QWEN_CONTAINER=q", "ROUTE_QWEN_PORT=0"}, "between 1 and 65535"},
		{"bad auth", []string{"ROUTE_QWEN_CONTAINER=q", "ROUTE_QWEN_PORT=1", "ROUTE_QWEN_AUTH=basic"}, "auth mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Source{Environ: tt.environ}, zerowrap.Default())

			require.ErrorIs(t, err, domain.ErrInvalidRoute)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_DuplicateFileKey(t *testing.T) {
	v := viperFromYAML(t, `
routes:
  - {key: qwen, container: a, port: 1}
  - {key: QWEN, container: b, port: 2}
`)

	_, err := Load(Source{Viper: v}, zerowrap.Default())

	require.ErrorIs(t, err, domain.ErrInvalidRoute)
}

func TestSplitEnvKey(t *testing.T) {
	tests := []struct {
		in    string
		key   string
		field string
		ok    bool
	}{
		{"ROUTE_QWEN_HEALTH_PATH", "qwen", "_HEALTH_PATH", true},
		{"ROUTE_A_B_PORT", "a-b", "_PORT", true},
		{"ROUTE__PORT", "", "", false},
		{"ROUTE_QWEN_COLOR", "", "", false},
		{"LAUNCHER_API_KEY", "", "", false},
	}
	for _, tt := range tests {
		key, field, ok := splitEnvKey(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.key, key, tt.in)
		assert.Equal(t, tt.field, field, tt.in)
	}
}
