package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "")

	cfg := LoadFromEnv()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "stackfold", cfg.ServiceName)
	assert.Equal(t, "grpc", cfg.Protocol)
}

func TestLoadFromEnv_Enabled(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "TRUE")
	t.Setenv("OTEL_SERVICE_NAME", "stackfold-ci")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4317")

	cfg := LoadFromEnv()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "stackfold-ci", cfg.ServiceName)
	assert.Equal(t, "http://collector:4317", cfg.Endpoint)
}

func TestParseKeyValuePairs(t *testing.T) {
	pairs := parseKeyValuePairs("Authorization=Bearer abc=def, env=prod ,,bad")

	assert.Equal(t, "Bearer abc=def", pairs["Authorization"])
	assert.Equal(t, "prod", pairs["env"])
	assert.NotContains(t, pairs, "bad")
}

func TestParseKeyValuePairs_Empty(t *testing.T) {
	assert.Empty(t, parseKeyValuePairs(""))
}
