package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromReader_Defaults(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte(""))

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.History.Type)
	assert.Equal(t, "./stackfold-history.db", cfg.History.Path)
	assert.Equal(t, 2, cfg.Fold.HPLVersion)
	assert.Equal(t, "error", cfg.Fold.MissingTracePolicy)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.History.Enabled)
}

func TestLoadFromReader_Override(t *testing.T) {
	content := []byte(`
fold:
  discard_lineno: true
  shorten_pkgs: true
  hpl_version: 1
history:
  enabled: true
  type: postgres
  host: db.example.com
  port: 5432
log:
  level: debug
`)
	cfg, err := LoadFromReader("yaml", content)

	require.NoError(t, err)
	assert.True(t, cfg.Fold.DiscardLineNumbers)
	assert.True(t, cfg.Fold.ShortenPackages)
	assert.Equal(t, 1, cfg.Fold.HPLVersion)
	assert.Equal(t, "postgres", cfg.History.Type)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate_BadHistoryType(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte("history:\n  type: oracle\n"))
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())
}

func TestValidate_BadHPLVersion(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte("fold:\n  hpl_version: 3\n"))
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())
}

func TestValidate_BadMissingTracePolicy(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte("fold:\n  missing_trace_policy: panic\n"))
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())
}

func TestValidate_RemoteHistoryNeedsHost(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte("history:\n  enabled: true\n  type: mysql\n"))
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())
}

func TestValidate_Defaults(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte(""))
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate())
}
