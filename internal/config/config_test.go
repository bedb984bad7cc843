package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
addr: 127.0.0.1:9000
log_level: debug
prefix: shop
build:
  version: 1.2.3
  commit: abc123
routes:
  - path: /orders
    methods: [GET, POST]
  - path: /health
`))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "/metrics", cfg.MetricsPath, "unset keys keep their defaults")
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "shop", cfg.Prefix)
	assert.Equal(t, map[string]string{"version": "1.2.3", "commit": "abc123"}, cfg.Build)
	require.Len(t, cfg.Routes, 2)
	assert.Equal(t, []string{"GET", "POST"}, cfg.Routes[0].Methods)
	assert.Empty(t, cfg.Routes[1].Methods)
}

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("adress: :80\n"))
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	_, err := Parse([]byte(`
addr: ""
metrics_path: metrics
log_level: loud
prefix: 9lives
build:
  bad-key: x
routes:
  - path: orders
  - path: /a
  - path: /a
`))
	require.ErrorIs(t, err, ErrInvalid)

	for _, part := range []string{"addr", "metrics_path", "log_level", "prefix", "bad-key", "routes[0]", "duplicate"} {
		assert.Contains(t, err.Error(), part)
	}
}

func TestValidateRouteShadowsMetrics(t *testing.T) {
	cfg := Default()
	cfg.Routes = []Route{{Path: cfg.MetricsPath}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metricsd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: demo\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Prefix)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}
