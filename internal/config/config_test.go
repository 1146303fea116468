package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, filepath.Join(".", "data"), cfg.Storage.Path)
	assert.False(t, cfg.Storage.InMemory)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 3, cfg.Source.MaxRetries)
	assert.Empty(t, cfg.Curve.DefaultFile)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bondcurve.yaml")
	content := `
log:
  level: debug
server:
  address: 127.0.0.1:9090
storage:
  in_memory: true
cache:
  ttl: 30s
source:
  timeout: 2s
  max_retries: 5
curve:
  default_file: /data/bondcurve.csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address)
	assert.True(t, cfg.Storage.InMemory)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 2*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 5, cfg.Source.MaxRetries)
	assert.Equal(t, "/data/bondcurve.csv", cfg.Curve.DefaultFile)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bondcurve.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: :9000\n"), 0o644))

	t.Setenv("BONDCURVE_SERVER_ADDRESS", ":7000")
	t.Setenv("BONDCURVE_LOG_LEVEL", "warn")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  max_retries: 0\n"), 0o644))

	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source.max_retries")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
