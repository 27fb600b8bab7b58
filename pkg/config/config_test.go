package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.ServerURL)
}

func TestLoadFrom_ParsesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://example.com:9000\nmax_reconnects: 3\n"), 0o600))

	cfg, err := loadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:9000", cfg.ServerURL)
	assert.Equal(t, 3, cfg.MaxReconnects)
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [unclosed"), 0o600))

	_, err := loadFrom(path)
	require.Error(t, err)
}

func TestSaveTo_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &Config{ServerURL: "http://localhost:8000"}
	require.NoError(t, cfg.saveTo(path))

	loaded, err := loadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, loaded.Version)
	assert.Equal(t, "http://localhost:8000", loaded.ServerURL)
}

func TestResolveServerURL(t *testing.T) {
	cfg := &Config{ServerURL: "http://from-file:1234"}

	assert.Equal(t, "http://from-flag:1", cfg.ResolveServerURL("http://from-flag:1"))

	t.Setenv(serverEnvVar, "http://from-env:2")
	assert.Equal(t, "http://from-env:2", cfg.ResolveServerURL(""))

	t.Setenv(serverEnvVar, "")
	assert.Equal(t, "http://from-file:1234", cfg.ResolveServerURL(""))

	assert.Equal(t, DefaultServerURL, (&Config{}).ResolveServerURL(""))
}
