package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"NEWSBALANCE_API_BASE", "NEWSBALANCE_WS_URL", "YT_API_KEY", "NEWSBALANCE_STORAGE"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "ws://localhost:8080/ws", cfg.API.WSURL)
	assert.Equal(t, "newsbalance.db", cfg.Storage.Path)
	assert.False(t, cfg.Debug)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  baseUrl: https://api.newsbalance.example
  wsUrl: wss://api.newsbalance.example/ws
youtube:
  apiKey: yt-key-from-file
storage:
  path: /tmp/nb.db
debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.newsbalance.example", cfg.API.BaseURL)
	assert.Equal(t, "wss://api.newsbalance.example/ws", cfg.API.WSURL)
	assert.Equal(t, "yt-key-from-file", cfg.YouTube.APIKey)
	assert.Equal(t, "/tmp/nb.db", cfg.Storage.Path)
	assert.True(t, cfg.Debug)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  baseUrl: https://from-file\n"), 0o644))

	t.Setenv("NEWSBALANCE_API_BASE", "https://from-env")
	t.Setenv("YT_API_KEY", "yt-key-from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env", cfg.API.BaseURL)
	assert.Equal(t, "yt-key-from-env", cfg.YouTube.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
