package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "pauta.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 60*time.Second, cfg.Reasoning.Timeout)
	require.Equal(t, 30*time.Minute, cfg.Progress.TTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PAUTA_SERVER_PORT", "9090")
	t.Setenv("PAUTA_TRANSPORT_MODE", "stdio")
	t.Setenv("PAUTA_DB_PATH", "/tmp/test.db")
	t.Setenv("PAUTA_REASONING_ENDPOINT", "https://reasoning.example.com/v1")
	t.Setenv("PAUTA_REASONING_TIMEOUT", "15s")
	t.Setenv("PAUTA_PROGRESS_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "https://reasoning.example.com/v1", cfg.Reasoning.Endpoint)
	require.Equal(t, 15*time.Second, cfg.Reasoning.Timeout)
	require.Equal(t, 5*time.Minute, cfg.Progress.TTL)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 3000
db:
  path: /data/pauta.db
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PAUTA_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "/data/pauta.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 3000\n"), 0o600))
	t.Setenv("PAUTA_CONFIG_PATH", path)
	t.Setenv("PAUTA_SERVER_PORT", "4000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 4000, cfg.Server.Port)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PAUTA_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	t.Setenv("PAUTA_TRANSPORT_MODE", "websocket")
	_, err := Load()
	require.Error(t, err)
}
