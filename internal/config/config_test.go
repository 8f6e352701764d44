package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "data/forcemap.db", cfg.Store.DatabasePath)
	assert.Equal(t, "out", cfg.Dashboard.OutputDir)
	assert.Equal(t, 512, cfg.Dashboard.ChartWidth)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Addr, cfg.Server.Addr)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  addr: ":9999"
store:
  database_path: /tmp/test.db
dashboard:
  output_dir: /tmp/out
  tile_token: pk.test
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "/tmp/test.db", cfg.Store.DatabasePath)
	assert.Equal(t, "/tmp/out", cfg.Dashboard.OutputDir)
	assert.Equal(t, "pk.test", cfg.Dashboard.TileToken)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched fields keep defaults
	assert.Equal(t, 512, cfg.Dashboard.ChartWidth)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FORCEMAP_ADDR", ":7777")
	t.Setenv("FORCEMAP_DB", "/tmp/env.db")
	t.Setenv("FORCEMAP_TILE_TOKEN", "pk.env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, "/tmp/env.db", cfg.Store.DatabasePath)
	assert.Equal(t, "pk.env", cfg.Dashboard.TileToken)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":6060"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", loaded.Server.Addr)
}
