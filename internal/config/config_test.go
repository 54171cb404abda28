package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, BackendKeyring, cfg.Storage.Backend)
	assert.Equal(t, DefaultTickInterval, cfg.Dashboard.Tick())
	assert.Equal(t, DefaultCopiedDuration, cfg.Dashboard.Copied())
	assert.Equal(t, ThemeAuto, cfg.Dashboard.Theme)
}

func TestLoad_Values(t *testing.T) {
	path := writeConfig(t, `
[storage]
backend = "FILE"
file = "/tmp/hotpot/accounts.json"

[dashboard]
tick_interval = "100ms"
copied_duration = "5s"
theme = "light"

[log]
file = ""
debug = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/hotpot/accounts.json", cfg.Storage.File)
	assert.Equal(t, 100*time.Millisecond, cfg.Dashboard.Tick())
	assert.Equal(t, 5*time.Second, cfg.Dashboard.Copied())
	assert.Equal(t, DefaultStatusDuration, cfg.Dashboard.Status())
	assert.Equal(t, ThemeLight, cfg.Dashboard.Theme)
	assert.Equal(t, "", cfg.Log.File)
	assert.True(t, cfg.Log.Debug)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	path := writeConfig(t, `
[storage]
backend = "cloud"

[dashboard]
tick_interval = "forever"
copied_duration = "-1s"
theme = "neon"

[log]
max_size_mb = -3
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendKeyring, cfg.Storage.Backend)
	assert.Equal(t, DefaultTickInterval, cfg.Dashboard.Tick())
	assert.Equal(t, DefaultCopiedDuration, cfg.Dashboard.Copied())
	assert.Equal(t, ThemeAuto, cfg.Dashboard.Theme)
	assert.Equal(t, defaultLogMaxSizeMB, cfg.Log.MaxSizeMB)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "[storage\nbackend = ")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y"), ExpandHome("~/x/y"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
}
