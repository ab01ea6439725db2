package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hued/internal/config"
	"github.com/jmylchreest/hued/pkg/hue"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hued.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, fs, err := loadConfig(nil)
	require.NoError(t, err)
	assert.False(t, fs.Changed("log-level"))
	assert.Equal(t, config.DefaultAPIListenAddress, cfg.API.ListenAddress)
	assert.Equal(t, config.DefaultRefreshInterval, cfg.Lights.RefreshInterval)
	assert.Equal(t, config.LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, config.GetDaemonConfigPath(), cfg.Path())
}

func TestLoadConfig_FileAndFlags(t *testing.T) {
	path := writeConfig(t, `
bridge:
  address: 192.0.2.2
  application_key: from-file
logging:
  level: warn
lights:
  refresh_interval: 1m
`)

	cfg, _, err := loadConfig([]string{
		"--config", path,
		"--log-level", "debug",
		"--listen", "",
		"--refresh-interval", "1s",
	})
	require.NoError(t, err)

	assert.Equal(t, "192.0.2.2", cfg.Bridge.Address)
	assert.Equal(t, "from-file", cfg.Bridge.ApplicationKey)
	assert.Equal(t, config.LogLevelDebug, cfg.Logging.Level, "flag wins over file")
	assert.Empty(t, cfg.API.ListenAddress)
	assert.Equal(t, config.MinRefreshInterval, cfg.Lights.RefreshInterval, "clamped to the minimum")
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: loud\n  format: xml\n")

	cfg, _, err := loadConfig([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, config.LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, config.LogFormatText, cfg.Logging.Format)
}

func TestLoadConfig_BadFlag(t *testing.T) {
	_, _, err := loadConfig([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestRun_RequiresApplicationKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, []string{"--bridge", "192.0.2.2", "--log-level", "error"})
	require.Error(t, err)
	assert.ErrorIs(t, err, hue.ErrNotAuthorized)
}

func TestRun_Version(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	assert.NoError(t, run(context.Background(), []string{"--version"}))
}
