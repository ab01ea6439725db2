package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults_NoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	cfg, err := Load("test.yaml", configPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIListenAddress, cfg.API.ListenAddress)
	assert.Equal(t, DefaultBridgeTimeout, cfg.Bridge.Timeout)
	assert.Equal(t, DefaultDiscoveryTimeout, cfg.Discovery.Timeout)
	assert.Equal(t, DefaultRefreshInterval, cfg.Lights.RefreshInterval)
	assert.Equal(t, DefaultRateLimit, cfg.API.RateLimit)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Regexp(t, `^hued#\w{1,19}$`, cfg.Bridge.DeviceType)
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "hued.yaml")
	content := `
bridge:
  address: 192.168.1.2
  application_key: secret
  timeout: 3s
lights:
  refresh_interval: 1m
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load("hued.yaml", configPath)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.2", cfg.Bridge.Address)
	assert.Equal(t, "secret", cfg.Bridge.ApplicationKey)
	assert.Equal(t, 3*time.Second, cfg.Bridge.Timeout)
	assert.Equal(t, time.Minute, cfg.Lights.RefreshInterval)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, configPath, cfg.Path())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HUED_BRIDGE_ADDRESS", "10.0.0.7")
	t.Setenv("HUED_API_RATE_LIMIT", "5")

	cfg, err := Load("hued.yaml", filepath.Join(tmpDir, "hued.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", cfg.Bridge.Address)
	assert.Equal(t, 5, cfg.API.RateLimit)
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "huectl.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)
	cfg := New(v)
	cfg.Bridge.Address = "192.168.1.50"
	cfg.Bridge.ApplicationKey = "abc123"
	cfg.Bridge.Timeout = 2 * time.Second

	require.NoError(t, cfg.Save())

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg2, err := Load("huectl.yaml", configPath)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.50", cfg2.Bridge.Address)
	assert.Equal(t, "abc123", cfg2.Bridge.ApplicationKey)
	assert.Equal(t, 2*time.Second, cfg2.Bridge.Timeout)
	assert.Equal(t, DefaultRefreshInterval, cfg2.Lights.RefreshInterval)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("not: [valid: yaml"), 0o644))

	_, err := Load("bad.yaml", configPath)
	assert.Error(t, err)
}

func TestSet_RefreshesTypedFields(t *testing.T) {
	cfg := New(viper.New())
	cfg.Set("logging.level", "warn")
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "warn", cfg.Get("logging.level"))
}

func TestDeviceName(t *testing.T) {
	assert.Equal(t, "my_laptop_local", deviceName("my-laptop.local"))
	assert.Equal(t, "host", deviceName(""))
	assert.Len(t, deviceName("averyveryverylonghostnameindeed"), 19)
}
