package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Bridge    BridgeConfig    `mapstructure:"bridge"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	API       APIConfig       `mapstructure:"api"`
	Lights    LightsConfig    `mapstructure:"lights"`
	Logging   LoggingConfig   `mapstructure:"logging"`

	// Internal viper instance
	v *viper.Viper
}

// BridgeConfig is the bridge to talk to and the credentials for it
type BridgeConfig struct {
	Address        string        `mapstructure:"address"`
	ApplicationKey string        `mapstructure:"application_key"`
	DeviceType     string        `mapstructure:"device_type"`
	CAFile         string        `mapstructure:"ca_file"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// DiscoveryConfig represents the discovery configuration
type DiscoveryConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// APIConfig is the daemon's HTTP API
type APIConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
	// Key, when set, is required as a bearer token on mutating requests
	Key       string `mapstructure:"key"`
	RateLimit int    `mapstructure:"rate_limit"`
}

// LightsConfig controls the daemon's light cache
type LightsConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	hostname, _ := os.Hostname()

	v.SetDefault("bridge.address", "")
	v.SetDefault("bridge.application_key", "")
	v.SetDefault("bridge.device_type", DefaultApplicationName+"#"+deviceName(hostname))
	v.SetDefault("bridge.ca_file", "")
	v.SetDefault("bridge.timeout", DefaultBridgeTimeout)
	v.SetDefault("discovery.timeout", DefaultDiscoveryTimeout)
	v.SetDefault("api.listen_address", DefaultAPIListenAddress)
	v.SetDefault("api.key", "")
	v.SetDefault("api.rate_limit", DefaultRateLimit)
	v.SetDefault("lights.refresh_interval", DefaultRefreshInterval)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.format", LogFormatText)
}

// deviceName reduces a host name to the characters and length the bridge
// accepts in a device type.
func deviceName(hostname string) string {
	var b strings.Builder
	for _, r := range hostname {
		if b.Len() == 19 {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '-' || r == '.':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "host"
	}
	return b.String()
}

// New wraps an existing viper instance, or a fresh one when v is nil.
// Defaults are registered on it.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	cfg := &Config{v: v}
	cfg.refresh()
	return cfg
}

// Load loads configuration from a file and environment variables. When
// configFile is empty, configName is looked up in the XDG config directory.
// A missing file is not an error.
func Load(configName, configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		slog.Debug("config: using config file from command line", "path", configFile)
	} else {
		configPath := GetConfigPath(configName)
		v.SetConfigFile(configPath)
		if _, err := os.Stat(configPath); err == nil {
			slog.Debug("config: using default config file", "path", configPath)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{v: v}
	cfg.refresh()
	return cfg, nil
}

// refresh copies the viper values into the typed fields
func (c *Config) refresh() {
	v := c.v
	c.Bridge = BridgeConfig{
		Address:        v.GetString("bridge.address"),
		ApplicationKey: v.GetString("bridge.application_key"),
		DeviceType:     v.GetString("bridge.device_type"),
		CAFile:         v.GetString("bridge.ca_file"),
		Timeout:        v.GetDuration("bridge.timeout"),
	}
	c.Discovery = DiscoveryConfig{
		Timeout: v.GetDuration("discovery.timeout"),
	}
	c.API = APIConfig{
		ListenAddress: v.GetString("api.listen_address"),
		Key:           v.GetString("api.key"),
		RateLimit:     v.GetInt("api.rate_limit"),
	}
	c.Lights = LightsConfig{
		RefreshInterval: v.GetDuration("lights.refresh_interval"),
	}
	c.Logging = LoggingConfig{
		Level:  v.GetString("logging.level"),
		Format: v.GetString("logging.format"),
	}
}

// Save writes the configuration to the file it was loaded from
func (c *Config) Save() error {
	logger := slog.Default()
	configPath := c.v.ConfigFileUsed()
	if configPath == "" {
		configPath = GetClientConfigPath()
		c.v.SetConfigFile(configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	c.v.Set("bridge.address", c.Bridge.Address)
	c.v.Set("bridge.application_key", c.Bridge.ApplicationKey)
	c.v.Set("bridge.device_type", c.Bridge.DeviceType)
	c.v.Set("bridge.ca_file", c.Bridge.CAFile)
	c.v.Set("bridge.timeout", c.Bridge.Timeout.String())
	c.v.Set("discovery.timeout", c.Discovery.Timeout.String())
	c.v.Set("api.listen_address", c.API.ListenAddress)
	c.v.Set("api.key", c.API.Key)
	c.v.Set("api.rate_limit", c.API.RateLimit)
	c.v.Set("lights.refresh_interval", c.Lights.RefreshInterval.String())
	c.v.Set("logging.level", c.Logging.Level)
	c.v.Set("logging.format", c.Logging.Format)

	if err := c.v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	// The file holds the application key
	if err := os.Chmod(configPath, 0o600); err != nil {
		return fmt.Errorf("error setting config file permissions: %w", err)
	}

	logger.Info("config: saved", "path", configPath)
	return nil
}

// Path returns the config file in use
func (c *Config) Path() string {
	return c.v.ConfigFileUsed()
}

// Watch calls fn with a freshly read Config whenever the file changes. The
// receiver itself is not modified.
func (c *Config) Watch(fn func(*Config)) {
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		slog.Info("config: file changed", "path", e.Name, "op", e.Op.String())
		next := &Config{v: c.v}
		next.refresh()
		fn(next)
	})
	c.v.WatchConfig()
}

// Get retrieves a value from the configuration
func (c *Config) Get(key string) any {
	if c.v == nil {
		return nil
	}
	return c.v.Get(key)
}

// Set sets a value in the configuration
func (c *Config) Set(key string, value any) {
	if c.v == nil {
		return
	}
	c.v.Set(key, value)
	c.refresh()
}
