package config

import "time"

// Common constants shared between daemon and client
const (
	// ConfigDirName is the name of the config directory within XDG_CONFIG_HOME
	ConfigDirName = "hued"

	// DaemonConfigFilename is the base filename for daemon config
	DaemonConfigFilename = "hued.yaml"

	// ClientConfigFilename is the base filename for client config
	ClientConfigFilename = "huectl.yaml"

	// EnvPrefix prefixes environment overrides, e.g. HUED_BRIDGE_ADDRESS
	EnvPrefix = "HUED"

	// DefaultAPIListenAddress is the default HTTP API listen address
	DefaultAPIListenAddress = "127.0.0.1:9124"

	// DefaultApplicationName is used in the device type when none is configured
	DefaultApplicationName = "hued"
)

// Default timeouts and intervals
const (
	// DefaultBridgeTimeout bounds a single bridge request
	DefaultBridgeTimeout = 10 * time.Second

	// DefaultDiscoveryTimeout is how long mDNS and cloud discovery run
	DefaultDiscoveryTimeout = 5 * time.Second

	// DefaultRefreshInterval is how often the daemon re-reads light state
	DefaultRefreshInterval = 30 * time.Second

	// MinRefreshInterval is the minimum allowed refresh interval
	MinRefreshInterval = 5 * time.Second

	// DefaultRateLimit is the number of API requests allowed per client IP per minute
	DefaultRateLimit = 120
)

// Light constraints
const (
	// MinBrightness is the minimum brightness in percent
	MinBrightness = 0

	// MaxBrightness is the maximum brightness in percent
	MaxBrightness = 100

	// MinMirek is the coolest color temperature accepted by Hue lights
	MinMirek = 153

	// MaxMirek is the warmest color temperature accepted by Hue lights
	MaxMirek = 500
)

// Logging constants
const (
	// LogLevelDebug represents debug log level
	LogLevelDebug = "debug"

	// LogLevelInfo represents info log level
	LogLevelInfo = "info"

	// LogLevelWarn represents warning log level
	LogLevelWarn = "warn"

	// LogLevelError represents error log level
	LogLevelError = "error"

	// LogFormatText represents text log format
	LogFormatText = "text"

	// LogFormatJSON represents JSON log format
	LogFormatJSON = "json"
)
