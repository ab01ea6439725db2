package config

import (
	"os"
	"path/filepath"
	"time"
)

// GetConfigBaseDir returns the base directory for configuration files
func GetConfigBaseDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		// A system service points XDG_CONFIG_HOME at /etc/hued itself
		if dir == "/etc/hued" {
			return dir
		}
		return filepath.Join(dir, ConfigDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", ConfigDirName)
}

// GetConfigPath returns the full path to a configuration file
func GetConfigPath(filename string) string {
	return filepath.Join(GetConfigBaseDir(), filename)
}

// GetDaemonConfigPath returns the full path to the daemon configuration file
func GetDaemonConfigPath() string {
	return GetConfigPath(DaemonConfigFilename)
}

// GetClientConfigPath returns the full path to the client configuration file
func GetClientConfigPath() string {
	return GetConfigPath(ClientConfigFilename)
}

// ValidateRefreshInterval clamps the refresh interval to the minimum allowed value
func ValidateRefreshInterval(interval time.Duration) time.Duration {
	if interval < MinRefreshInterval {
		return MinRefreshInterval
	}
	return interval
}
