package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigBaseDir(t *testing.T) {
	tests := []struct {
		name          string
		xdgConfigHome string
		expected      string
		suffix        string
	}{
		{name: "system_service", xdgConfigHome: "/etc/hued", expected: "/etc/hued"},
		{name: "user_default", xdgConfigHome: "", suffix: "/.config/hued"},
		{name: "user_custom_xdg", xdgConfigHome: "/home/user/myconfigs", expected: "/home/user/myconfigs/hued"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tt.xdgConfigHome)

			result := GetConfigBaseDir()
			if tt.expected != "" {
				assert.Equal(t, tt.expected, result)
				return
			}
			assert.True(t, filepath.IsAbs(result))
			assert.True(t, strings.HasSuffix(result, tt.suffix), "%s should end with %s", result, tt.suffix)
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/hued")
	assert.Equal(t, "/etc/hued/hued.yaml", GetDaemonConfigPath())
	assert.Equal(t, "/etc/hued/huectl.yaml", GetClientConfigPath())
}

func TestValidateRefreshInterval(t *testing.T) {
	assert.Equal(t, MinRefreshInterval, ValidateRefreshInterval(time.Second))
	assert.Equal(t, MinRefreshInterval, ValidateRefreshInterval(0))
	assert.Equal(t, time.Minute, ValidateRefreshInterval(time.Minute))
}
