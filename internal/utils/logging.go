// Package utils builds the slog loggers shared by hued and huectl.
package utils

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jmylchreest/hued/internal/config"
)

var levels = map[string]slog.Level{
	config.LogLevelDebug: slog.LevelDebug,
	config.LogLevelInfo:  slog.LevelInfo,
	config.LogLevelWarn:  slog.LevelWarn,
	config.LogLevelError: slog.LevelError,
}

// GetLogLevel converts a level name to a slog.Level. Unknown names are info.
func GetLogLevel(name string) slog.Level {
	if l, ok := levels[ValidateLogLevel(name)]; ok {
		return l
	}
	return slog.LevelInfo
}

// ValidateLogLevel normalizes name, falling back to info when it is not a
// known level
func ValidateLogLevel(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := levels[name]; ok {
		return name
	}
	return config.LogLevelInfo
}

// ValidateLogFormat normalizes format, falling back to text
func ValidateLogFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), config.LogFormatJSON) {
		return config.LogFormatJSON
	}
	return config.LogFormatText
}

// level is shared by every logger built here, so SetLevel reaches all of them
var level = new(slog.LevelVar)

// SetupLogger creates a text or JSON logger on stderr
func SetupLogger(logLevel, format string) *slog.Logger {
	return newLogger(os.Stderr, logLevel, format)
}

func newLogger(w io.Writer, logLevel, format string) *slog.Logger {
	SetLevel(logLevel)
	opts := &slog.HandlerOptions{Level: level, AddSource: true}
	if ValidateLogFormat(format) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetLevel changes the level of loggers created by SetupLogger
func SetLevel(logLevel string) {
	level.Set(GetLogLevel(logLevel))
}

// Level returns the current level of loggers created by SetupLogger
func Level() slog.Level {
	return level.Level()
}

// SetupErrorLogger creates a logger for startup failures, before the
// configuration is known
func SetupErrorLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// SetAsDefaultLogger sets a logger as the default logger
func SetAsDefaultLogger(logger *slog.Logger) {
	slog.SetDefault(logger)
}
