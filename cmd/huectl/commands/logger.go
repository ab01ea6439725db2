package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

type loggerContextKey struct{}

// WithLogger stores the logger commands log to.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// getLoggerFromCmd returns the logger from the command context
func getLoggerFromCmd(cmd *cobra.Command) *slog.Logger {
	if ctx := cmd.Context(); ctx != nil {
		if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}
