package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hued/internal/config"
	"github.com/jmylchreest/hued/internal/utils"
)

// NewRootCommand creates the root command
func NewRootCommand(logger *slog.Logger, version, commit, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "huectl",
		Short:         "Control Philips Hue lights",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("config", "", "Path to config file")
	cmd.PersistentFlags().String("bridge", "", "Bridge address, discovered when unset")
	cmd.PersistentFlags().String("application-key", "", "Bridge application key")
	cmd.PersistentFlags().String("log-level", config.LogLevelWarn, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", config.LogFormatText, "Log format (text, json)")

	// Add commands
	cmd.AddCommand(newVersionCommand(version, commit, buildDate))
	cmd.AddCommand(NewBridgeCommand())
	cmd.AddCommand(NewDeviceCommand())
	cmd.AddCommand(NewLightCommand())
	cmd.AddCommand(NewColorCommand())

	if logger != nil {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		cmd.SetContext(WithLogger(parent, logger))
	}

	return cmd
}

// loadConfig reads the client configuration, applies the global flags and
// stores the result and a matching logger in the command context. A
// configuration already in the context is kept.
func loadConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Value(configContextKey{}).(*config.Config); ok {
		return nil
	}

	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	cfg, err := config.Load(config.ClientConfigFilename, configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if flags.Changed("bridge") {
		cfg.Bridge.Address, _ = flags.GetString("bridge")
	}
	if flags.Changed("application-key") {
		cfg.Bridge.ApplicationKey, _ = flags.GetString("application-key")
	}
	// The client logs at the flag's level, warn by default, not the file's
	level, _ := flags.GetString("log-level")
	format := cfg.Logging.Format
	if flags.Changed("log-format") {
		format, _ = flags.GetString("log-format")
	}
	cfg.Logging.Level = utils.ValidateLogLevel(level)
	cfg.Logging.Format = utils.ValidateLogFormat(format)

	logger := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	utils.SetAsDefaultLogger(logger)

	ctx = WithLogger(WithConfig(ctx, cfg), logger)
	cmd.SetContext(ctx)
	return nil
}

// newVersionCommand creates the version command
func newVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Client:\n")
			fmt.Printf("  Version:    %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}
