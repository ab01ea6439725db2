package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/hued/internal/config"
	"github.com/jmylchreest/hued/internal/server"
	"github.com/jmylchreest/hued/internal/session"
	"github.com/jmylchreest/hued/internal/utils"
	"github.com/jmylchreest/hued/pkg/hue"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// daemonFlags builds the command line of the daemon. Flags override the file
// and environment only when given.
func daemonFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("hued", pflag.ContinueOnError)
	fs.String("config", "", "Path to config file")
	fs.String("log-level", config.LogLevelInfo, "Log level (debug, info, warn, error)")
	fs.String("log-format", config.LogFormatText, "Log format (text, json)")
	fs.String("listen", config.DefaultAPIListenAddress, "HTTP API listen address, empty to disable")
	fs.String("bridge", "", "Bridge address, discovered when unset")
	fs.String("application-key", "", "Bridge application key")
	fs.Duration("refresh-interval", config.DefaultRefreshInterval, "How often lights are reloaded from the bridge")
	fs.Bool("version", false, "Print version and exit")
	return fs
}

// loadConfig parses args and returns the effective configuration.
func loadConfig(args []string) (*config.Config, *pflag.FlagSet, error) {
	fs := daemonFlags()
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}

	configFile, _ := fs.GetString("config")
	cfg, err := config.Load(config.DaemonConfigFilename, configFile)
	if err != nil {
		return nil, fs, err
	}

	if fs.Changed("log-level") {
		cfg.Logging.Level, _ = fs.GetString("log-level")
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format, _ = fs.GetString("log-format")
	}
	if fs.Changed("listen") {
		cfg.API.ListenAddress, _ = fs.GetString("listen")
	}
	if fs.Changed("bridge") {
		cfg.Bridge.Address, _ = fs.GetString("bridge")
	}
	if fs.Changed("application-key") {
		cfg.Bridge.ApplicationKey, _ = fs.GetString("application-key")
	}
	if fs.Changed("refresh-interval") {
		cfg.Lights.RefreshInterval, _ = fs.GetDuration("refresh-interval")
	}

	cfg.Logging.Level = utils.ValidateLogLevel(cfg.Logging.Level)
	cfg.Logging.Format = utils.ValidateLogFormat(cfg.Logging.Format)
	cfg.Lights.RefreshInterval = config.ValidateRefreshInterval(cfg.Lights.RefreshInterval)
	return cfg, fs, nil
}

// watchLogLevel applies log level changes from the config file at runtime.
// A level given on the command line wins over the file.
func watchLogLevel(cfg *config.Config, fs *pflag.FlagSet, logger *slog.Logger) {
	if fs.Changed("log-level") || cfg.Path() == "" {
		return
	}
	if _, err := os.Stat(cfg.Path()); err != nil {
		logger.Debug("Config file not found, not watching", "path", cfg.Path())
		return
	}
	cfg.Watch(func(next *config.Config) {
		level := utils.ValidateLogLevel(next.Logging.Level)
		if utils.GetLogLevel(level) == utils.Level() {
			return
		}
		utils.SetLevel(level)
		logger.Info("Log level changed", "level", level)
	})
}

func run(ctx context.Context, args []string) error {
	cfg, fs, err := loadConfig(args)
	if err != nil {
		return err
	}
	if v, _ := fs.GetBool("version"); v {
		fmt.Printf("hued %s (commit %s, built %s)\n", version, commit, buildDate)
		return nil
	}

	logger := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	utils.SetAsDefaultLogger(logger)
	watchLogLevel(cfg, fs, logger)

	logger.Info("Starting hued",
		"version", version,
		"commit", commit,
		"buildDate", buildDate,
	)

	h, err := session.Connect(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to bridge: %w", err)
	}
	logger.Info("Connected to bridge",
		"id", h.Bridge().ID,
		"address", h.Bridge().Host(),
		"version", h.Bridge().Version)

	manager := hue.NewManager(h, logger)
	srv := server.New(logger, cfg, manager, server.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-ctx.Done()
	logger.Info("Shutting down...")
	srv.Stop()
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		utils.SetupErrorLogger().Error("hued failed", "error", err)
		os.Exit(1)
	}
}
