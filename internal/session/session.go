// Package session opens the bridge session described by the configuration,
// shared by the daemon and the CLI.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/hued/internal/config"
	"github.com/jmylchreest/hued/internal/errors"
	"github.com/jmylchreest/hued/pkg/hue"
)

// Options returns the hue options for cfg.
func Options(cfg *config.Config, logger *slog.Logger) []hue.Option {
	opts := []hue.Option{
		hue.WithLogger(logger),
		hue.WithCAFile(cfg.Bridge.CAFile),
	}
	if cfg.Bridge.Timeout > 0 {
		opts = append(opts, hue.WithTimeout(cfg.Bridge.Timeout))
	}
	return opts
}

// ResolveAddress returns the configured bridge address, or the only bridge
// found by discovery when none is configured.
func ResolveAddress(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...hue.Option) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Bridge.Address != "" {
		return cfg.Bridge.Address, nil
	}

	logger.Info("session: no bridge address configured, discovering", "timeout", cfg.Discovery.Timeout)
	bridges, err := hue.Discover(ctx, cfg.Discovery.Timeout, append(Options(cfg, logger), opts...)...)
	if err != nil {
		return "", err
	}
	switch len(bridges) {
	case 0:
		return "", errors.NotFoundf("no bridge found on the network")
	case 1:
		logger.Info("session: using discovered bridge", "id", bridges[0].ID, "address", bridges[0].Host())
		return bridges[0].Host(), nil
	default:
		return "", errors.InvalidInputf("%d bridges found, set bridge.address to pick one", len(bridges))
	}
}

// Connect opens an authorized session with the configured application key.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...hue.Option) (*hue.Hue, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Bridge.ApplicationKey == "" {
		return nil, fmt.Errorf("bridge.application_key is not set, run huectl bridge authorize first: %w", hue.ErrNotAuthorized)
	}

	deviceType, err := hue.ParseDeviceType(cfg.Bridge.DeviceType)
	if err != nil {
		return nil, errors.InvalidInputf("bridge.device_type %q: %v", cfg.Bridge.DeviceType, err)
	}

	addr, err := ResolveAddress(ctx, cfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	return hue.NewWithKey(ctx, addr, deviceType, cfg.Bridge.ApplicationKey, append(Options(cfg, logger), opts...)...)
}
