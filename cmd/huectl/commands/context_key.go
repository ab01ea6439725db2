package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hued/internal/config"
	"github.com/jmylchreest/hued/internal/session"
	"github.com/jmylchreest/hued/pkg/color"
	"github.com/jmylchreest/hued/pkg/hue"
)

type (
	clientContextKey  struct{}
	configContextKey  struct{}
	optionsContextKey struct{}
)

// Session is what the light and device commands need from a bridge.
type Session interface {
	Bridge() hue.Bridge
	GetLights() []*hue.Light
	GetLight(id string) (*hue.Light, error)
	SetPower(ctx context.Context, id string, on bool) (*hue.Light, error)
	SetBrightness(ctx context.Context, id string, brightness float32) (*hue.Light, error)
	SetColorXY(ctx context.Context, id string, xy color.Point) (*hue.Light, error)
	SetColorRGB(ctx context.Context, id string, rgb color.RGB8) (*hue.Light, error)
	SetTemperature(ctx context.Context, id string, mirek int) (*hue.Light, error)
	Devices(ctx context.Context) ([]hue.Device, error)
}

// Connector opens a Session for a command.
type Connector func(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...hue.Option) (Session, error)

// bridgeSession is a light cache plus the session it was loaded from.
type bridgeSession struct {
	*hue.Manager
	client *hue.Hue
}

func (s *bridgeSession) Devices(ctx context.Context) ([]hue.Device, error) {
	return s.client.Devices(ctx)
}

// Connect is the default Connector: it opens the configured session and
// loads all lights once.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...hue.Option) (Session, error) {
	h, err := session.Connect(ctx, cfg, logger, opts...)
	if err != nil {
		return nil, err
	}
	m := hue.NewManager(h, logger)
	if err := m.Refresh(ctx); err != nil {
		return nil, err
	}
	return &bridgeSession{Manager: m, client: h}, nil
}

// WithConnector stores the connector commands use to reach the bridge.
func WithConnector(ctx context.Context, c Connector) context.Context {
	return context.WithValue(ctx, clientContextKey{}, c)
}

// WithConfig stores the loaded configuration.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configContextKey{}, cfg)
}

// WithHueOptions adds options to every bridge client the commands create.
func WithHueOptions(ctx context.Context, opts ...hue.Option) context.Context {
	return context.WithValue(ctx, optionsContextKey{}, opts)
}

func configFromCmd(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configContextKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.New(nil)
}

// hueOptions returns the options from the configuration followed by any
// stored in the context.
func hueOptions(cmd *cobra.Command) []hue.Option {
	opts := session.Options(configFromCmd(cmd), getLoggerFromCmd(cmd))
	return append(opts, extraOptions(cmd.Context())...)
}

func extraOptions(ctx context.Context) []hue.Option {
	opts, _ := ctx.Value(optionsContextKey{}).([]hue.Option)
	return opts
}

func sessionFromCmd(cmd *cobra.Command) (Session, error) {
	connect, ok := cmd.Context().Value(clientContextKey{}).(Connector)
	if !ok || connect == nil {
		connect = Connect
	}
	s, err := connect(cmd.Context(), configFromCmd(cmd), getLoggerFromCmd(cmd), extraOptions(cmd.Context())...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bridge: %w", err)
	}
	return s, nil
}

// resolveLight accepts a light ID or a light name (case-insensitive).
func resolveLight(s Session, arg string) (*hue.Light, error) {
	if _, err := uuid.Parse(arg); err == nil {
		return s.GetLight(arg)
	}

	var found *hue.Light
	for _, l := range s.GetLights() {
		if !strings.EqualFold(strings.TrimSpace(l.Name), strings.TrimSpace(arg)) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("more than one light is named %q, use its ID", arg)
		}
		found = l
	}
	if found == nil {
		return nil, fmt.Errorf("light %q not found", arg)
	}
	return found, nil
}
