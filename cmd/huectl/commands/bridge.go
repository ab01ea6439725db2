package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hued/internal/session"
	"github.com/jmylchreest/hued/pkg/hue"
)

// NewBridgeCommand creates the bridge command
func NewBridgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Discover and pair with bridges",
	}

	cmd.AddCommand(
		newBridgeDiscoverCommand(),
		newBridgeAuthorizeCommand(),
		newBridgeInfoCommand(),
	)

	return cmd
}

// bridgeView is the printed form of a bridge
type bridgeView struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Model     string `yaml:"model"`
	Version   string `yaml:"version"`
	Address   string `yaml:"address"`
	Supported bool   `yaml:"supported"`
}

func newBridgeView(b hue.Bridge) bridgeView {
	return bridgeView{
		ID:        b.ID,
		Name:      b.Name,
		Model:     string(b.Model),
		Version:   b.Version,
		Address:   b.Host(),
		Supported: b.Supported,
	}
}

func newBridgeDiscoverCommand() *cobra.Command {
	var (
		out     outputOptions
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find bridges on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = configFromCmd(cmd).Discovery.Timeout
			}

			bridges, err := hue.Discover(cmd.Context(), timeout, hueOptions(cmd)...)
			if err != nil {
				return fmt.Errorf("failed to discover bridges: %w", err)
			}

			switch {
			case out.yaml():
				views := make([]bridgeView, 0, len(bridges))
				for _, b := range bridges {
					views = append(views, newBridgeView(b))
				}
				return printYAML(views)
			case out.parseable:
				for _, b := range bridges {
					fmt.Println(BridgeParseable(b))
				}
				return nil
			}

			if len(bridges) == 0 {
				pterm.Info.Println("No bridges found")
				return nil
			}
			table := pterm.TableData{{"ID", "Name", "Model", "Version", "Address", "Supported"}}
			for _, b := range bridges {
				table = append(table, []string{b.ID, b.Name, string(b.Model), b.Version, b.Host(), fmt.Sprintf("%v", b.Supported)})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
		},
	}
	out.register(cmd)
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long to search for")
	return cmd
}

func newBridgeAuthorizeCommand() *cobra.Command {
	var (
		address    string
		deviceType string
		save       bool
		wait       time.Duration
		interval   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Obtain an application key, press the link button on the bridge first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromCmd(cmd)
			logger := getLoggerFromCmd(cmd)

			if address != "" {
				cfg.Bridge.Address = address
			}
			if deviceType != "" {
				cfg.Bridge.DeviceType = deviceType
			}
			dt, err := hue.ParseDeviceType(cfg.Bridge.DeviceType)
			if err != nil {
				return fmt.Errorf("invalid device type: %w", err)
			}

			addr, err := session.ResolveAddress(ctx, cfg, logger, extraOptions(ctx)...)
			if err != nil {
				return fmt.Errorf("failed to find bridge: %w", err)
			}

			h, err := hue.New(ctx, addr, dt, hueOptions(cmd)...)
			if err != nil {
				return fmt.Errorf("failed to connect to bridge: %w", err)
			}

			deadline := time.Now().Add(wait)
			prompted := false
			for {
				err = h.Authorize(ctx)
				if err == nil {
					break
				}
				if !errors.Is(err, hue.ErrUnauthorized) || !time.Now().Add(interval).Before(deadline) {
					return fmt.Errorf("failed to authorize: %w", err)
				}
				if !prompted {
					pterm.Info.Println("Press the link button on the bridge")
					prompted = true
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(interval):
				}
			}

			key := h.ApplicationKey()
			fmt.Printf("application_key=%q\n", key)

			if save {
				cfg.Bridge.Address = h.Bridge().Host()
				cfg.Bridge.ApplicationKey = key
				cfg.Bridge.DeviceType = dt.String()
				if err := cfg.Save(); err != nil {
					return fmt.Errorf("failed to save configuration: %w", err)
				}
				pterm.Success.Printf("Saved bridge %s to %s\n", h.Bridge().ID, cfg.Path())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Bridge address, discovered when unset")
	cmd.Flags().StringVar(&deviceType, "device", "", "Device type to register as (application#device)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the bridge and key to the client configuration")
	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "How long to wait for the link button")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "How often to retry while waiting")
	_ = cmd.Flags().MarkHidden("interval")
	return cmd
}

func newBridgeInfoCommand() *cobra.Command {
	var out outputOptions
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the configured bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			s, err := sessionFromCmd(cmd)
			if err != nil {
				return err
			}

			b := s.Bridge()
			switch {
			case out.yaml():
				return printYAML(newBridgeView(b))
			case out.parseable:
				fmt.Println(BridgeParseable(b))
				return nil
			}
			return pterm.DefaultTable.WithHasHeader().WithData(propertyTable(bridgeProperties(b))).Render()
		},
	}
	out.register(cmd)
	return cmd
}
