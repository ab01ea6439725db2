package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hued/internal/http/handlers"
	"github.com/jmylchreest/hued/pkg/color"
	"github.com/jmylchreest/hued/pkg/hue"
)

// NewLightCommand creates the light command
func NewLightCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "light",
		Short: "Manage individual lights",
	}

	cmd.AddCommand(
		newLightListCommand(),
		newLightGetCommand(),
		newLightSwitchCommand(),
		newLightColorCommand(),
		newLightRGBCommand(),
		newLightDimCommand(),
		newLightTemperatureCommand(),
	)

	return cmd
}

func sortedLights(s Session) []*hue.Light {
	lights := s.GetLights()
	sort.Slice(lights, func(i, j int) bool {
		if lights[i].Name != lights[j].Name {
			return lights[i].Name < lights[j].Name
		}
		return lights[i].ID.String() < lights[j].ID.String()
	})
	return lights
}

// lightFromArgs resolves the first argument to a light, or asks for one
// when there are no arguments.
func lightFromArgs(s Session, args []string) (*hue.Light, error) {
	if len(args) > 0 {
		return resolveLight(s, args[0])
	}

	lights := sortedLights(s)
	if len(lights) == 0 {
		return nil, fmt.Errorf("no lights found")
	}
	options := make([]string, len(lights))
	for i, l := range lights {
		options[i] = fmt.Sprintf("%s (%s)", l.ID, l.Name)
	}

	selected, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		Show("Select a light")
	if err != nil {
		return nil, fmt.Errorf("failed to select light: %w", err)
	}

	// Extract ID from selected option
	return s.GetLight(strings.Split(selected, " (")[0])
}

// newLightListCommand creates the light list command
func newLightListCommand() *cobra.Command {
	var out outputOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			s, err := sessionFromCmd(cmd)
			if err != nil {
				return err
			}

			lights := sortedLights(s)
			switch {
			case out.yaml():
				views := make([]lightView, 0, len(lights))
				for _, l := range lights {
					views = append(views, newLightView(l))
				}
				return printYAML(views)
			case out.parseable:
				// Print one line per light in key=value format
				for _, l := range lights {
					fmt.Println(LightParseable(l))
				}
				return nil
			}

			if len(lights) == 0 {
				pterm.Info.Println("No lights found")
				return nil
			}
			// Create a table for each light
			for _, l := range lights {
				if err := pterm.DefaultTable.WithData(LightTableData(l)).Render(); err != nil {
					return err
				}
				pterm.Println() // Add a blank line between lights
			}
			return nil
		},
	}
	out.register(cmd)
	return cmd
}

// newLightGetCommand creates the light get command
func newLightGetCommand() *cobra.Command {
	var out outputOptions
	cmd := &cobra.Command{
		Use:   "get [id|name] [property]",
		Short: "Get information about a light",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			s, err := sessionFromCmd(cmd)
			if err != nil {
				return err
			}
			light, err := lightFromArgs(s, args)
			if err != nil {
				return fmt.Errorf("failed to get light: %w", err)
			}

			view := newLightView(light)
			props := view.properties()

			// If a specific property was requested, only show that
			if len(args) > 1 {
				property := strings.ToLower(args[1])
				for _, p := range props {
					if p[0] != property {
						continue
					}
					if out.parseable {
						fmt.Println(parseable([][2]string{p}))
					} else {
						fmt.Println(p[1])
					}
					return nil
				}
				return fmt.Errorf("invalid property: %s", property)
			}

			switch {
			case out.yaml():
				return printYAML(view)
			case out.parseable:
				fmt.Println(LightParseable(light))
				return nil
			}
			return pterm.DefaultTable.WithHasHeader().WithData(propertyTable(props)).Render()
		},
	}
	out.register(cmd)
	return cmd
}

// setLight runs a change on the light named by args[0] and reports the result
func setLight(cmd *cobra.Command, args []string, parseable bool, fn func(ctx context.Context, s Session, l *hue.Light) (*hue.Light, error)) error {
	s, err := sessionFromCmd(cmd)
	if err != nil {
		return err
	}
	light, err := lightFromArgs(s, args)
	if err != nil {
		return fmt.Errorf("failed to get light: %w", err)
	}

	updated, err := fn(cmd.Context(), s, light)
	if err != nil {
		return fmt.Errorf("failed to set light state: %w", err)
	}

	if parseable {
		fmt.Println(LightParseable(updated))
		return nil
	}
	pterm.Success.Printf("Light %s updated\n", updated.Name)
	return nil
}

func newLightSwitchCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "switch [id|name] [on|off]",
		Short: "Turn a light on or off, toggling it without a state",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var state *bool
			if len(args) > 1 {
				on, err := parsePower(args[1])
				if err != nil {
					return err
				}
				state = &on
			}
			return setLight(cmd, args, parseable, func(ctx context.Context, s Session, l *hue.Light) (*hue.Light, error) {
				on := !l.On
				if state != nil {
					on = *state
				}
				return s.SetPower(ctx, l.ID.String(), on)
			})
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

func parsePower(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid power state %q, must be on or off", s)
	}
}

func newLightColorCommand() *cobra.Command {
	var (
		parseable bool
		x, y      float32
	)
	cmd := &cobra.Command{
		Use:   "color <id|name> --x X --y Y",
		Short: "Set the chromaticity of a light, restrained to its gamut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xy, err := color.NewPoint(x, y)
			if err != nil {
				return err
			}
			return setLight(cmd, args, parseable, func(ctx context.Context, s Session, l *hue.Light) (*hue.Light, error) {
				return s.SetColorXY(ctx, l.ID.String(), xy)
			})
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	cmd.Flags().Float32Var(&x, "x", 0, "CIE x coordinate")
	cmd.Flags().Float32Var(&y, "y", 0, "CIE y coordinate")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func newLightRGBCommand() *cobra.Command {
	var (
		parseable bool
		hex       string
	)
	cmd := &cobra.Command{
		Use:   "rgb <id|name> (<r> <g> <b> | --hex RRGGBB)",
		Short: "Set the color of a light from sRGB",
		Args: func(cmd *cobra.Command, args []string) error {
			if hex != "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(4)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rgb color.RGB8
				err error
			)
			if hex != "" {
				rgb, err = handlers.ParseHex(hex)
			} else {
				rgb, err = parseRGB(args[1:])
			}
			if err != nil {
				return err
			}
			return setLight(cmd, args, parseable, func(ctx context.Context, s Session, l *hue.Light) (*hue.Light, error) {
				return s.SetColorRGB(ctx, l.ID.String(), rgb)
			})
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	cmd.Flags().StringVar(&hex, "hex", "", "Hex color (#rgb or #rrggbb)")
	return cmd
}

// parseRGB parses three 0-255 channel arguments
func parseRGB(args []string) (color.RGB8, error) {
	var ch [3]uint8
	for i, a := range args {
		v, err := strconv.ParseUint(a, 10, 8)
		if err != nil {
			return color.RGB8{}, fmt.Errorf("invalid channel value %q, must be 0-255", a)
		}
		ch[i] = uint8(v)
	}
	return color.RGB8{R: ch[0], G: ch[1], B: ch[2]}, nil
}

func newLightDimCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "dim <id|name> <brightness>",
		Short: "Set the brightness of a light (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			brightness, err := strconv.ParseFloat(args[1], 32)
			if err != nil || brightness < 0 || brightness > 100 {
				return fmt.Errorf("invalid brightness value %q, must be 0-100", args[1])
			}
			return setLight(cmd, args, parseable, func(ctx context.Context, s Session, l *hue.Light) (*hue.Light, error) {
				return s.SetBrightness(ctx, l.ID.String(), float32(brightness))
			})
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}

func newLightTemperatureCommand() *cobra.Command {
	var parseable bool
	cmd := &cobra.Command{
		Use:   "temperature <id|name> <mirek>",
		Short: "Set the color temperature of a light in mirek",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mirek, err := strconv.Atoi(args[1])
			if err != nil || mirek <= 0 {
				return fmt.Errorf("invalid temperature value %q", args[1])
			}
			return setLight(cmd, args, parseable, func(ctx context.Context, s Session, l *hue.Light) (*hue.Light, error) {
				if l.Temperature != nil {
					lo, hi := l.Temperature.MirekSchema.Minimum, l.Temperature.MirekSchema.Maximum
					if lo > 0 && hi >= lo && (mirek < lo || mirek > hi) {
						pterm.Warning.Printf("%d mirek is outside %d-%d and will be clamped\n", mirek, lo, hi)
					}
				}
				return s.SetTemperature(ctx, l.ID.String(), mirek)
			})
		},
	}
	cmd.Flags().BoolVarP(&parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	return cmd
}
