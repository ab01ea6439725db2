package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hued/internal/http/handlers"
	"github.com/jmylchreest/hued/pkg/color"
)

// NewColorCommand creates the color command. Its subcommands never contact
// a bridge.
func NewColorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "color",
		Short: "Convert colors within a gamut",
	}

	cmd.AddCommand(
		newColorRGBCommand(),
		newColorXYCommand(),
		newColorHexCommand(),
	)

	return cmd
}

type colorFlags struct {
	outputOptions
	gamut string
}

func (f *colorFlags) register(cmd *cobra.Command) {
	f.outputOptions.register(cmd)
	cmd.Flags().StringVarP(&f.gamut, "gamut", "g", "C", "Gamut class (A, B, C)")
}

func (f *colorFlags) resolve() (color.Gamut, string, error) {
	if err := f.validate(); err != nil {
		return color.Gamut{}, "", err
	}
	tag := strings.ToUpper(f.gamut)
	g, ok := color.GamutForType(tag)
	if !ok {
		return color.Gamut{}, "", fmt.Errorf("invalid gamut %q, must be one of: A, B, C", f.gamut)
	}
	return g, tag, nil
}

// convert renders xy, which must already be inside g
func convert(g color.Gamut, tag string, xy color.Point, inGamut bool) colorResult {
	rgb := g.RGB8FromXY(xy)
	return colorResult{
		Gamut:   tag,
		X:       xy.X(),
		Y:       xy.Y(),
		R:       rgb.R,
		G:       rgb.G,
		B:       rgb.B,
		Hex:     rgb.Hex(),
		InGamut: inGamut,
	}
}

func (f *colorFlags) print(r colorResult) error {
	switch {
	case f.yaml():
		return printYAML(r)
	case f.parseable:
		fmt.Println(parseable(r.properties()))
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(propertyTable(r.properties())).Render()
}

func newColorRGBCommand() *cobra.Command {
	var flags colorFlags
	cmd := &cobra.Command{
		Use:   "rgb <r> <g> <b>",
		Short: "Convert sRGB to the nearest chromaticity in a gamut",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, tag, err := flags.resolve()
			if err != nil {
				return err
			}
			rgb, err := parseRGB(args)
			if err != nil {
				return err
			}
			return flags.print(convert(g, tag, g.XYFromRGB8(rgb), true))
		},
	}
	flags.register(cmd)
	return cmd
}

func newColorHexCommand() *cobra.Command {
	var flags colorFlags
	cmd := &cobra.Command{
		Use:   "hex <rrggbb>",
		Short: "Convert a hex sRGB color to the nearest chromaticity in a gamut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, tag, err := flags.resolve()
			if err != nil {
				return err
			}
			rgb, err := handlers.ParseHex(args[0])
			if err != nil {
				return err
			}
			return flags.print(convert(g, tag, g.XYFromRGB8(rgb), true))
		},
	}
	flags.register(cmd)
	return cmd
}

func newColorXYCommand() *cobra.Command {
	var flags colorFlags
	cmd := &cobra.Command{
		Use:   "xy <x> <y>",
		Short: "Restrain a chromaticity to a gamut and convert it to sRGB",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, tag, err := flags.resolve()
			if err != nil {
				return err
			}
			var c [2]float32
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 32)
				if err != nil {
					return fmt.Errorf("invalid coordinate %q", a)
				}
				c[i] = float32(v)
			}
			p, err := color.NewPoint(c[0], c[1])
			if err != nil {
				return err
			}
			return flags.print(convert(g, tag, g.Restrain(p), g.Contains(p)))
		},
	}
	flags.register(cmd)
	return cmd
}
