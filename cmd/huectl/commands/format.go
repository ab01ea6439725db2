package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hued/pkg/color"
	"github.com/jmylchreest/hued/pkg/hue"
)

// Output formats selectable with --output
const (
	outputTable = "table"
	outputYAML  = "yaml"
)

// outputOptions are the flags shared by every command that prints data
type outputOptions struct {
	parseable bool
	format    string
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.parseable, "parseable", "p", false, "Output in parseable format (key=value)")
	cmd.Flags().StringVarP(&o.format, "output", "o", outputTable, "Output format (table, yaml)")
}

func (o *outputOptions) validate() error {
	switch o.format {
	case outputTable, outputYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format %q, must be one of: table, yaml", o.format)
	}
}

func (o *outputOptions) yaml() bool { return o.format == outputYAML }

// lightView is the printed form of a light
type lightView struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Archetype   string           `yaml:"archetype,omitempty"`
	On          bool             `yaml:"on"`
	Brightness  *float32         `yaml:"brightness,omitempty"`
	Color       *colorView       `yaml:"color,omitempty"`
	Temperature *temperatureView `yaml:"temperature,omitempty"`
}

type colorView struct {
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Gamut string  `yaml:"gamut"`
	Hex   string  `yaml:"hex"`
}

type temperatureView struct {
	Mirek *int `yaml:"mirek,omitempty"`
	Valid bool `yaml:"valid"`
	Min   int  `yaml:"min"`
	Max   int  `yaml:"max"`
}

func newLightView(l *hue.Light) lightView {
	v := lightView{
		ID:         l.ID.String(),
		Name:       l.Name,
		Archetype:  l.Archetype,
		On:         l.On,
		Brightness: l.Brightness,
	}
	if l.Color != nil {
		xy := l.Color.XY()
		v.Color = &colorView{X: xy.X(), Y: xy.Y(), Gamut: l.Color.GamutType(), Hex: l.Color.RGB8().Hex()}
	}
	if t := l.Temperature; t != nil {
		v.Temperature = &temperatureView{Mirek: t.Mirek, Valid: t.MirekValid, Min: t.MirekSchema.Minimum, Max: t.MirekSchema.Maximum}
	}
	return v
}

// properties returns the printable properties of a light, in display order.
// Capabilities the light lacks are left out.
func (v lightView) properties() [][2]string {
	props := [][2]string{
		{"id", v.ID},
		{"name", v.Name},
		{"archetype", v.Archetype},
		{"on", fmt.Sprintf("%v", v.On)},
	}
	if v.Brightness != nil {
		props = append(props, [2]string{"brightness", fmt.Sprintf("%.1f", *v.Brightness)})
	}
	if c := v.Color; c != nil {
		props = append(props,
			[2]string{"x", fmt.Sprintf("%.4f", c.X)},
			[2]string{"y", fmt.Sprintf("%.4f", c.Y)},
			[2]string{"gamut", c.Gamut},
			[2]string{"hex", c.Hex},
		)
	}
	if t := v.Temperature; t != nil {
		mirek := "none"
		if t.Mirek != nil {
			mirek = fmt.Sprintf("%d", *t.Mirek)
		}
		props = append(props, [2]string{"temperature", mirek}, [2]string{"mirek_range", fmt.Sprintf("%d-%d", t.Min, t.Max)})
	}
	return props
}

// LightParseable returns the parseable key=value string for a light
func LightParseable(l *hue.Light) string {
	return parseable(newLightView(l).properties())
}

// LightTableData returns the table data for a light, with bold ID and value
func LightTableData(l *hue.Light) pterm.TableData {
	props := newLightView(l).properties()
	data := pterm.TableData{
		[]string{pterm.Bold.Sprint("ID"), pterm.Bold.Sprint(props[0][1])},
	}
	for _, p := range props[1:] {
		data = append(data, []string{displayName(p[0]), p[1]})
	}
	return data
}

// BridgeParseable returns the parseable key=value string for a bridge
func BridgeParseable(b hue.Bridge) string {
	return parseable(bridgeProperties(b))
}

func bridgeProperties(b hue.Bridge) [][2]string {
	return [][2]string{
		{"id", b.ID},
		{"name", b.Name},
		{"model", string(b.Model)},
		{"version", b.Version},
		{"address", b.Host()},
		{"supported", fmt.Sprintf("%v", b.Supported)},
	}
}

// DeviceParseable returns the parseable key=value string for a device
func DeviceParseable(d hue.Device) string {
	v := newDeviceView(d)
	return parseable([][2]string{
		{"id", v.ID},
		{"name", v.Name},
		{"product", v.Product},
		{"model", v.Model},
		{"manufacturer", v.Manufacturer},
		{"software", v.Software},
		{"lights", strings.Join(v.Lights, ",")},
	})
}

// colorResult is the output of the offline color commands
type colorResult struct {
	Gamut   string  `yaml:"gamut"`
	X       float32 `yaml:"x"`
	Y       float32 `yaml:"y"`
	R       uint8   `yaml:"r"`
	G       uint8   `yaml:"g"`
	B       uint8   `yaml:"b"`
	Hex     string  `yaml:"hex"`
	InGamut bool    `yaml:"in_gamut"`
}

func (r colorResult) properties() [][2]string {
	return [][2]string{
		{"gamut", r.Gamut},
		{"x", fmt.Sprintf("%.4f", r.X)},
		{"y", fmt.Sprintf("%.4f", r.Y)},
		{"rgb", color.RGB8{R: r.R, G: r.G, B: r.B}.String()},
		{"hex", r.Hex},
		{"in_gamut", fmt.Sprintf("%v", r.InGamut)},
	}
}

func parseable(props [][2]string) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		switch p[0] {
		case "on", "brightness", "x", "y", "supported", "in_gamut", "temperature":
			parts = append(parts, fmt.Sprintf("%s=%s", p[0], p[1]))
		default:
			parts = append(parts, fmt.Sprintf("%s=%q", p[0], p[1]))
		}
	}
	return strings.Join(parts, " ")
}

func displayName(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		switch w {
		case "id", "rgb", "hex":
			words[i] = strings.ToUpper(w)
		default:
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
	}
	return strings.Join(words, " ")
}

// propertyTable renders key/value pairs as a two-column table
func propertyTable(props [][2]string) pterm.TableData {
	data := pterm.TableData{[]string{"Property", "Value"}}
	for _, p := range props {
		data = append(data, []string{displayName(p[0]), p[1]})
	}
	return data
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func printYAML(v any) error {
	return writeYAML(os.Stdout, v)
}
