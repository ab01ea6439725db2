package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hued/pkg/hue"
)

// NewDeviceCommand creates the device command
func NewDeviceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Inspect devices paired with the bridge",
	}
	cmd.AddCommand(newDeviceListCommand())
	return cmd
}

type deviceView struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Product      string   `yaml:"product"`
	Model        string   `yaml:"model"`
	Manufacturer string   `yaml:"manufacturer"`
	Software     string   `yaml:"software"`
	Lights       []string `yaml:"lights,omitempty"`
}

func newDeviceView(d hue.Device) deviceView {
	v := deviceView{
		ID:           d.ID.String(),
		Name:         d.Name,
		Product:      d.Product.ProductName,
		Model:        d.Product.ModelID,
		Manufacturer: d.Product.ManufacturerName,
		Software:     d.Product.SoftwareVersion,
	}
	for _, id := range d.LightIDs() {
		v.Lights = append(v.Lights, id.String())
	}
	return v
}

func newDeviceListCommand() *cobra.Command {
	var out outputOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			s, err := sessionFromCmd(cmd)
			if err != nil {
				return err
			}
			devices, err := s.Devices(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get devices: %w", err)
			}
			sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })

			switch {
			case out.yaml():
				views := make([]deviceView, 0, len(devices))
				for _, d := range devices {
					views = append(views, newDeviceView(d))
				}
				return printYAML(views)
			case out.parseable:
				for _, d := range devices {
					fmt.Println(DeviceParseable(d))
				}
				return nil
			}

			if len(devices) == 0 {
				pterm.Info.Println("No devices paired")
				return nil
			}
			table := pterm.TableData{{"ID", "Name", "Product", "Model", "Lights"}}
			for _, d := range devices {
				v := newDeviceView(d)
				table = append(table, []string{v.ID, v.Name, v.Product, v.Model, strings.Join(v.Lights, ",")})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
		},
	}
	out.register(cmd)
	return cmd
}
