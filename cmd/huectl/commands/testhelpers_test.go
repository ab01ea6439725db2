package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"regexp"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hued/internal/config"
	"github.com/jmylchreest/hued/internal/errors"
	"github.com/jmylchreest/hued/pkg/color"
	"github.com/jmylchreest/hued/pkg/hue"
)

const (
	deskID  = "3f3e6f4c-9f0a-4c8e-a5d7-1b2c3d4e5f60"
	plugID  = "c0ffee00-1234-4567-89ab-cdef01234567"
	bulbID  = "5ca1ab1e-0000-4000-8000-000000000001"
	bridgeS = "001788FFFE123456"
)

// captureStdout captures stdout during the execution of f, disables pterm color, and strips ANSI codes from the output.
func captureStdout(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Save original pterm settings and default table writer
	oldPrintColor := pterm.PrintColor
	oldOutput := pterm.Output
	oldDefaultTableWriter := pterm.DefaultTable.Writer

	pterm.PrintColor = false
	pterm.Output = true
	pterm.DefaultTable.Writer = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = oldStdout

	// Restore pterm
	pterm.PrintColor = oldPrintColor
	pterm.Output = oldOutput
	pterm.DefaultTable.Writer = oldDefaultTableWriter

	out := <-outC

	// Strip ANSI escape codes
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(out, "")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock session ---

type mockSession struct {
	lights   map[string]*hue.Light
	devices  []hue.Device
	calls    []string
	failWith error
}

var _ Session = (*mockSession)(nil)

func newMockSession(t *testing.T) *mockSession {
	t.Helper()

	xy, err := color.NewPoint(0.4, 0.4)
	require.NoError(t, err)
	c, err := color.NewColor(xy, color.GamutC, "C")
	require.NoError(t, err)
	brightness := float32(50)
	mirek := 366

	return &mockSession{
		lights: map[string]*hue.Light{
			deskID: {
				ID:          uuid.MustParse(deskID),
				Name:        "Desk",
				Archetype:   "sultan_bulb",
				On:          true,
				Brightness:  &brightness,
				Color:       &c,
				Temperature: &hue.Temperature{Mirek: &mirek, MirekValid: true, MirekSchema: hue.MirekSchema{Minimum: 153, Maximum: 500}},
			},
			plugID: {
				ID:   uuid.MustParse(plugID),
				Name: "Plug",
			},
		},
		devices: []hue.Device{
			{
				ID:   uuid.MustParse(bulbID),
				Name: "Desk bulb",
				Product: hue.ProductData{
					ModelID:          "LCA001",
					ManufacturerName: "Signify Netherlands B.V.",
					ProductName:      "Hue color lamp",
					SoftwareVersion:  "1.104.2",
				},
				Services: []hue.ResourceIdentifier{{RID: uuid.MustParse(deskID), RType: "light"}},
			},
		},
	}
}

func (m *mockSession) Bridge() hue.Bridge {
	return hue.Bridge{
		ID:        bridgeS,
		Name:      "Test Bridge",
		Model:     hue.ModelBSB002,
		Version:   "1967054020",
		Address:   net.ParseIP("192.0.2.2"),
		Supported: true,
	}
}

func (m *mockSession) GetLights() []*hue.Light {
	ids := make([]string, 0, len(m.lights))
	for id := range m.lights {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	lights := make([]*hue.Light, 0, len(ids))
	for _, id := range ids {
		l := *m.lights[id]
		lights = append(lights, &l)
	}
	return lights
}

func (m *mockSession) GetLight(id string) (*hue.Light, error) {
	l, ok := m.lights[id]
	if !ok {
		return nil, errors.NotFoundf("light %s", id)
	}
	cp := *l
	return &cp, nil
}

func (m *mockSession) update(id, call string, fn func(*hue.Light) error) (*hue.Light, error) {
	m.calls = append(m.calls, call)
	if m.failWith != nil {
		return nil, m.failWith
	}
	l, ok := m.lights[id]
	if !ok {
		return nil, errors.NotFoundf("light %s", id)
	}
	if err := fn(l); err != nil {
		return nil, err
	}
	cp := *l
	return &cp, nil
}

func (m *mockSession) SetPower(_ context.Context, id string, on bool) (*hue.Light, error) {
	return m.update(id, fmt.Sprintf("power=%v", on), func(l *hue.Light) error {
		l.On = on
		return nil
	})
}

func (m *mockSession) SetBrightness(_ context.Context, id string, brightness float32) (*hue.Light, error) {
	return m.update(id, fmt.Sprintf("brightness=%g", brightness), func(l *hue.Light) error {
		if l.Brightness == nil {
			return fmt.Errorf("light %s cannot dim: %w", id, hue.ErrUnsupported)
		}
		l.Brightness = &brightness
		return nil
	})
}

func (m *mockSession) SetColorXY(_ context.Context, id string, xy color.Point) (*hue.Light, error) {
	return m.update(id, "xy="+xy.String(), func(l *hue.Light) error {
		if l.Color == nil {
			return fmt.Errorf("light %s has no color: %w", id, hue.ErrUnsupported)
		}
		c, err := l.Color.WithXY(l.Color.Gamut().Restrain(xy))
		if err != nil {
			return err
		}
		l.Color = &c
		return nil
	})
}

func (m *mockSession) SetColorRGB(ctx context.Context, id string, rgb color.RGB8) (*hue.Light, error) {
	m.calls = append(m.calls, "rgb="+rgb.Hex())
	l, ok := m.lights[id]
	if !ok || l.Color == nil {
		return nil, fmt.Errorf("light %s has no color: %w", id, hue.ErrUnsupported)
	}
	return m.SetColorXY(ctx, id, l.Color.Gamut().XYFromRGB8(rgb))
}

func (m *mockSession) SetTemperature(_ context.Context, id string, mirek int) (*hue.Light, error) {
	return m.update(id, fmt.Sprintf("mirek=%d", mirek), func(l *hue.Light) error {
		if l.Temperature == nil {
			return fmt.Errorf("light %s has no color temperature: %w", id, hue.ErrUnsupported)
		}
		t := *l.Temperature
		t.Mirek = &mirek
		l.Temperature = &t
		return nil
	})
}

func (m *mockSession) Devices(context.Context) ([]hue.Device, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.devices, nil
}

// mockContext returns a context whose connector always yields s
func mockContext(s Session) context.Context {
	ctx := WithLogger(context.Background(), testLogger())
	ctx = WithConfig(ctx, config.New(nil))
	return WithConnector(ctx, func(context.Context, *config.Config, *slog.Logger, ...hue.Option) (Session, error) {
		return s, nil
	})
}
