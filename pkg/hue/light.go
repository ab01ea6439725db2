package hue

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmylchreest/hued/internal/config"
	"github.com/jmylchreest/hued/pkg/color"
)

// MirekSchema is the color temperature range a light supports
type MirekSchema struct {
	Minimum int `json:"mirek_minimum"`
	Maximum int `json:"mirek_maximum"`
}

// Temperature is the color temperature state of a light. Mirek is nil when
// the light is not in color temperature mode.
type Temperature struct {
	Mirek       *int        `json:"mirek"`
	MirekValid  bool        `json:"mirek_valid"`
	MirekSchema MirekSchema `json:"mirek_schema"`
}

// Light is a light resource of a bridge. Capabilities a light lacks are nil.
// Setters update the local fields only after the bridge accepted the change.
type Light struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Archetype   string       `json:"archetype,omitempty"`
	On          bool         `json:"on"`
	Brightness  *float32     `json:"brightness,omitempty"`
	Color       *color.Color `json:"color,omitempty"`
	Temperature *Temperature `json:"temperature,omitempty"`

	hue *Hue
}

// newLight converts a bridge resource. A color that is not representable is
// dropped and reported; the light itself is always returned.
func newLight(h *Hue, r lightResource) (*Light, error) {
	l := &Light{
		ID:          r.ID,
		Name:        r.Metadata.Name,
		Archetype:   r.Metadata.Archetype,
		On:          r.On.On,
		Temperature: r.ColorTemperature,
		hue:         h,
	}
	if r.Dimming != nil {
		b := r.Dimming.Brightness
		l.Brightness = &b
	}
	if r.Color != nil {
		c, err := parseColor(*r.Color)
		if err != nil {
			return l, fmt.Errorf("light %s: %w", r.ID, err)
		}
		l.Color = &c
	}
	return l, nil
}

func parseColor(v colorValue) (color.Color, error) {
	xy, err := color.NewPoint(v.XY.X, v.XY.Y)
	if err != nil {
		return color.Color{}, err
	}

	var gamut color.Gamut
	if v.Gamut != nil {
		gamut, err = parseGamut(*v.Gamut)
		if err != nil {
			return color.Color{}, err
		}
	} else {
		var ok bool
		if gamut, ok = color.GamutForType(v.GamutType); !ok {
			return color.Color{}, fmt.Errorf("no gamut reported for gamut type %q: %w", v.GamutType, color.ErrDegenerateGamut)
		}
	}

	return color.NewColor(xy, gamut, v.GamutType)
}

func parseGamut(v gamutValue) (color.Gamut, error) {
	var points [3]color.Point
	for i, xy := range [...]xyValue{v.Red, v.Green, v.Blue} {
		p, err := color.NewPoint(xy.X, xy.Y)
		if err != nil {
			return color.Gamut{}, err
		}
		points[i] = p
	}
	return color.NewGamut(points[0], points[1], points[2])
}

func (l *Light) path() string {
	return "clip/v2/resource/light/" + l.ID.String()
}

func (l *Light) update(ctx context.Context, u lightUpdate) error {
	if l.hue == nil {
		return fmt.Errorf("light %s is not bound to a bridge session: %w", l.ID, ErrNotAuthorized)
	}
	return l.hue.putResource(ctx, l.path(), u)
}

// Switch turns the light on or off
func (l *Light) Switch(ctx context.Context, on bool) error {
	if err := l.update(ctx, lightUpdate{On: &onState{On: on}}); err != nil {
		return err
	}
	l.On = on
	return nil
}

// Toggle inverts the on state
func (l *Light) Toggle(ctx context.Context) error {
	return l.Switch(ctx, !l.On)
}

// SetColor sets the chromaticity. Points outside the light's gamut are
// restrained onto its boundary before being sent.
func (l *Light) SetColor(ctx context.Context, xy color.Point) error {
	if l.Color == nil {
		return fmt.Errorf("light %s has no color: %w", l.ID, ErrUnsupported)
	}

	xy = l.Color.Gamut().Restrain(xy)
	if err := l.update(ctx, lightUpdate{Color: &colorUpdate{XY: xyValue{X: xy.X(), Y: xy.Y()}}}); err != nil {
		return err
	}

	c, err := l.Color.WithXY(xy)
	if err != nil {
		return err
	}
	l.Color = &c
	return nil
}

// SetColorRGB sets the chromaticity matching an sRGB triple
func (l *Light) SetColorRGB(ctx context.Context, rgb color.RGB8) error {
	if l.Color == nil {
		return fmt.Errorf("light %s has no color: %w", l.ID, ErrUnsupported)
	}
	return l.SetColor(ctx, l.Color.Gamut().XYFromRGB8(rgb))
}

// Dim sets the brightness in percent, clamped to [0, 100]
func (l *Light) Dim(ctx context.Context, brightness float32) error {
	if l.Brightness == nil {
		return fmt.Errorf("light %s is not dimmable: %w", l.ID, ErrUnsupported)
	}

	brightness = min(max(brightness, config.MinBrightness), config.MaxBrightness)
	if err := l.update(ctx, lightUpdate{Dimming: &dimmingUpdate{Brightness: brightness}}); err != nil {
		return err
	}
	l.Brightness = &brightness
	return nil
}

// SetTemperature sets the color temperature in mirek, clamped to the
// light's schema.
func (l *Light) SetTemperature(ctx context.Context, mirek int) error {
	if l.Temperature == nil {
		return fmt.Errorf("light %s has no color temperature: %w", l.ID, ErrUnsupported)
	}

	lo, hi := l.Temperature.MirekSchema.Minimum, l.Temperature.MirekSchema.Maximum
	if lo == 0 || hi == 0 || lo > hi {
		lo, hi = config.MinMirek, config.MaxMirek
	}
	mirek = min(max(mirek, lo), hi)

	if err := l.update(ctx, lightUpdate{ColorTemperature: &mirekUpdate{Mirek: mirek}}); err != nil {
		return err
	}
	t := *l.Temperature
	t.Mirek = &mirek
	t.MirekValid = true
	l.Temperature = &t
	return nil
}
