package color

import (
	"encoding/json"
	"fmt"
)

// Color is a chromaticity bound to the gamut it was validated against.
// The point of a Color is always contained in its gamut.
type Color struct {
	xy        Point
	gamut     Gamut
	gamutType string
}

// NewColor creates a Color. It fails with ErrOutOfGamut when xy lies outside
// the gamut; callers that want tolerant construction restrain first.
func NewColor(xy Point, gamut Gamut, gamutType string) (Color, error) {
	if !gamut.Contains(xy) {
		return Color{}, fmt.Errorf("%v outside gamut %s (%v): %w", xy, gamutType, gamut, ErrOutOfGamut)
	}
	return Color{xy: xy, gamut: gamut, gamutType: gamutType}, nil
}

// XY returns the chromaticity
func (c Color) XY() Point { return c.xy }

// Gamut returns the gamut the chromaticity is expressed against
func (c Color) Gamut() Gamut { return c.gamut }

// GamutType returns the gamut class tag as reported by the device
func (c Color) GamutType() string { return c.gamutType }

// WithXY returns a copy of c with its chromaticity replaced
func (c Color) WithXY(xy Point) (Color, error) {
	return NewColor(xy, c.gamut, c.gamutType)
}

// RGB8 returns the full brightness RGB rendition of the color
func (c Color) RGB8() RGB8 {
	return c.gamut.RGB8FromXY(c.xy)
}

type colorJSON struct {
	XY        Point  `json:"xy"`
	Gamut     Gamut  `json:"gamut"`
	GamutType string `json:"gamut_type"`
}

// MarshalJSON encodes the color the way the bridge reports it
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(colorJSON{XY: c.xy, Gamut: c.gamut, GamutType: c.gamutType})
}

// UnmarshalJSON decodes a color and rejects points outside the reported gamut
func (c *Color) UnmarshalJSON(data []byte) error {
	var raw colorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewColor(raw.XY, raw.Gamut, raw.GamutType)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
