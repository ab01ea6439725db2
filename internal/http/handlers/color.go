package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/hued/pkg/color"
)

// ConvertColorInput converts between sRGB and chromaticity for a gamut. Exactly
// one of xy, rgb and hex must be given.
type ConvertColorInput struct {
	Body struct {
		Gamut string  `json:"gamut,omitempty" enum:"A,B,C" default:"C" doc:"Gamut class to convert within"`
		XY    *XY     `json:"xy,omitempty" doc:"Chromaticity to convert to sRGB"`
		RGB   *RGB    `json:"rgb,omitempty" doc:"sRGB color to convert to chromaticity"`
		Hex   *string `json:"hex,omitempty" doc:"sRGB color as #rrggbb"`
	}
}

// ConvertColorOutput carries both representations of the converted color.
type ConvertColorOutput struct {
	Body struct {
		Gamut   string `json:"gamut" doc:"Gamut class used"`
		XY      XY     `json:"xy" doc:"Chromaticity inside the gamut"`
		RGB     RGB    `json:"rgb" doc:"sRGB at full brightness"`
		Hex     string `json:"hex" doc:"sRGB as #rrggbb"`
		InGamut bool   `json:"in_gamut" doc:"Whether an xy input was already inside the gamut, always true for sRGB input"`
	}
}

// ConvertColor runs the color engine without touching the bridge.
func ConvertColor(_ context.Context, input *ConvertColorInput) (*ConvertColorOutput, error) {
	body := input.Body
	gamutType := body.Gamut
	if gamutType == "" {
		gamutType = "C"
	}
	gamut, ok := color.GamutForType(gamutType)
	if !ok {
		return nil, huma.Error400BadRequest("unknown gamut " + gamutType)
	}

	out := &ConvertColorOutput{}
	out.Body.Gamut = gamutType

	var xy color.Point
	switch {
	case body.XY != nil && body.RGB == nil && body.Hex == nil:
		p, err := color.NewPoint(body.XY.X, body.XY.Y)
		if err != nil {
			return nil, apiError(err)
		}
		out.Body.InGamut = gamut.Contains(p)
		xy = gamut.Restrain(p)
	case body.RGB != nil && body.XY == nil && body.Hex == nil:
		xy = gamut.XYFromRGB8(rgbFromBody(*body.RGB))
		out.Body.InGamut = true
	case body.Hex != nil && body.XY == nil && body.RGB == nil:
		rgb, err := ParseHex(*body.Hex)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		xy = gamut.XYFromRGB8(rgb)
		out.Body.InGamut = true
	default:
		return nil, huma.Error400BadRequest("exactly one of xy, rgb and hex must be set")
	}

	rgb := gamut.RGB8FromXY(xy)
	out.Body.XY = xyFromPoint(xy)
	out.Body.RGB = RGB{R: int(rgb.R), G: int(rgb.G), B: int(rgb.B)}
	out.Body.Hex = rgb.Hex()
	return out, nil
}
