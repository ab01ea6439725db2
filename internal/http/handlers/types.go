// Package handlers provides typed Huma request/response structs and handler
// implementations for the hued HTTP API.
package handlers

import (
	"time"

	"github.com/jmylchreest/hued/pkg/color"
	"github.com/jmylchreest/hued/pkg/hue"
)

// --- Light types ---

// XY is a CIE 1931 chromaticity pair.
type XY struct {
	X float32 `json:"x" minimum:"0" doc:"x chromaticity"`
	Y float32 `json:"y" minimum:"0" doc:"y chromaticity"`
}

// RGB is an 8-bit sRGB triple.
type RGB struct {
	R int `json:"r" minimum:"0" maximum:"255" doc:"Red channel"`
	G int `json:"g" minimum:"0" maximum:"255" doc:"Green channel"`
	B int `json:"b" minimum:"0" maximum:"255" doc:"Blue channel"`
}

// ColorResponse is the color state of a light.
type ColorResponse struct {
	XY        XY     `json:"xy" doc:"Current chromaticity"`
	GamutType string `json:"gamut_type,omitempty" doc:"Gamut class reported by the bridge (A, B or C)"`
	Gamut     Gamut  `json:"gamut" doc:"Primaries of the light's gamut"`
	Hex       string `json:"hex" doc:"Approximate sRGB value at full brightness"`
}

// Gamut lists the primaries of a gamut triangle.
type Gamut struct {
	Red   XY `json:"red"`
	Green XY `json:"green"`
	Blue  XY `json:"blue"`
}

// TemperatureResponse is the color temperature state of a light.
type TemperatureResponse struct {
	Mirek    *int `json:"mirek" doc:"Current color temperature in mirek, null when the light is in color mode"`
	Valid    bool `json:"valid" doc:"Whether the mirek value is currently valid"`
	MinMirek int  `json:"min_mirek" doc:"Coolest supported temperature"`
	MaxMirek int  `json:"max_mirek" doc:"Warmest supported temperature"`
}

// LightResponse is the API representation of a light.
type LightResponse struct {
	ID          string               `json:"id" doc:"Light resource identifier (UUID)"`
	Name        string               `json:"name" doc:"Display name of the light"`
	Archetype   string               `json:"archetype,omitempty" doc:"Light archetype as configured in the Hue app"`
	On          bool                 `json:"on" doc:"Whether the light is currently on"`
	Brightness  *float32             `json:"brightness,omitempty" doc:"Brightness in percent, absent for lights that cannot dim"`
	Color       *ColorResponse       `json:"color,omitempty" doc:"Color state, absent for lights without color support"`
	Temperature *TemperatureResponse `json:"temperature,omitempty" doc:"Color temperature state, absent for lights without white tuning"`
}

func xyFromPoint(p color.Point) XY {
	return XY{X: p.X(), Y: p.Y()}
}

func gamutFromColor(g color.Gamut) Gamut {
	return Gamut{Red: xyFromPoint(g.Red()), Green: xyFromPoint(g.Green()), Blue: xyFromPoint(g.Blue())}
}

// LightFromHue converts a hue.Light to a LightResponse.
func LightFromHue(l *hue.Light) LightResponse {
	resp := LightResponse{
		ID:         l.ID.String(),
		Name:       l.Name,
		Archetype:  l.Archetype,
		On:         l.On,
		Brightness: l.Brightness,
	}
	if l.Color != nil {
		resp.Color = &ColorResponse{
			XY:        xyFromPoint(l.Color.XY()),
			GamutType: l.Color.GamutType(),
			Gamut:     gamutFromColor(l.Color.Gamut()),
			Hex:       l.Color.RGB8().Hex(),
		}
	}
	if t := l.Temperature; t != nil {
		resp.Temperature = &TemperatureResponse{
			Mirek:    t.Mirek,
			Valid:    t.MirekValid,
			MinMirek: t.MirekSchema.Minimum,
			MaxMirek: t.MirekSchema.Maximum,
		}
	}
	return resp
}

// LightsFromHue converts lights, keeping their order.
func LightsFromHue(lights []*hue.Light) []LightResponse {
	result := make([]LightResponse, 0, len(lights))
	for _, l := range lights {
		result = append(result, LightFromHue(l))
	}
	return result
}

// --- Bridge types ---

// BridgeResponse describes the bridge the daemon is connected to.
type BridgeResponse struct {
	ID          string    `json:"id" doc:"Bridge identifier"`
	Name        string    `json:"name" doc:"Bridge name"`
	Model       string    `json:"model" doc:"Bridge model (BSB001, BSB002 or Unknown)"`
	Version     string    `json:"version" doc:"Bridge software version"`
	Address     string    `json:"address" doc:"Bridge IP address"`
	Supported   bool      `json:"supported" doc:"Whether the software version supports the CLIP v2 API"`
	Reachable   bool      `json:"reachable" doc:"Whether the last refresh reached the bridge"`
	LastRefresh time.Time `json:"last_refresh" doc:"Time of the last successful refresh"`
}

// BridgeFromHue converts a hue.Bridge and the manager status to a BridgeResponse.
func BridgeFromHue(b hue.Bridge, reachable bool, lastRefresh time.Time) BridgeResponse {
	return BridgeResponse{
		ID:          b.ID,
		Name:        b.Name,
		Model:       string(b.Model),
		Version:     b.Version,
		Address:     b.Address.String(),
		Supported:   b.Supported,
		Reachable:   reachable,
		LastRefresh: lastRefresh,
	}
}

// --- Common response types ---

// StatusResponse is a simple status response.
type StatusResponse struct {
	Status string `json:"status" doc:"Operation status"`
}
