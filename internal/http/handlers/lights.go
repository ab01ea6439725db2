package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/hued/pkg/color"
	"github.com/jmylchreest/hued/pkg/hue"
)

// LightManager is the subset of hue.Manager the handlers need.
type LightManager interface {
	Bridge() hue.Bridge
	Status() (reachable bool, lastRefresh time.Time)
	Refresh(ctx context.Context) error
	GetLights() []*hue.Light
	GetLight(id string) (*hue.Light, error)
	SetPower(ctx context.Context, id string, on bool) (*hue.Light, error)
	SetBrightness(ctx context.Context, id string, brightness float32) (*hue.Light, error)
	SetColorXY(ctx context.Context, id string, xy color.Point) (*hue.Light, error)
	SetColorRGB(ctx context.Context, id string, rgb color.RGB8) (*hue.Light, error)
	SetTemperature(ctx context.Context, id string, mirek int) (*hue.Light, error)
}

var _ LightManager = (*hue.Manager)(nil)

// --- List Lights ---

// ListLightsInput is the input for listing all lights.
type ListLightsInput struct{}

// ListLightsOutput is the output for listing all lights, sorted by name.
type ListLightsOutput struct {
	Body []LightResponse
}

// --- Get Light ---

// GetLightInput is the input for getting a single light.
type GetLightInput struct {
	ID string `path:"id" doc:"Light resource identifier (UUID)"`
}

// GetLightOutput is the output for getting a single light.
type GetLightOutput struct {
	Body LightResponse
}

// --- Set Light State ---

// LightStateBody holds the properties to change. Only one of xy, rgb and hex
// may be given.
type LightStateBody struct {
	On          *bool    `json:"on,omitempty" doc:"Power state"`
	Brightness  *float32 `json:"brightness,omitempty" minimum:"0" maximum:"100" doc:"Brightness in percent"`
	XY          *XY      `json:"xy,omitempty" doc:"Target chromaticity, restrained into the light's gamut"`
	RGB         *RGB     `json:"rgb,omitempty" doc:"Target sRGB color"`
	Hex         *string  `json:"hex,omitempty" doc:"Target sRGB color as #rrggbb"`
	Temperature *int     `json:"temperature,omitempty" doc:"Color temperature in mirek"`
}

// SetLightStateInput is the input for setting a light's state.
type SetLightStateInput struct {
	ID   string `path:"id" doc:"Light resource identifier (UUID)"`
	Body LightStateBody
}

// SetLightStateOutput returns the light after all changes were applied.
type SetLightStateOutput struct {
	Body LightResponse
}

// --- Refresh ---

// RefreshLightsInput is the input for forcing a refresh.
type RefreshLightsInput struct{}

// --- Bridge ---

// GetBridgeInput is the input for the bridge status endpoint.
type GetBridgeInput struct{}

// GetBridgeOutput is the output for the bridge status endpoint.
type GetBridgeOutput struct {
	Body BridgeResponse
}

// LightHandler implements light-related HTTP handlers.
type LightHandler struct {
	Lights LightManager
}

// ListLights returns all cached lights.
func (h *LightHandler) ListLights(_ context.Context, _ *ListLightsInput) (*ListLightsOutput, error) {
	return &ListLightsOutput{Body: LightsFromHue(h.Lights.GetLights())}, nil
}

// GetLight returns a single light by ID.
func (h *LightHandler) GetLight(_ context.Context, input *GetLightInput) (*GetLightOutput, error) {
	light, err := h.Lights.GetLight(input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &GetLightOutput{Body: LightFromHue(light)}, nil
}

// SetLightState applies power, brightness, color and temperature in that
// order and stops at the first failure.
func (h *LightHandler) SetLightState(ctx context.Context, input *SetLightStateInput) (*SetLightStateOutput, error) {
	body := input.Body

	colors := 0
	for _, set := range []bool{body.XY != nil, body.RGB != nil, body.Hex != nil} {
		if set {
			colors++
		}
	}
	if colors > 1 {
		return nil, huma.Error400BadRequest("only one of xy, rgb and hex may be set")
	}

	light, err := h.Lights.GetLight(input.ID)
	if err != nil {
		return nil, apiError(err)
	}

	if body.On != nil {
		if light, err = h.Lights.SetPower(ctx, input.ID, *body.On); err != nil {
			return nil, apiError(err)
		}
	}
	if body.Brightness != nil {
		if light, err = h.Lights.SetBrightness(ctx, input.ID, *body.Brightness); err != nil {
			return nil, apiError(err)
		}
	}

	switch {
	case body.XY != nil:
		xy, err := color.NewPoint(body.XY.X, body.XY.Y)
		if err != nil {
			return nil, apiError(err)
		}
		if light, err = h.Lights.SetColorXY(ctx, input.ID, xy); err != nil {
			return nil, apiError(err)
		}
	case body.RGB != nil:
		if light, err = h.Lights.SetColorRGB(ctx, input.ID, rgbFromBody(*body.RGB)); err != nil {
			return nil, apiError(err)
		}
	case body.Hex != nil:
		rgb, err := ParseHex(*body.Hex)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if light, err = h.Lights.SetColorRGB(ctx, input.ID, rgb); err != nil {
			return nil, apiError(err)
		}
	}

	if body.Temperature != nil {
		if light, err = h.Lights.SetTemperature(ctx, input.ID, *body.Temperature); err != nil {
			return nil, apiError(err)
		}
	}

	return &SetLightStateOutput{Body: LightFromHue(light)}, nil
}

// RefreshLights reloads the cache from the bridge and returns the result.
func (h *LightHandler) RefreshLights(ctx context.Context, _ *RefreshLightsInput) (*ListLightsOutput, error) {
	if err := h.Lights.Refresh(ctx); err != nil {
		return nil, apiError(err)
	}
	return &ListLightsOutput{Body: LightsFromHue(h.Lights.GetLights())}, nil
}

// GetBridge reports the bridge and whether the daemon can reach it.
func (h *LightHandler) GetBridge(_ context.Context, _ *GetBridgeInput) (*GetBridgeOutput, error) {
	reachable, last := h.Lights.Status()
	return &GetBridgeOutput{Body: BridgeFromHue(h.Lights.Bridge(), reachable, last)}, nil
}

func rgbFromBody(c RGB) color.RGB8 {
	return color.RGB8{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B)}
}

// ParseHex parses "#rrggbb" or "#rgb" into an sRGB triple.
func ParseHex(s string) (color.RGB8, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return color.RGB8{}, fmt.Errorf("invalid hex color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGB8{}, err
	}
	r, g, b := c.RGB255()
	return color.RGB8{R: r, G: g, B: b}, nil
}

// Ensure LightHandler implements the interface at compile time.
var _ LightHandlers = (*LightHandler)(nil)

// LightHandlers defines the interface for light operations.
type LightHandlers interface {
	ListLights(ctx context.Context, input *ListLightsInput) (*ListLightsOutput, error)
	GetLight(ctx context.Context, input *GetLightInput) (*GetLightOutput, error)
	SetLightState(ctx context.Context, input *SetLightStateInput) (*SetLightStateOutput, error)
	RefreshLights(ctx context.Context, input *RefreshLightsInput) (*ListLightsOutput, error)
	GetBridge(ctx context.Context, input *GetBridgeInput) (*GetBridgeOutput, error)
}
