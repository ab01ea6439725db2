package routes

import (
	"context"

	"github.com/jmylchreest/hued/internal/http/handlers"
)

// none is a handler that never produces a response. Huma only needs the
// signature to derive the schemas.
func none[I, O any](context.Context, *I) (*O, error) { return nil, nil }

// StubHandlers returns handlers that do nothing, for rendering the OpenAPI
// document without a bridge.
func StubHandlers() *Handlers {
	return &Handlers{
		HealthCheck:  none[handlers.HealthInput, handlers.HealthOutput],
		VersionCheck: none[handlers.VersionInput, handlers.VersionOutput],
		ConvertColor: none[handlers.ConvertColorInput, handlers.ConvertColorOutput],
		Light:        stubLights{},
	}
}

type stubLights struct{}

func (stubLights) ListLights(ctx context.Context, in *handlers.ListLightsInput) (*handlers.ListLightsOutput, error) {
	return none[handlers.ListLightsInput, handlers.ListLightsOutput](ctx, in)
}

func (stubLights) GetLight(ctx context.Context, in *handlers.GetLightInput) (*handlers.GetLightOutput, error) {
	return none[handlers.GetLightInput, handlers.GetLightOutput](ctx, in)
}

func (stubLights) SetLightState(ctx context.Context, in *handlers.SetLightStateInput) (*handlers.SetLightStateOutput, error) {
	return none[handlers.SetLightStateInput, handlers.SetLightStateOutput](ctx, in)
}

func (stubLights) RefreshLights(ctx context.Context, in *handlers.RefreshLightsInput) (*handlers.ListLightsOutput, error) {
	return none[handlers.RefreshLightsInput, handlers.ListLightsOutput](ctx, in)
}

func (stubLights) GetBridge(ctx context.Context, in *handlers.GetBridgeInput) (*handlers.GetBridgeOutput, error) {
	return none[handlers.GetBridgeInput, handlers.GetBridgeOutput](ctx, in)
}
