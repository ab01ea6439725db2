package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/hued/internal/http/mw"
)

// Register registers all API routes with the given Huma API instance.
func Register(api huma.API, h *Handlers) {
	// --- Health ---
	mw.PublicGet(api, "/api/v1/health", h.HealthCheck,
		mw.WithTags("Health"),
		mw.WithSummary("Health check"),
		mw.WithDescription("Returns service health status. This endpoint does not require authentication."),
		mw.WithOperationID("healthCheck"))

	mw.HiddenGet(api, "/healthz", h.HealthCheck)

	// --- Version ---
	mw.PublicGet(api, "/api/v1/version", h.VersionCheck,
		mw.WithTags("Version"),
		mw.WithSummary("Daemon version"),
		mw.WithDescription("Returns the running daemon's version, commit, and build date. This endpoint does not require authentication."),
		mw.WithOperationID("getVersion"))

	// --- Bridge ---
	mw.ProtectedGet(api, "/api/v1/bridge", h.Light.GetBridge,
		mw.WithTags("Bridge"),
		mw.WithSummary("Bridge status"),
		mw.WithDescription("Returns the connected bridge and whether the last refresh reached it."),
		mw.WithOperationID("getBridge"))

	// --- Lights ---
	mw.ProtectedGet(api, "/api/v1/lights", h.Light.ListLights,
		mw.WithTags("Lights"),
		mw.WithSummary("List all lights"),
		mw.WithDescription("Returns all cached lights sorted by name."),
		mw.WithOperationID("listLights"))

	mw.ProtectedPost(api, "/api/v1/lights/refresh", h.Light.RefreshLights,
		mw.WithTags("Lights"),
		mw.WithSummary("Refresh lights"),
		mw.WithDescription("Reloads all lights from the bridge and returns them."),
		mw.WithOperationID("refreshLights"))

	mw.ProtectedGet(api, "/api/v1/lights/{id}", h.Light.GetLight,
		mw.WithTags("Lights"),
		mw.WithSummary("Get a light"),
		mw.WithOperationID("getLight"))

	mw.ProtectedPut(api, "/api/v1/lights/{id}/state", h.Light.SetLightState,
		mw.WithTags("Lights"),
		mw.WithSummary("Set light state"),
		mw.WithDescription("Set one or more properties (on, brightness, xy, rgb, hex, temperature) on a light. Colors are restrained into the light's gamut."),
		mw.WithOperationID("setLightState"))

	// --- Color ---
	mw.ProtectedPost(api, "/api/v1/color/convert", h.ConvertColor,
		mw.WithTags("Color"),
		mw.WithSummary("Convert a color"),
		mw.WithDescription("Converts between sRGB and CIE xy within a Hue gamut without contacting the bridge."),
		mw.WithOperationID("convertColor"))
}
