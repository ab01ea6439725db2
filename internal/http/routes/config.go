// Package routes provides shared route registration for the hued HTTP API.
// Both the daemon and the OpenAPI generator use the same route definitions,
// so the published document always matches the implementation.
package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/hued/internal/http/mw"
)

// NewHumaConfig creates the shared Huma configuration for the API.
func NewHumaConfig(version, baseURL string) huma.Config {
	cfg := huma.DefaultConfig("hued API", version)
	cfg.Info.Description = "REST API for controlling Philips Hue lights through the hued daemon."

	// Disable $schema field in responses
	cfg.CreateHooks = nil

	if baseURL != "" {
		cfg.Servers = []*huma.Server{
			{URL: baseURL, Description: "API Server"},
		}
	}

	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		mw.SecurityScheme: {
			Type:        "http",
			Scheme:      "bearer",
			Description: "Static API key from `api.key`. Send it as `Authorization: Bearer <key>` or `X-API-Key: <key>`.",
		},
	}

	cfg.Tags = []*huma.Tag{
		{Name: "Lights", Description: "Light state and control"},
		{Name: "Bridge", Description: "Bridge connection status"},
		{Name: "Color", Description: "Offline color conversion"},
	}

	return cfg
}
