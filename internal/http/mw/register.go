// Package mw provides middleware and registration helpers for the hued HTTP API.
package mw

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// SecurityScheme is the name of the security scheme used in OpenAPI.
const SecurityScheme = "apiKeyAuth"

// OperationOption is a function that modifies a Huma operation.
type OperationOption func(*huma.Operation)

// WithTags adds tags to the operation.
func WithTags(tags ...string) OperationOption {
	return func(op *huma.Operation) { op.Tags = append(op.Tags, tags...) }
}

// WithSummary sets the operation summary.
func WithSummary(summary string) OperationOption {
	return func(op *huma.Operation) { op.Summary = summary }
}

// WithDescription sets the operation description.
func WithDescription(desc string) OperationOption {
	return func(op *huma.Operation) { op.Description = desc }
}

// WithOperationID sets a custom operation ID.
func WithOperationID(id string) OperationOption {
	return func(op *huma.Operation) { op.OperationID = id }
}

// protected marks an operation as requiring the API key. HumaAuth enforces
// it and the OpenAPI document advertises it.
func protected(op *huma.Operation) {
	op.Security = []map[string][]string{{SecurityScheme: {}}}
}

func register[I, O any](api huma.API, method, path string, handler func(context.Context, *I) (*O, error), opts []OperationOption) {
	op := huma.Operation{Method: method, Path: path}
	for _, opt := range opts {
		opt(&op)
	}
	huma.Register(api, op, handler)
}

// PublicGet registers a GET endpoint anyone may call.
func PublicGet[I, O any](api huma.API, path string, handler func(ctx context.Context, input *I) (*O, error), opts ...OperationOption) {
	register(api, http.MethodGet, path, handler, opts)
}

// HiddenGet registers a public GET endpoint left out of the OpenAPI
// document, for probes.
func HiddenGet[I, O any](api huma.API, path string, handler func(ctx context.Context, input *I) (*O, error)) {
	register(api, http.MethodGet, path, handler, []OperationOption{func(op *huma.Operation) { op.Hidden = true }})
}

// ProtectedGet registers a GET endpoint that requires the API key.
func ProtectedGet[I, O any](api huma.API, path string, handler func(ctx context.Context, input *I) (*O, error), opts ...OperationOption) {
	register(api, http.MethodGet, path, handler, append([]OperationOption{protected}, opts...))
}

// ProtectedPost registers a POST endpoint that requires the API key.
func ProtectedPost[I, O any](api huma.API, path string, handler func(ctx context.Context, input *I) (*O, error), opts ...OperationOption) {
	register(api, http.MethodPost, path, handler, append([]OperationOption{protected}, opts...))
}

// ProtectedPut registers a PUT endpoint that requires the API key.
func ProtectedPut[I, O any](api huma.API, path string, handler func(ctx context.Context, input *I) (*O, error), opts ...OperationOption) {
	register(api, http.MethodPut, path, handler, append([]OperationOption{protected}, opts...))
}
