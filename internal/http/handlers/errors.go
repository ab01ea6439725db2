package handlers

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/hued/internal/errors"
	"github.com/jmylchreest/hued/pkg/color"
	"github.com/jmylchreest/hued/pkg/hue"
)

// apiError maps manager and bridge failures to HTTP statuses.
func apiError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case errors.IsInvalidInput(err), errors.Is(err, color.ErrInvalidComponent):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, hue.ErrUnsupported):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.IsDeviceUnavailable(err), errors.Is(err, hue.ErrConnection):
		return huma.Error503ServiceUnavailable(err.Error())
	case errors.Is(err, hue.ErrUnauthorized), errors.Is(err, hue.ErrNotAuthorized):
		return huma.Error502BadGateway("bridge rejected the application key: " + err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
