package hue

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hued/internal/errors"
	"github.com/jmylchreest/hued/pkg/color"
)

func TestAuthorize(t *testing.T) {
	fb := newFakeBridge(t)
	fb.linkPressed = true

	h, err := New(context.Background(), fb.host(), testDeviceType(t), fb.options()...)
	require.NoError(t, err)
	assert.Empty(t, h.ApplicationKey())

	require.NoError(t, h.Authorize(context.Background()))
	assert.Equal(t, testKey, h.ApplicationKey())

	err = h.Authorize(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyAuthorized)
}

func TestAuthorize_LinkButtonNotPressed(t *testing.T) {
	fb := newFakeBridge(t)

	h, err := New(context.Background(), fb.host(), testDeviceType(t), fb.options()...)
	require.NoError(t, err)

	err = h.Authorize(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorCodeLinkButtonNotPressed, apiErr.Type)
	assert.Empty(t, h.ApplicationKey())
}

func TestAPIError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, &APIError{Type: ErrorCodeUnauthorized}, ErrUnauthorized)
	assert.ErrorIs(t, &APIError{Type: ErrorCodeLinkButtonNotPressed}, ErrUnauthorized)
	assert.ErrorIs(t, &APIError{Type: ErrorCodeParameterValue}, ErrUnknown)
	assert.NotErrorIs(t, &APIError{Type: ErrorCodeInternalError}, ErrUnauthorized)
	assert.Contains(t, (&APIError{Type: ErrorCodeTooManyItems}).Error(), "too many items")
}

func TestLights_RequireKey(t *testing.T) {
	fb := newFakeBridge(t, colorLightJSON)

	h, err := New(context.Background(), fb.host(), testDeviceType(t), fb.options()...)
	require.NoError(t, err)

	_, err = h.Lights(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthorized)
	_, err = h.Devices(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestLights_WrongKey(t *testing.T) {
	fb := newFakeBridge(t, colorLightJSON)

	h, err := NewWithKey(context.Background(), fb.host(), testDeviceType(t), "stale-key", fb.options()...)
	require.NoError(t, err)

	_, err = h.Lights(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLights(t *testing.T) {
	fb := newFakeBridge(t, colorLightJSON, whiteLightJSON, plugJSON)
	h := newTestHue(t, fb)

	lights, err := h.Lights(context.Background())
	require.NoError(t, err)
	require.Len(t, lights, 3)

	byID := make(map[string]*Light)
	for _, l := range lights {
		byID[l.ID.String()] = l
	}

	desk := byID[colorLightID]
	require.NotNil(t, desk)
	assert.Equal(t, "Desk", desk.Name)
	assert.Equal(t, "sultan_bulb", desk.Archetype)
	assert.True(t, desk.On)
	require.NotNil(t, desk.Brightness)
	assert.Equal(t, float32(50), *desk.Brightness)
	require.NotNil(t, desk.Color)
	assert.Equal(t, color.GamutC, desk.Color.Gamut())
	assert.Equal(t, "C", desk.Color.GamutType())
	assert.InDelta(t, 0.4, desk.Color.XY().X(), 1e-6)
	require.NotNil(t, desk.Temperature)
	assert.Nil(t, desk.Temperature.Mirek)
	assert.Equal(t, MirekSchema{Minimum: 153, Maximum: 500}, desk.Temperature.MirekSchema)

	hall := byID[whiteLightID]
	require.NotNil(t, hall)
	assert.False(t, hall.On)
	assert.Nil(t, hall.Color)
	assert.Nil(t, hall.Temperature)

	plug := byID[plugID]
	require.NotNil(t, plug)
	assert.Nil(t, plug.Brightness)
}

func TestLights_OutOfGamutColorIsReported(t *testing.T) {
	fb := newFakeBridge(t, whiteLightJSON)
	fb.addLight(t, `{
		"type": "light",
		"id": "4e4e4e4e-0000-4000-8000-000000000004",
		"metadata": {"name": "Broken"},
		"on": {"on": true},
		"color": {
			"xy": {"x": 0.01, "y": 0.01},
			"gamut": {
				"red": {"x": 0.6915, "y": 0.3083},
				"green": {"x": 0.17, "y": 0.7},
				"blue": {"x": 0.1532, "y": 0.0475}
			},
			"gamut_type": "C"
		}
	}`)
	h := newTestHue(t, fb)

	lights, err := h.Lights(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, color.ErrOutOfGamut)
	require.Len(t, lights, 2)
	for _, l := range lights {
		assert.Nil(t, l.Color, l.Name)
	}
}

func TestLights_GamutFromType(t *testing.T) {
	fb := newFakeBridge(t)
	fb.addLight(t, `{
		"type": "light",
		"id": "5e5e5e5e-0000-4000-8000-000000000005",
		"metadata": {"name": "Strip"},
		"on": {"on": true},
		"color": {"xy": {"x": 0.3, "y": 0.3}, "gamut_type": "A"}
	}`)
	h := newTestHue(t, fb)

	lights, err := h.Lights(context.Background())
	require.NoError(t, err)
	require.Len(t, lights, 1)
	require.NotNil(t, lights[0].Color)
	assert.Equal(t, color.GamutA, lights[0].Color.Gamut())
}

func TestLight(t *testing.T) {
	fb := newFakeBridge(t, colorLightJSON)
	h := newTestHue(t, fb)

	l, err := h.Light(context.Background(), colorLightID)
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse(colorLightID), l.ID)

	_, err = h.Light(context.Background(), whiteLightID)
	assert.True(t, errors.IsNotFound(err))
}

func TestDevices(t *testing.T) {
	fb := newFakeBridge(t)
	h := newTestHue(t, fb)

	devices, err := h.Devices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)

	d := devices[0]
	assert.Equal(t, "Desk lamp", d.Name)
	assert.Equal(t, "LCA001", d.Product.ModelID)
	assert.True(t, d.Product.Certified)
	assert.Len(t, d.Services, 2)
	assert.Equal(t, []uuid.UUID{uuid.MustParse(colorLightID)}, d.LightIDs())
}
