package hue

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hued/internal/errors"
	"github.com/jmylchreest/hued/internal/events"
	"github.com/jmylchreest/hued/pkg/color"
)

// collectEvents subscribes to a bus and returns a function to get collected events.
func collectEvents(bus *events.Bus) (getEvents func() []events.Event) {
	var mu sync.Mutex
	var collected []events.Event
	bus.Subscribe(func(e events.Event) {
		mu.Lock()
		collected = append(collected, e)
		mu.Unlock()
	})
	return func() []events.Event {
		mu.Lock()
		defer mu.Unlock()
		out := make([]events.Event, len(collected))
		copy(out, collected)
		return out
	}
}

func eventTypes(evts []events.Event) []events.EventType {
	types := make([]events.EventType, 0, len(evts))
	for _, e := range evts {
		types = append(types, e.Type)
	}
	return types
}

func newTestManager(t *testing.T, lights ...string) (*Manager, *fakeBridge, func() []events.Event) {
	t.Helper()
	fb := newFakeBridge(t, lights...)
	m := NewManager(newTestHue(t, fb), testLogger())
	bus := events.NewBus()
	m.SetEventBus(bus)
	return m, fb, collectEvents(bus)
}

func TestManager_EmitWithoutBus(t *testing.T) {
	fb := newFakeBridge(t, colorLightJSON)
	m := NewManager(newTestHue(t, fb), nil)

	// No bus configured, must not panic
	m.emit(events.LightStateChanged, "test")
	require.NoError(t, m.Refresh(context.Background()))
}

func TestManager_RefreshDiscoversLights(t *testing.T) {
	m, _, getEvents := newTestManager(t, colorLightJSON, whiteLightJSON)

	require.NoError(t, m.Refresh(context.Background()))

	lights := m.GetLights()
	require.Len(t, lights, 2)
	assert.Equal(t, "Desk", lights[0].Name)
	assert.Equal(t, "Hallway", lights[1].Name)

	assert.Equal(t, []events.EventType{
		events.BridgeConnected,
		events.LightDiscovered,
		events.LightDiscovered,
		events.LightsRefreshed,
	}, eventTypes(getEvents()))

	reachable, last := m.Status()
	assert.True(t, reachable)
	assert.WithinDuration(t, time.Now(), last, 5*time.Second)
}

func TestManager_RefreshDiff(t *testing.T) {
	m, fb, getEvents := newTestManager(t, colorLightJSON, whiteLightJSON)
	require.NoError(t, m.Refresh(context.Background()))
	before := len(getEvents())

	// Unchanged state only reports the refresh
	require.NoError(t, m.Refresh(context.Background()))
	evts := getEvents()[before:]
	assert.Equal(t, []events.EventType{events.LightsRefreshed}, eventTypes(evts))

	fb.removeLight(whiteLightID)
	fb.addLight(t, plugJSON)
	fb.mu.Lock()
	fb.lights[colorLightID]["on"] = map[string]any{"on": false}
	fb.mu.Unlock()

	before = len(getEvents())
	require.NoError(t, m.Refresh(context.Background()))
	evts = getEvents()[before:]
	assert.ElementsMatch(t, []events.EventType{
		events.LightStateChanged,
		events.LightDiscovered,
		events.LightRemoved,
		events.LightsRefreshed,
	}, eventTypes(evts))

	_, err := m.GetLight(whiteLightID)
	assert.True(t, errors.IsNotFound(err))
}

func TestManager_RefreshUnreachable(t *testing.T) {
	m, fb, getEvents := newTestManager(t, colorLightJSON)
	require.NoError(t, m.Refresh(context.Background()))

	fb.srv.Close()
	err := m.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsDeviceUnavailable(err))

	reachable, _ := m.Status()
	assert.False(t, reachable)
	evts := getEvents()
	assert.Equal(t, events.BridgeUnreachable, evts[len(evts)-1].Type)

	// The cache survives
	assert.Len(t, m.GetLights(), 1)
}

func TestManager_GetLight(t *testing.T) {
	m, _, _ := newTestManager(t, colorLightJSON)
	require.NoError(t, m.Refresh(context.Background()))

	l, err := m.GetLight(colorLightID)
	require.NoError(t, err)
	assert.Equal(t, "Desk", l.Name)

	// Upper case IDs are accepted
	_, err = m.GetLight("3F3E6F4C-9F0A-4C8E-A5D7-1B2C3D4E5F60")
	assert.NoError(t, err)

	_, err = m.GetLight("not-a-uuid")
	assert.True(t, errors.IsInvalidInput(err))

	_, err = m.GetLight(whiteLightID)
	assert.True(t, errors.IsNotFound(err))
}

func TestManager_GetLightReturnsCopy(t *testing.T) {
	m, _, _ := newTestManager(t, colorLightJSON)
	require.NoError(t, m.Refresh(context.Background()))

	l, err := m.GetLight(colorLightID)
	require.NoError(t, err)
	l.Name = "changed"
	l.On = false

	again, err := m.GetLight(colorLightID)
	require.NoError(t, err)
	assert.Equal(t, "Desk", again.Name)
	assert.True(t, again.On)
}

func TestManager_SetPowerEmitsStateChanged(t *testing.T) {
	m, _, getEvents := newTestManager(t, whiteLightJSON)
	require.NoError(t, m.Refresh(context.Background()))
	before := len(getEvents())

	l, err := m.SetPower(context.Background(), whiteLightID, true)
	require.NoError(t, err)
	assert.True(t, l.On)

	cached, err := m.GetLight(whiteLightID)
	require.NoError(t, err)
	assert.True(t, cached.On)

	evts := getEvents()[before:]
	require.Len(t, evts, 1)
	assert.Equal(t, events.LightStateChanged, evts[0].Type)

	var data Light
	require.NoError(t, json.Unmarshal(evts[0].Data, &data))
	assert.Equal(t, whiteLightID, data.ID.String())
	assert.True(t, data.On)
}

func TestManager_SetColor(t *testing.T) {
	m, _, _ := newTestManager(t, colorLightJSON)
	require.NoError(t, m.Refresh(context.Background()))

	xy, err := color.NewPoint(0.5, 0.5)
	require.NoError(t, err)
	l, err := m.SetColorXY(context.Background(), colorLightID, xy)
	require.NoError(t, err)
	assert.Equal(t, color.GamutC.Restrain(xy), l.Color.XY())

	l, err = m.SetColorRGB(context.Background(), colorLightID, color.RGB8{G: 255})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, l.Color.XY().X(), 1e-3)

	l, err = m.SetBrightness(context.Background(), colorLightID, 20)
	require.NoError(t, err)
	assert.Equal(t, float32(20), *l.Brightness)

	l, err = m.SetTemperature(context.Background(), colorLightID, 300)
	require.NoError(t, err)
	assert.Equal(t, 300, *l.Temperature.Mirek)
}

func TestManager_SetUnsupported(t *testing.T) {
	m, _, getEvents := newTestManager(t, plugJSON)
	require.NoError(t, m.Refresh(context.Background()))
	before := len(getEvents())

	_, err := m.SetBrightness(context.Background(), plugID, 50)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Len(t, getEvents(), before)
}

func TestManager_SetUnknownLight(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Refresh(context.Background()))

	_, err := m.SetPower(context.Background(), colorLightID, true)
	assert.True(t, errors.IsNotFound(err))
}

func TestManager_SetBridgeDown(t *testing.T) {
	m, fb, _ := newTestManager(t, whiteLightJSON)
	require.NoError(t, m.Refresh(context.Background()))
	fb.srv.Close()

	_, err := m.SetPower(context.Background(), whiteLightID, true)
	require.Error(t, err)
	assert.True(t, errors.IsDeviceUnavailable(err))
	assert.ErrorIs(t, err, ErrConnection)

	cached, err := m.GetLight(whiteLightID)
	require.NoError(t, err)
	assert.False(t, cached.On)
}

func TestManager_RefreshWorker(t *testing.T) {
	m, _, getEvents := newTestManager(t, colorLightJSON)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartRefreshWorker(ctx, time.Millisecond)

	// The interval is clamped to the minimum, so nothing happens right away
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, getEvents())
}
