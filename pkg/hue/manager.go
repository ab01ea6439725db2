package hue

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/hued/internal/config"
	"github.com/jmylchreest/hued/internal/errors"
	"github.com/jmylchreest/hued/internal/events"
	"github.com/jmylchreest/hued/pkg/color"
)

// Manager caches the lights of one bridge session and publishes changes
type Manager struct {
	hue    *Hue
	lights map[string]Light
	mu     sync.RWMutex
	logger *slog.Logger
	bus    *events.Bus

	lastRefresh time.Time
	reachable   bool
}

// NewManager creates a manager for the lights of h. Call Refresh to populate it.
func NewManager(h *Hue, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		hue:    h,
		lights: make(map[string]Light),
		logger: logger,
	}
}

// SetEventBus enables event publication
func (m *Manager) SetEventBus(bus *events.Bus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bus = bus
}

func (m *Manager) emit(t events.EventType, data any) {
	m.mu.RLock()
	bus := m.bus
	m.mu.RUnlock()
	if bus != nil {
		bus.Publish(events.NewEvent(t, data))
	}
}

// Bridge returns the bridge the manager talks to
func (m *Manager) Bridge() Bridge { return m.hue.Bridge() }

// Status reports whether the last refresh reached the bridge and when the
// last successful refresh happened.
func (m *Manager) Status() (reachable bool, lastRefresh time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reachable, m.lastRefresh
}

type lightChange struct {
	kind  events.EventType
	light Light
}

// Refresh reloads all lights from the bridge and publishes the differences to
// the previous state.
func (m *Manager) Refresh(ctx context.Context) error {
	lights, err := m.hue.Lights(ctx)
	if lights == nil && err != nil {
		m.mu.Lock()
		wasReachable := m.reachable
		m.reachable = false
		m.mu.Unlock()
		if wasReachable {
			m.emit(events.BridgeUnreachable, map[string]string{"id": m.hue.Bridge().ID, "error": err.Error()})
		}
		return errors.LogErrorAndReturn(m.logger,
			errors.DeviceUnavailablef("failed to refresh lights: %w", err),
			"light: refresh failed",
			"bridge", m.hue.Bridge().ID,
		)
	}
	if err != nil {
		// Lights with an unusable color are kept without one
		m.logger.Warn("light: refresh returned invalid lights", "error", err)
	}

	fresh := make(map[string]Light, len(lights))
	for _, l := range lights {
		fresh[l.ID.String()] = *l
	}

	var changes []lightChange
	m.mu.Lock()
	wasReachable := m.reachable
	for id, l := range fresh {
		old, ok := m.lights[id]
		switch {
		case !ok:
			changes = append(changes, lightChange{events.LightDiscovered, l})
		case lightChanged(old, l):
			changes = append(changes, lightChange{events.LightStateChanged, l})
		}
	}
	for id, old := range m.lights {
		if _, ok := fresh[id]; !ok {
			changes = append(changes, lightChange{events.LightRemoved, old})
		}
	}
	m.lights = fresh
	m.reachable = true
	m.lastRefresh = time.Now()
	m.mu.Unlock()

	if !wasReachable {
		m.emit(events.BridgeConnected, m.hue.Bridge())
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].light.Name < changes[j].light.Name })
	for _, c := range changes {
		m.logger.Debug("light: changed", "event", c.kind, "id", c.light.ID, "name", c.light.Name)
		m.emit(c.kind, c.light)
	}
	m.emit(events.LightsRefreshed, map[string]int{"count": len(fresh)})

	m.logger.Debug("light: refreshed", "count", len(fresh), "changes", len(changes))
	return nil
}

func lightChanged(a, b Light) bool {
	if a.Name != b.Name || a.On != b.On {
		return true
	}
	if (a.Brightness == nil) != (b.Brightness == nil) || (a.Brightness != nil && *a.Brightness != *b.Brightness) {
		return true
	}
	if (a.Color == nil) != (b.Color == nil) || (a.Color != nil && a.Color.XY() != b.Color.XY()) {
		return true
	}
	if (a.Temperature == nil) != (b.Temperature == nil) {
		return true
	}
	if a.Temperature != nil {
		am, bm := a.Temperature.Mirek, b.Temperature.Mirek
		if (am == nil) != (bm == nil) || (am != nil && *am != *bm) {
			return true
		}
	}
	return false
}

// GetLights returns copies of all cached lights ordered by name
func (m *Manager) GetLights() []*Light {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lights := make([]*Light, 0, len(m.lights))
	for id := range m.lights {
		light := m.lights[id]
		lights = append(lights, &light)
	}
	sort.Slice(lights, func(i, j int) bool {
		if lights[i].Name != lights[j].Name {
			return lights[i].Name < lights[j].Name
		}
		return lights[i].ID.String() < lights[j].ID.String()
	})
	return lights
}

// GetLight returns a copy of the cached light
func (m *Manager) GetLight(id string) (*Light, error) {
	key, err := lightKey(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	light, ok := m.lights[key]
	if !ok {
		return nil, errors.NotFoundf("light %s not found", id)
	}
	return &light, nil
}

func lightKey(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", errors.InvalidInputf("invalid light id %q", id)
	}
	return u.String(), nil
}

// apply runs fn against a copy of the light outside the lock and stores the
// result once the bridge confirmed it.
func (m *Manager) apply(ctx context.Context, id string, fn func(context.Context, *Light) error) (*Light, error) {
	light, err := m.GetLight(id)
	if err != nil {
		return nil, err
	}

	if err := fn(ctx, light); err != nil {
		if errors.Is(err, ErrConnection) {
			err = errors.DeviceUnavailablef("light %s: %w", id, err)
		}
		return nil, errors.LogErrorAndReturn(m.logger, err, "light: update failed", "id", id)
	}

	key := light.ID.String()
	m.mu.Lock()
	if _, ok := m.lights[key]; !ok {
		m.mu.Unlock()
		return nil, errors.NotFoundf("light %s removed during update", id)
	}
	m.lights[key] = *light
	m.mu.Unlock()

	m.emit(events.LightStateChanged, light)
	result := *light
	return &result, nil
}

// SetPower switches a light on or off
func (m *Manager) SetPower(ctx context.Context, id string, on bool) (*Light, error) {
	return m.apply(ctx, id, func(ctx context.Context, l *Light) error { return l.Switch(ctx, on) })
}

// SetBrightness dims a light, brightness in percent
func (m *Manager) SetBrightness(ctx context.Context, id string, brightness float32) (*Light, error) {
	return m.apply(ctx, id, func(ctx context.Context, l *Light) error { return l.Dim(ctx, brightness) })
}

// SetColorXY sets the chromaticity of a light, restrained into its gamut
func (m *Manager) SetColorXY(ctx context.Context, id string, xy color.Point) (*Light, error) {
	return m.apply(ctx, id, func(ctx context.Context, l *Light) error { return l.SetColor(ctx, xy) })
}

// SetColorRGB sets the chromaticity matching an sRGB triple
func (m *Manager) SetColorRGB(ctx context.Context, id string, rgb color.RGB8) (*Light, error) {
	return m.apply(ctx, id, func(ctx context.Context, l *Light) error { return l.SetColorRGB(ctx, rgb) })
}

// SetTemperature sets the color temperature in mirek
func (m *Manager) SetTemperature(ctx context.Context, id string, mirek int) (*Light, error) {
	return m.apply(ctx, id, func(ctx context.Context, l *Light) error { return l.SetTemperature(ctx, mirek) })
}

// StartRefreshWorker refreshes the cache every interval until ctx is done
func (m *Manager) StartRefreshWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		m.logger.Warn("light: refresh interval must be positive, using default instead",
			"interval", interval,
			"default", config.DefaultRefreshInterval)
		interval = config.DefaultRefreshInterval
	}
	interval = config.ValidateRefreshInterval(interval)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		m.logger.Info("light: refresh worker started", "interval", interval)
		for {
			select {
			case <-ctx.Done():
				m.logger.Info("light: refresh worker stopped (context canceled)")
				return
			case <-ticker.C:
				// Errors are logged by Refresh
				_ = m.Refresh(ctx)
			}
		}
	}()
}
