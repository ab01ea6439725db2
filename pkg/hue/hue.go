// Package hue is a client for Philips Hue bridges. It discovers bridges,
// obtains application keys and controls lights through the CLIP v2 API.
package hue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// Hue is a session with one bridge
type Hue struct {
	bridge     Bridge
	deviceType DeviceType
	transport  *transport
	logger     *slog.Logger

	mu             sync.RWMutex
	applicationKey string
}

// New connects to the bridge at addr without an application key. Call
// Authorize to obtain one.
func New(ctx context.Context, addr string, deviceType DeviceType, opts ...Option) (*Hue, error) {
	return NewWithKey(ctx, addr, deviceType, "", opts...)
}

// NewWithKey connects to the bridge at addr using an existing application key
func NewWithKey(ctx context.Context, addr string, deviceType DeviceType, applicationKey string, opts ...Option) (*Hue, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	bridge, err := probeBridge(ctx, addr, o.httpClient, o)
	if err != nil {
		return nil, err
	}
	if !bridge.Supported {
		o.logger.Warn("bridge: software version predates the CLIP v2 API", "id", bridge.ID, "version", bridge.Version, "minimum", minSupportedVersion)
	}

	t := &transport{host: bridge.Host(), client: o.httpClient, logger: o.logger}
	if o.caFile != "" {
		t.verifyPeer = matchBridgeID(bridge.ID)
	}

	return &Hue{
		bridge:         bridge,
		deviceType:     deviceType,
		transport:      t,
		logger:         o.logger,
		applicationKey: applicationKey,
	}, nil
}

// Bridge returns the bridge of this session
func (h *Hue) Bridge() Bridge { return h.bridge }

// DeviceType returns the device type used for authorization
func (h *Hue) DeviceType() DeviceType { return h.deviceType }

// ApplicationKey returns the key, or "" before authorization
func (h *Hue) ApplicationKey() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.applicationKey
}

// URL returns the https URL of path on the bridge
func (h *Hue) URL(path string) string { return h.bridge.URL(path) }

func (h *Hue) key() (string, error) {
	key := h.ApplicationKey()
	if key == "" {
		return "", ErrNotAuthorized
	}
	return key, nil
}

// Authorize registers the device type with the bridge and keeps the returned
// application key. The link button on the bridge must have been pressed
// shortly before, otherwise the bridge answers with an error that unwraps to
// ErrUnauthorized.
func (h *Hue) Authorize(ctx context.Context) error {
	if h.ApplicationKey() != "" {
		return ErrAlreadyAuthorized
	}

	var payload []createUserResponseItem
	req := createUserRequest{DeviceType: h.deviceType.String()}
	if err := h.transport.do(ctx, http.MethodPost, "api", "", req, &payload); err != nil {
		return err
	}
	if len(payload) != 1 {
		return fmt.Errorf("authorization returned %d items: %w", len(payload), ErrUnexpected)
	}

	item := payload[0]
	switch {
	case item.Success != nil && item.Success.Username != "":
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.applicationKey != "" {
			return ErrAlreadyAuthorized
		}
		h.applicationKey = item.Success.Username
		h.logger.Info("bridge: authorized", "id", h.bridge.ID, "devicetype", h.deviceType.String())
		return nil
	case item.Error != nil:
		return item.Error
	default:
		return ErrUnknown
	}
}

// getResources fetches a CLIP v2 collection
func getResources[T any](ctx context.Context, h *Hue, path string) ([]T, error) {
	key, err := h.key()
	if err != nil {
		return nil, err
	}

	var resp envelope[T]
	if err := h.transport.do(ctx, http.MethodGet, path, key, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%s: response has no data: %w", path, ErrUnexpected)
	}
	return resp.Data, nil
}

// putResource updates a CLIP v2 resource
func (h *Hue) putResource(ctx context.Context, path string, body any) error {
	key, err := h.key()
	if err != nil {
		return err
	}

	var resp envelope[ResourceIdentifier]
	if err := h.transport.do(ctx, http.MethodPut, path, key, body, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (e envelope[T]) err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	descriptions := make([]string, 0, len(e.Errors))
	for _, re := range e.Errors {
		descriptions = append(descriptions, re.Description)
	}
	return fmt.Errorf("bridge: %s: %w", strings.Join(descriptions, "; "), ErrUnknown)
}

// Lights returns all lights known to the bridge. Lights whose reported color
// cannot be represented are still returned, without a color, and the
// problems are reported in the joined error.
func (h *Hue) Lights(ctx context.Context) ([]*Light, error) {
	resources, err := getResources[lightResource](ctx, h, "clip/v2/resource/light")
	if err != nil {
		return nil, err
	}

	lights := make([]*Light, 0, len(resources))
	var problems []error
	for _, r := range resources {
		l, err := newLight(h, r)
		if err != nil {
			h.logger.Warn("bridge: light reported an invalid color", "id", r.ID, "name", r.Metadata.Name, "error", err)
			problems = append(problems, err)
		}
		lights = append(lights, l)
	}
	return lights, errors.Join(problems...)
}

// Light returns a single light
func (h *Hue) Light(ctx context.Context, id string) (*Light, error) {
	resources, err := getResources[lightResource](ctx, h, "clip/v2/resource/light/"+id)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, fmt.Errorf("light %s: %w", id, ErrUnexpected)
	}
	return newLight(h, resources[0])
}

// Devices returns all devices known to the bridge
func (h *Hue) Devices(ctx context.Context) ([]Device, error) {
	resources, err := getResources[deviceResource](ctx, h, "clip/v2/resource/device")
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(resources))
	for _, r := range resources {
		devices = append(devices, newDevice(r))
	}
	return devices, nil
}
