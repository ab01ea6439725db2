package hue

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testKey          = "test-application-key"
	colorLightID     = "3f3e6f4c-9f0a-4c8e-a5d7-1b2c3d4e5f60"
	whiteLightID     = "8b1d2e3f-4a5b-4c6d-8e9f-0a1b2c3d4e5f"
	plugID           = "c0ffee00-1234-4567-89ab-cdef01234567"
	testBridgeID     = "001788FFFE123456"
	testDeviceTypeID = "hued#test"
)

const colorLightJSON = `{
	"type": "light",
	"id": "3f3e6f4c-9f0a-4c8e-a5d7-1b2c3d4e5f60",
	"metadata": {"name": "Desk", "archetype": "sultan_bulb"},
	"on": {"on": true},
	"dimming": {"brightness": 50, "min_dim_level": 0.2},
	"color": {
		"xy": {"x": 0.4, "y": 0.4},
		"gamut": {
			"red": {"x": 0.6915, "y": 0.3083},
			"green": {"x": 0.17, "y": 0.7},
			"blue": {"x": 0.1532, "y": 0.0475}
		},
		"gamut_type": "C"
	},
	"color_temperature": {
		"mirek": null,
		"mirek_valid": false,
		"mirek_schema": {"mirek_minimum": 153, "mirek_maximum": 500}
	}
}`

const whiteLightJSON = `{
	"type": "light",
	"id": "8b1d2e3f-4a5b-4c6d-8e9f-0a1b2c3d4e5f",
	"metadata": {"name": "Hallway", "archetype": "classic_bulb"},
	"on": {"on": false},
	"dimming": {"brightness": 100}
}`

const plugJSON = `{
	"type": "light",
	"id": "c0ffee00-1234-4567-89ab-cdef01234567",
	"metadata": {"name": "Plug", "archetype": "plug"},
	"on": {"on": false}
}`

const deviceJSON = `{
	"type": "device",
	"id": "d1d2d3d4-0000-4000-8000-000000000001",
	"metadata": {"name": "Desk lamp", "archetype": "sultan_bulb"},
	"product_data": {
		"model_id": "LCA001",
		"manufacturer_name": "Signify Netherlands B.V.",
		"product_name": "Hue color lamp",
		"product_archetype": "sultan_bulb",
		"certified": true,
		"software_version": "1.104.2"
	},
	"services": [
		{"rid": "3f3e6f4c-9f0a-4c8e-a5d7-1b2c3d4e5f60", "rtype": "light"},
		{"rid": "a0a0a0a0-0000-4000-8000-000000000002", "rtype": "zigbee_connectivity"}
	]
}`

type recordedPut struct {
	ID   string
	Body map[string]any
}

// fakeBridge is a TLS test server speaking a subset of the bridge API
type fakeBridge struct {
	srv *httptest.Server

	mu          sync.Mutex
	linkPressed bool
	failPuts    bool
	swversion   string
	lights      map[string]map[string]any
	puts        []recordedPut
}

func newFakeBridge(t *testing.T, lights ...string) *fakeBridge {
	t.Helper()
	fb := &fakeBridge{
		swversion: "1962097030",
		lights:    make(map[string]map[string]any),
	}
	for _, raw := range lights {
		fb.addLight(t, raw)
	}
	fb.srv = httptest.NewTLSServer(http.HandlerFunc(fb.handle))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBridge) addLight(t *testing.T, raw string) {
	t.Helper()
	var l map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	fb.mu.Lock()
	fb.lights[l["id"].(string)] = l
	fb.mu.Unlock()
}

func (fb *fakeBridge) removeLight(id string) {
	fb.mu.Lock()
	delete(fb.lights, id)
	fb.mu.Unlock()
}

func (fb *fakeBridge) host() string {
	return strings.TrimPrefix(fb.srv.URL, "https://")
}

func (fb *fakeBridge) recordedPuts() []recordedPut {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]recordedPut(nil), fb.puts...)
}

func (fb *fakeBridge) options() []Option {
	return []Option{
		WithHTTPClient(fb.srv.Client()),
		WithLogger(testLogger()),
		WithBrowser(nil),
		WithDiscoveryURL(""),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDeviceType(t *testing.T) DeviceType {
	t.Helper()
	dt, err := ParseDeviceType(testDeviceTypeID)
	require.NoError(t, err)
	return dt
}

func newTestHue(t *testing.T, fb *fakeBridge) *Hue {
	t.Helper()
	h, err := NewWithKey(context.Background(), fb.host(), testDeviceType(t), testKey, fb.options()...)
	require.NoError(t, err)
	return h
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (fb *fakeBridge) handle(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/0/config":
		writeJSON(w, http.StatusOK, map[string]any{
			"name":             "Hue Bridge",
			"datastoreversion": "163",
			"swversion":        fb.swversion,
			"apiversion":       "1.65.0",
			"mac":              "00:17:88:12:34:56",
			"bridgeid":         testBridgeID,
			"factorynew":       false,
			"replacesbridgeid": nil,
			"modelid":          "BSB002",
			"starterkitid":     "",
		})
		return

	case r.Method == http.MethodPost && r.URL.Path == "/api":
		var req struct {
			DeviceType string `json:"devicetype"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DeviceType == "" {
			writeJSON(w, http.StatusOK, []any{map[string]any{"error": map[string]any{
				"type": 2, "address": "", "description": "body contains invalid json",
			}}})
			return
		}
		if !fb.linkPressed {
			writeJSON(w, http.StatusOK, []any{map[string]any{"error": map[string]any{
				"type": 101, "address": "", "description": "link button not pressed",
			}}})
			return
		}
		writeJSON(w, http.StatusOK, []any{map[string]any{"success": map[string]any{"username": testKey}}})
		return
	}

	if !strings.HasPrefix(r.URL.Path, "/clip/v2/resource/") {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get(applicationKeyHeader) != testKey {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"errors": []any{map[string]any{"description": "unauthorized user"}},
			"data":   []any{},
		})
		return
	}

	resource := strings.TrimPrefix(r.URL.Path, "/clip/v2/resource/")
	switch {
	case r.Method == http.MethodGet && resource == "light":
		ids := make([]string, 0, len(fb.lights))
		for id := range fb.lights {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		data := make([]any, 0, len(ids))
		for _, id := range ids {
			data = append(data, fb.lights[id])
		}
		writeJSON(w, http.StatusOK, map[string]any{"errors": []any{}, "data": data})

	case r.Method == http.MethodGet && strings.HasPrefix(resource, "light/"):
		l, ok := fb.lights[strings.TrimPrefix(resource, "light/")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"errors": []any{map[string]any{"description": "Not Found"}},
				"data":   []any{},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"errors": []any{}, "data": []any{l}})

	case r.Method == http.MethodPut && strings.HasPrefix(resource, "light/"):
		id := strings.TrimPrefix(resource, "light/")
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": []any{map[string]any{"description": "invalid json"}},
			})
			return
		}
		fb.puts = append(fb.puts, recordedPut{ID: id, Body: body})
		if fb.failPuts {
			writeJSON(w, http.StatusOK, map[string]any{
				"errors": []any{map[string]any{"description": "device (light) has communication issues, command (.on) may not have effect"}},
				"data":   []any{},
			})
			return
		}
		l, ok := fb.lights[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		mergeLight(l, body)
		writeJSON(w, http.StatusOK, map[string]any{
			"errors": []any{},
			"data":   []any{map[string]any{"rid": id, "rtype": "light"}},
		})

	case r.Method == http.MethodGet && resource == "device":
		var d map[string]any
		_ = json.Unmarshal([]byte(deviceJSON), &d)
		writeJSON(w, http.StatusOK, map[string]any{"errors": []any{}, "data": []any{d}})

	default:
		http.NotFound(w, r)
	}
}

// mergeLight applies a PUT body to a stored light resource
func mergeLight(l, body map[string]any) {
	if on, ok := body["on"]; ok {
		l["on"] = on
	}
	if d, ok := body["dimming"].(map[string]any); ok {
		l["dimming"].(map[string]any)["brightness"] = d["brightness"]
	}
	if c, ok := body["color"].(map[string]any); ok {
		l["color"].(map[string]any)["xy"] = c["xy"]
	}
	if ct, ok := body["color_temperature"].(map[string]any); ok {
		stored := l["color_temperature"].(map[string]any)
		stored["mirek"] = ct["mirek"]
		stored["mirek_valid"] = true
	}
}
