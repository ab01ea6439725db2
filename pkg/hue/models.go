package hue

import (
	"github.com/google/uuid"
)

// bridgeConfig is the unauthenticated /api/0/config document
type bridgeConfig struct {
	Name             string `json:"name"`
	DatastoreVersion string `json:"datastoreversion"`
	SWVersion        string `json:"swversion"`
	APIVersion       string `json:"apiversion"`
	MAC              string `json:"mac"`
	BridgeID         string `json:"bridgeid"`
	FactoryNew       bool   `json:"factorynew"`
	ReplacesBridgeID string `json:"replacesbridgeid,omitempty"`
	ModelID          string `json:"modelid"`
	StarterKitID     string `json:"starterkitid,omitempty"`
}

// meetHueEntry is one element of the cloud discovery response
type meetHueEntry struct {
	ID                string `json:"id"`
	InternalIPAddress string `json:"internalipaddress"`
	Port              int    `json:"port"`
}

type createUserRequest struct {
	DeviceType string `json:"devicetype"`
}

type createUserResponseItem struct {
	Success *struct {
		Username string `json:"username"`
	} `json:"success,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// ResourceIdentifier references another CLIP v2 resource
type ResourceIdentifier struct {
	RID   uuid.UUID `json:"rid"`
	RType string    `json:"rtype"`
}

type resourceError struct {
	Description string `json:"description"`
}

// envelope is the CLIP v2 response wrapper
type envelope[T any] struct {
	Errors []resourceError `json:"errors"`
	Data   []T             `json:"data"`
}

type metadata struct {
	Name      string `json:"name"`
	Archetype string `json:"archetype,omitempty"`
}

type onState struct {
	On bool `json:"on"`
}

type dimming struct {
	Brightness  float32 `json:"brightness"`
	MinDimLevel float32 `json:"min_dim_level,omitempty"`
}

type xyValue struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type gamutValue struct {
	Red   xyValue `json:"red"`
	Green xyValue `json:"green"`
	Blue  xyValue `json:"blue"`
}

type colorValue struct {
	XY        xyValue     `json:"xy"`
	Gamut     *gamutValue `json:"gamut,omitempty"`
	GamutType string      `json:"gamut_type,omitempty"`
}

type lightResource struct {
	Type             string              `json:"type"`
	ID               uuid.UUID           `json:"id"`
	Owner            *ResourceIdentifier `json:"owner,omitempty"`
	Metadata         metadata            `json:"metadata"`
	On               onState             `json:"on"`
	Dimming          *dimming            `json:"dimming,omitempty"`
	Color            *colorValue         `json:"color,omitempty"`
	ColorTemperature *Temperature        `json:"color_temperature,omitempty"`
}

type deviceResource struct {
	Type        string               `json:"type"`
	ID          uuid.UUID            `json:"id"`
	Metadata    metadata             `json:"metadata"`
	ProductData ProductData          `json:"product_data"`
	Services    []ResourceIdentifier `json:"services"`
}

// lightUpdate is the body of a light PUT. Only set fields are sent.
type lightUpdate struct {
	On               *onState       `json:"on,omitempty"`
	Dimming          *dimmingUpdate `json:"dimming,omitempty"`
	Color            *colorUpdate   `json:"color,omitempty"`
	ColorTemperature *mirekUpdate   `json:"color_temperature,omitempty"`
}

type dimmingUpdate struct {
	Brightness float32 `json:"brightness"`
}

type colorUpdate struct {
	XY xyValue `json:"xy"`
}

type mirekUpdate struct {
	Mirek int `json:"mirek"`
}
