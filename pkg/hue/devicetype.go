package hue

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	applicationNamePattern = regexp.MustCompile(`^\w{1,20}$`)
	deviceNamePattern      = regexp.MustCompile(`^\w{1,19}$`)
)

// DeviceType identifies an application installation to the bridge during
// authorization. The bridge calls it "devicetype".
type DeviceType struct {
	ApplicationName string `json:"application_name"`
	DeviceName      string `json:"device_name"`
}

// NewDeviceType validates both names
func NewDeviceType(applicationName, deviceName string) (DeviceType, error) {
	if !applicationNamePattern.MatchString(applicationName) {
		return DeviceType{}, fmt.Errorf("%q: %w", applicationName, ErrInvalidApplicationName)
	}
	if !deviceNamePattern.MatchString(deviceName) {
		return DeviceType{}, fmt.Errorf("%q: %w", deviceName, ErrInvalidDeviceName)
	}
	return DeviceType{ApplicationName: applicationName, DeviceName: deviceName}, nil
}

// ParseDeviceType parses the "application#device" form
func ParseDeviceType(s string) (DeviceType, error) {
	app, dev, ok := strings.Cut(s, "#")
	if !ok {
		return DeviceType{}, fmt.Errorf("device type %q must be of the form application#device: %w", s, ErrInvalidDeviceName)
	}
	return NewDeviceType(app, dev)
}

// String returns the "application#device" form sent to the bridge
func (d DeviceType) String() string {
	return d.ApplicationName + "#" + d.DeviceName
}
