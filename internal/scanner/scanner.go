// Package scanner owns capture devices that yield raw decoded strings, such as a camera
// pipeline or a keyboard-wedge barcode reader. A device is held by at most one session at a
// time and is released on every exit path.
package scanner

import (
	"context"
	"strings"

	"github.com/nailbliss/stampcard/internal/errors"
)

// Device errors are fatal to starting a session and never leave a device held.
var (
	// ErrNoDevice indicates no capture device is available.
	ErrNoDevice = errors.NewCoded(errors.ErrNotFound, "no_device", "No camera found on this device")

	// ErrPermissionDenied indicates the user or the OS refused access to the device.
	ErrPermissionDenied = errors.NewCoded(
		errors.ErrForbidden,
		"camera_permission_denied",
		"Camera access was denied. Allow camera access and try again",
	)

	// ErrUnsupported indicates the platform offers no capture support.
	ErrUnsupported = errors.NewCoded(
		errors.ErrUnavailable,
		"scanner_unsupported",
		"Scanning is not supported on this device",
	)

	// ErrDeviceBusy indicates the device is already held by another session.
	ErrDeviceBusy = errors.NewCoded(errors.ErrConflict, "device_busy", "The camera is already in use")
)

// Facing describes which way a camera points.
type Facing string

// Known facings.
const (
	FacingUnknown Facing = ""
	FacingFront   Facing = "front"
	FacingRear    Facing = "rear"
)

// DeviceInfo identifies a capture device.
type DeviceInfo struct {
	ID     string
	Label  string
	Facing Facing
}

// IsRear reports whether the device points away from the user. Devices that do not report a
// facing are matched on common label conventions.
func (i DeviceInfo) IsRear() bool {
	if i.Facing != FacingUnknown {
		return i.Facing == FacingRear
	}
	label := strings.ToLower(i.Label)
	for _, hint := range []string{"back", "rear", "environment"} {
		if strings.Contains(label, hint) {
			return true
		}
	}
	return false
}

// Device is a capture device that can be opened for reading.
type Device interface {
	Info() DeviceInfo
	Open(ctx context.Context) (Stream, error)
}

// Stream yields decoded strings from an open device.
type Stream interface {
	// Next blocks until the next decoded string is available. It returns io.EOF when the
	// device has no more input.
	Next(ctx context.Context) (string, error)
	Close() error
}

// Provider enumerates the devices available to the process.
type Provider interface {
	Devices(ctx context.Context) ([]Device, error)
}

// StaticProvider is a fixed device list.
type StaticProvider []Device

// Devices returns the list.
func (p StaticProvider) Devices(ctx context.Context) ([]Device, error) {
	return p, nil
}

// Preferred returns the first rear-facing device, or the first device when none faces rear.
func Preferred(devices []Device) (Device, error) {
	if len(devices) == 0 {
		return nil, ErrNoDevice
	}
	for _, device := range devices {
		if device.Info().IsRear() {
			return device, nil
		}
	}
	return devices[0], nil
}
