package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared across the bridge and the gateway.
var (
	ErrFetch             = errors.New("image fetch failed")
	ErrDecode            = errors.New("image decode failed")
	ErrEncode            = errors.New("image encode failed")
	ErrUnresolvableImage = errors.New("image reference cannot be resolved")
	ErrDeviceUnreachable = errors.New("device unreachable")
	ErrDeviceRejected    = errors.New("device rejected request")
	ErrNoActiveTrack     = errors.New("no active track")
	ErrNoPlayer          = errors.New("no media player available")
	ErrUnknownCommand    = errors.New("unknown command")
)

// DeviceError carries the non-success status returned by the downstream hop.
type DeviceError struct {
	Status int
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrDeviceRejected, e.Status)
}

func (e *DeviceError) Unwrap() error {
	return ErrDeviceRejected
}
