package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, device.ErrUnsupportedCommand) {
//	    // the device rejected the command, its state is unchanged
//	}
var (
	// ErrUnsupportedCommand is returned when a device does not accept a command.
	ErrUnsupportedCommand = errors.New("device: unsupported command")

	// ErrUnknownCommand is returned when command text does not name a command.
	ErrUnknownCommand = errors.New("device: unknown command")

	// ErrInvalidDeviceType is returned when a type tag is not recognised.
	ErrInvalidDeviceType = errors.New("device: invalid type")

	// ErrInvalidName is returned when a device name is empty.
	ErrInvalidName = errors.New("device: invalid name")
)
