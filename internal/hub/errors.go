package hub

import "errors"

// Domain errors for hub operations.
var (
	// ErrDeviceNotFound is returned when no registered device has the
	// requested name.
	ErrDeviceNotFound = errors.New("hub: device not found")
)
