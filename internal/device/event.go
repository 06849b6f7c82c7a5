package device

import (
	"time"

	"github.com/google/uuid"
)

// unknownState is rendered when a device chose not to report a state.
const unknownState = "unknown"

// Event records one successful state change.
//
// An Event is created exactly once per accepted command and is never
// modified afterwards. The hub hands observers a pointer for the duration
// of a single notification; observers that need to keep it must copy it.
type Event struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`

	// DeviceName is the name of the device that changed.
	DeviceName string `json:"device_name"`

	// DeviceType is the device's type tag (e.g. "Light").
	DeviceType string `json:"device_type"`

	// Command is the command that was applied.
	Command Command `json:"command"`

	// Payload is the device's state after the command, nil if not reported.
	Payload *string `json:"payload,omitempty"`

	// Timestamp is when the command was applied (UTC).
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds an Event stamped with a fresh ID and the current time.
func NewEvent(deviceName, deviceType string, cmd Command, payload *string) Event {
	return Event{
		ID:         uuid.New().String(),
		DeviceName: deviceName,
		DeviceType: deviceType,
		Command:    cmd,
		Payload:    payload,
		Timestamp:  time.Now().UTC(),
	}
}

// newStateEvent builds the Event a device emits after a successful Apply.
func newStateEvent(d Device, cmd Command) Event {
	state := d.State()
	return NewEvent(d.Name(), d.Type(), cmd, &state)
}

// State returns the reported payload, or "unknown" when none was reported.
func (e Event) State() string {
	if e.Payload == nil {
		return unknownState
	}
	return *e.Payload
}
