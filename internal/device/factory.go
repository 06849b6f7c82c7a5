package device

import (
	"fmt"
	"strings"
)

// Kind is the lowercase type tag used to create devices from text
// (shell input, config files).
type Kind string

// Known device kinds.
const (
	KindLight      Kind = "light"
	KindThermostat Kind = "thermostat"
	KindDoorLock   Kind = "doorlock"
)

// AllKinds returns every kind New understands.
func AllKinds() []Kind {
	return []Kind{KindLight, KindThermostat, KindDoorLock}
}

// ParseKind matches a type tag case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDeviceType, s)
}

// New creates a device of the given kind.
//
// The optional initial value is only used by thermostats; when omitted
// they start at DefaultTemperature.
func New(kind Kind, name string, initial ...int) (Device, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}

	switch kind {
	case KindLight:
		return NewLight(name), nil
	case KindDoorLock:
		return NewDoorLock(name), nil
	case KindThermostat:
		temp := DefaultTemperature
		if len(initial) > 0 {
			temp = initial[0]
		}
		return NewThermostat(name, temp), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeviceType, string(kind))
	}
}
