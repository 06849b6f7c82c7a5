package device

import "strconv"

const (
	// DefaultTemperature is used when a thermostat is added without an initial value.
	DefaultTemperature = 22

	// TemperatureStep is how far one SetTemp raises the temperature.
	TemperatureStep = 1
)

// Thermostat holds a temperature in whole degrees Celsius.
//
// SetTemp does not carry a target value; every application raises the
// temperature by TemperatureStep.
type Thermostat struct {
	name        string
	temperature int
}

// NewThermostat creates a thermostat at the given initial temperature.
func NewThermostat(name string, initial int) *Thermostat {
	return &Thermostat{name: name, temperature: initial}
}

// Name implements Device.
func (t *Thermostat) Name() string { return t.name }

// Type implements Device.
func (t *Thermostat) Type() string { return TypeThermostat }

// Apply accepts SetTemp only.
func (t *Thermostat) Apply(cmd Command) (Event, error) {
	if cmd != SetTemp {
		return Event{}, unsupported(t, cmd)
	}
	t.temperature += TemperatureStep
	return newStateEvent(t, cmd), nil
}

// State returns the temperature rendered as "{t}°C".
func (t *Thermostat) State() string {
	return strconv.Itoa(t.temperature) + "°C"
}

// Temperature returns the current temperature.
func (t *Thermostat) Temperature() int { return t.temperature }

var _ Device = (*Thermostat)(nil)
