// Package device provides the simulated devices managed by the PulseHome hub.
//
// Every device implements the Device capability: a stable name, a fixed
// type tag, a command entry point and a rendered state. A device's state is
// only ever changed through Apply, which either accepts the command and
// returns an Event describing the new state, or rejects it and leaves the
// device untouched.
//
// # Variants
//
//	┌──────────────┬──────────────────────┬─────────────────────────────┐
//	│ Type         │ Accepted commands    │ State                       │
//	├──────────────┼──────────────────────┼─────────────────────────────┤
//	│ Light        │ TurnOn, TurnOff      │ "on" / "off"                │
//	│ Thermostat   │ SetTemp              │ "{temperature}°C"           │
//	│ DoorLock     │ Lock, Unlock         │ "locked" / "unlocked"       │
//	└──────────────┴──────────────────────┴─────────────────────────────┘
//
// SetTemp carries no value: it raises the thermostat by TemperatureStep.
//
// # Usage
//
//	light := device.NewLight("Kitchen")
//	ev, err := light.Apply(device.TurnOn)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(ev.State()) // "on"
//
//	// Or from a type tag, as the shell does:
//	dev, err := device.New(device.KindThermostat, "Bedroom", 20)
//
// # Thread Safety
//
// Devices are not safe for concurrent use. They are owned by the hub, which
// serialises every call to Apply.
package device
