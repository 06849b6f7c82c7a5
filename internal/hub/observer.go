package hub

import "github.com/nerrad567/pulsehome-core/internal/device"

// Observer receives an Event after every successful command.
//
// Notify is called synchronously, once per event, in registration order.
// It has no error return: implementations handle their own failures.
// The event pointer is only valid for the duration of the call.
type Observer interface {
	Notify(ev *device.Event)
}

// ObserverFunc adapts an ordinary function to the Observer interface.
type ObserverFunc func(ev *device.Event)

// Notify calls f(ev).
func (f ObserverFunc) Notify(ev *device.Event) {
	f(ev)
}
