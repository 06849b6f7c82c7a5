// Package hub implements the central mediator of PulseHome.
//
// A Hub owns an ordered collection of devices and an ordered collection of
// observers. Callers never talk to devices directly: they ask the hub to
// execute a command on a device by name, and on success every registered
// observer is notified of the resulting event, in registration order,
// before Execute returns.
//
// # Usage
//
//	h := hub.New()
//	h.SetLogger(log)
//	h.RegisterDevice(device.NewLight("Kitchen"))
//	h.RegisterObserver(sink.NewDisplay(os.Stdout))
//
//	ev, err := h.Execute("Kitchen", device.TurnOn)
//	if errors.Is(err, hub.ErrDeviceNotFound) {
//	    // unknown name, nothing was notified
//	}
//
// # Thread Safety
//
// All methods are safe for concurrent use. A single mutex serialises
// registration and dispatch, so at most one command is in flight at a
// time. Observers run while that lock is held and must not call back
// into the hub.
package hub
