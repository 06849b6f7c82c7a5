package hub

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nerrad567/pulsehome-core/internal/device"
)

// Logger defines the logging interface used by the Hub.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// DeviceInfo is a point-in-time snapshot of one registered device.
type DeviceInfo struct {
	Name  string
	Type  string
	State string
}

// Hub routes commands to devices by name and fans resulting events out
// to observers.
//
// Devices and observers are kept in insertion order. Names are not
// required to be unique; lookups return the first match.
type Hub struct {
	mu        sync.Mutex
	devices   []device.Device
	observers []Observer
	logger    Logger
	metrics   *Metrics
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{
		logger:  noopLogger{},
		metrics: newMetrics(),
	}
}

// SetLogger sets the logger for the hub.
func (h *Hub) SetLogger(logger Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if logger == nil {
		logger = noopLogger{}
	}
	h.logger = logger
}

// Metrics returns the hub's dispatch counters.
func (h *Hub) Metrics() *Metrics {
	return h.metrics
}

// RegisterDevice appends a device. Nil devices are ignored.
func (h *Hub) RegisterDevice(d device.Device) {
	if d == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.devices = append(h.devices, d)
	h.logger.Debug("device registered", "name", d.Name(), "type", d.Type())
}

// RegisterObserver appends an observer. Nil observers are ignored.
func (h *Hub) RegisterObserver(o Observer) {
	if o == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.observers = append(h.observers, o)
	h.logger.Debug("observer registered", "observers", len(h.observers))
}

// Execute applies cmd to the first device named name.
//
// If no device matches, the returned error wraps ErrDeviceNotFound. If the
// device rejects the command its error is returned unchanged. In both cases
// no observer is notified. On success every observer is notified in
// registration order before Execute returns the event.
func (h *Hub) Execute(name string, cmd device.Command) (device.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	d := h.lookup(name)
	if d == nil {
		h.metrics.observeCommand("", cmd.String(), ResultNotFound)
		h.logger.Debug("command for unknown device", "name", name, "command", cmd.String())
		return device.Event{}, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
	}

	ev, err := d.Apply(cmd)
	if err != nil {
		result := ResultError
		if errors.Is(err, device.ErrUnsupportedCommand) {
			result = ResultUnsupported
		}
		h.metrics.observeCommand(d.Type(), cmd.String(), result)
		h.logger.Debug("command rejected", "name", name, "command", cmd.String(), "error", err)
		return device.Event{}, err
	}

	h.metrics.observeCommand(d.Type(), cmd.String(), ResultOK)
	h.logger.Debug("command applied",
		"name", ev.DeviceName,
		"type", ev.DeviceType,
		"command", cmd.String(),
		"state", ev.State(),
	)

	h.notify(&ev)
	return ev, nil
}

// notify delivers ev to every observer. Caller must hold h.mu.
func (h *Hub) notify(ev *device.Event) {
	for i, o := range h.observers {
		h.notifyOne(i, o, ev)
	}
}

func (h *Hub) notifyOne(index int, o Observer, ev *device.Event) {
	defer func() {
		if r := recover(); r != nil {
			h.metrics.observePanic()
			h.logger.Error("observer panicked",
				"observer", index,
				"event_id", ev.ID,
				"panic", r,
			)
		}
	}()
	o.Notify(ev)
}

// lookup returns the first device with an exact name match. Caller must
// hold h.mu.
func (h *Hub) lookup(name string) device.Device {
	for _, d := range h.devices {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// HasDevice reports whether any registered device is named name.
func (h *Hub) HasDevice(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lookup(name) != nil
}

// DeviceNames returns the device names in registration order.
// The returned slice is a copy.
func (h *Hub) DeviceNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.devices))
	for _, d := range h.devices {
		names = append(names, d.Name())
	}
	return names
}

// Describe returns a snapshot of every device in registration order.
func (h *Hub) Describe() []DeviceInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	infos := make([]DeviceInfo, 0, len(h.devices))
	for _, d := range h.devices {
		infos = append(infos, DeviceInfo{
			Name:  d.Name(),
			Type:  d.Type(),
			State: d.State(),
		})
	}
	return infos
}

// DeviceCount returns the number of registered devices.
func (h *Hub) DeviceCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.devices)
}

// ObserverCount returns the number of registered observers.
func (h *Hub) ObserverCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}
