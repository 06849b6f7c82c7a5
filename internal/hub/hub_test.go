package hub

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/nerrad567/pulsehome-core/internal/device"
)

// recordingObserver keeps a copy of every event it sees.
type recordingObserver struct {
	mu     sync.Mutex
	events []device.Event
}

func (r *recordingObserver) Notify(ev *device.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
}

func (r *recordingObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recordingObserver) last() device.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

// captureLogger records messages by level.
type captureLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *captureLogger) Debug(string, ...any) {}
func (l *captureLogger) Info(string, ...any)  {}
func (l *captureLogger) Warn(string, ...any)  {}
func (l *captureLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func TestHub_ExecuteNotifiesObservers(t *testing.T) {
	h := New()
	h.RegisterDevice(device.NewLight("Kitchen"))

	obs := &recordingObserver{}
	h.RegisterObserver(obs)

	ev, err := h.Execute("Kitchen", device.TurnOn)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ev.State() != "on" {
		t.Errorf("event state = %q, want on", ev.State())
	}
	if obs.count() != 1 {
		t.Fatalf("observer notified %d times, want 1", obs.count())
	}

	got := obs.last()
	if got.DeviceName != "Kitchen" || got.DeviceType != device.TypeLight || got.Command != device.TurnOn {
		t.Errorf("observer got %+v", got)
	}
	if got.ID != ev.ID {
		t.Errorf("observer event ID = %q, returned ID = %q", got.ID, ev.ID)
	}
}

func TestHub_ThermostatScenario(t *testing.T) {
	h := New()
	h.RegisterDevice(device.NewThermostat("Bedroom", 22))

	ev, err := h.Execute("Bedroom", device.SetTemp)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ev.State() != "23°C" {
		t.Errorf("state = %q, want 23°C", ev.State())
	}
}

func TestHub_DeviceNotFound(t *testing.T) {
	h := New()
	h.RegisterDevice(device.NewLight("Kitchen"))
	obs := &recordingObserver{}
	h.RegisterObserver(obs)

	_, err := h.Execute("Ghost", device.TurnOn)
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("Execute() error = %v, want ErrDeviceNotFound", err)
	}
	want := `hub: device not found: "Ghost"`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if obs.count() != 0 {
		t.Errorf("observer notified %d times, want 0", obs.count())
	}
}

func TestHub_NameMatchIsCaseSensitive(t *testing.T) {
	h := New()
	h.RegisterDevice(device.NewLight("Kitchen"))

	if _, err := h.Execute("kitchen", device.TurnOn); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Execute(\"kitchen\") error = %v, want ErrDeviceNotFound", err)
	}
}

func TestHub_UnsupportedCommand(t *testing.T) {
	h := New()
	light := device.NewLight("L1")
	h.RegisterDevice(light)
	obs := &recordingObserver{}
	h.RegisterObserver(obs)

	_, err := h.Execute("L1", device.Lock)
	if !errors.Is(err, device.ErrUnsupportedCommand) {
		t.Fatalf("Execute() error = %v, want ErrUnsupportedCommand", err)
	}
	if errors.Is(err, ErrDeviceNotFound) {
		t.Error("unsupported command should not be reported as not found")
	}
	if light.State() != "off" {
		t.Errorf("light state = %q, want off", light.State())
	}
	if obs.count() != 0 {
		t.Errorf("observer notified %d times, want 0", obs.count())
	}
}

func TestHub_ObserverOrder(t *testing.T) {
	h := New()
	h.RegisterDevice(device.NewDoorLock("Front"))

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		h.RegisterObserver(ObserverFunc(func(*device.Event) {
			order = append(order, i)
		}))
	}

	if _, err := h.Execute("Front", device.Lock); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !reflect.DeepEqual(order, []int{1, 2, 3}) {
		t.Errorf("notification order = %v, want [1 2 3]", order)
	}
}

func TestHub_SameObserverRegisteredTwice(t *testing.T) {
	h := New()
	h.RegisterDevice(device.NewLight("Kitchen"))
	obs := &recordingObserver{}
	h.RegisterObserver(obs)
	h.RegisterObserver(obs)

	if _, err := h.Execute("Kitchen", device.TurnOn); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if obs.count() != 2 {
		t.Errorf("observer notified %d times, want 2", obs.count())
	}
}

func TestHub_NoObservers(t *testing.T) {
	h := New()
	h.RegisterDevice(device.NewLight("Kitchen"))

	ev, err := h.Execute("Kitchen", device.TurnOn)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ev.State() != "on" {
		t.Errorf("state = %q, want on", ev.State())
	}
}

func TestHub_DuplicateNamesFirstMatchWins(t *testing.T) {
	h := New()
	first := device.NewLight("Lamp")
	second := device.NewLight("Lamp")
	h.RegisterDevice(first)
	h.RegisterDevice(second)

	if _, err := h.Execute("Lamp", device.TurnOn); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.State() != "on" {
		t.Errorf("first lamp state = %q, want on", first.State())
	}
	if second.State() != "off" {
		t.Errorf("second lamp state = %q, want off", second.State())
	}
	if names := h.DeviceNames(); !reflect.DeepEqual(names, []string{"Lamp", "Lamp"}) {
		t.Errorf("DeviceNames() = %v", names)
	}
}

func TestHub_DeviceNames(t *testing.T) {
	h := New()
	if names := h.DeviceNames(); len(names) != 0 {
		t.Errorf("DeviceNames() on empty hub = %v, want empty", names)
	}

	h.RegisterDevice(device.NewLight("Living Room Light"))
	h.RegisterDevice(device.NewThermostat("Bedroom", 20))
	h.RegisterDevice(device.NewDoorLock("Front Door"))
	h.RegisterDevice(nil)

	want := []string{"Living Room Light", "Bedroom", "Front Door"}
	names := h.DeviceNames()
	if !reflect.DeepEqual(names, want) {
		t.Errorf("DeviceNames() = %v, want %v", names, want)
	}

	names[0] = "mutated"
	if h.DeviceNames()[0] != "Living Room Light" {
		t.Error("DeviceNames() returned a slice aliasing hub state")
	}
	if h.DeviceCount() != 3 {
		t.Errorf("DeviceCount() = %d, want 3", h.DeviceCount())
	}
}

func TestHub_Describe(t *testing.T) {
	h := New()
	h.RegisterDevice(device.NewLight("Kitchen"))
	h.RegisterDevice(device.NewThermostat("Bedroom", 19))

	if _, err := h.Execute("Kitchen", device.TurnOn); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []DeviceInfo{
		{Name: "Kitchen", Type: device.TypeLight, State: "on"},
		{Name: "Bedroom", Type: device.TypeThermostat, State: "19°C"},
	}
	if got := h.Describe(); !reflect.DeepEqual(got, want) {
		t.Errorf("Describe() = %+v, want %+v", got, want)
	}
	if !h.HasDevice("Bedroom") || h.HasDevice("Garage") {
		t.Error("HasDevice() returned unexpected result")
	}
}

func TestHub_PanickingObserverIsIsolated(t *testing.T) {
	h := New()
	logger := &captureLogger{}
	h.SetLogger(logger)
	h.RegisterDevice(device.NewLight("Kitchen"))

	h.RegisterObserver(ObserverFunc(func(*device.Event) {
		panic("boom")
	}))
	after := &recordingObserver{}
	h.RegisterObserver(after)

	ev, err := h.Execute("Kitchen", device.TurnOn)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ev.State() != "on" {
		t.Errorf("state = %q, want on", ev.State())
	}
	if after.count() != 1 {
		t.Errorf("observer after panic notified %d times, want 1", after.count())
	}
	if len(logger.errors) != 1 {
		t.Errorf("logged %d errors, want 1", len(logger.errors))
	}
	if h.ObserverCount() != 2 {
		t.Errorf("ObserverCount() = %d, want 2", h.ObserverCount())
	}
}

func TestHub_Stats(t *testing.T) {
	h := New()
	h.RegisterDevice(device.NewLight("Kitchen"))
	h.RegisterObserver(ObserverFunc(func(*device.Event) { panic("boom") }))

	_, _ = h.Execute("Kitchen", device.TurnOn)
	_, _ = h.Execute("Kitchen", device.TurnOff)
	_, _ = h.Execute("Kitchen", device.Lock)
	_, _ = h.Execute("Ghost", device.TurnOn)

	stats, err := h.Metrics().Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.Succeeded != 2 {
		t.Errorf("Succeeded = %d, want 2", stats.Succeeded)
	}
	if stats.Unsupported != 1 {
		t.Errorf("Unsupported = %d, want 1", stats.Unsupported)
	}
	if stats.NotFound != 1 {
		t.Errorf("NotFound = %d, want 1", stats.NotFound)
	}
	if stats.ObserverPanics != 2 {
		t.Errorf("ObserverPanics = %d, want 2", stats.ObserverPanics)
	}
	if stats.ByCommand["TurnOn"] != 1 || stats.ByCommand["TurnOff"] != 1 {
		t.Errorf("ByCommand = %v", stats.ByCommand)
	}
}

func TestHub_ConcurrentExecute(t *testing.T) {
	h := New()
	thermo := device.NewThermostat("Hall", 0)
	h.RegisterDevice(thermo)
	obs := &recordingObserver{}
	h.RegisterObserver(obs)

	const workers = 10
	const perWorker = 20

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := h.Execute("Hall", device.SetTemp); err != nil {
					t.Errorf("Execute() error = %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if thermo.Temperature() != workers*perWorker {
		t.Errorf("Temperature() = %d, want %d", thermo.Temperature(), workers*perWorker)
	}
	if obs.count() != workers*perWorker {
		t.Errorf("observer notified %d times, want %d", obs.count(), workers*perWorker)
	}
}
