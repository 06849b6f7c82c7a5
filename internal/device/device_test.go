package device

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestLight_InitialState(t *testing.T) {
	light := NewLight("Bedroom Light")

	if light.Name() != "Bedroom Light" {
		t.Errorf("Name() = %q, want %q", light.Name(), "Bedroom Light")
	}
	if light.Type() != TypeLight {
		t.Errorf("Type() = %q, want %q", light.Type(), TypeLight)
	}
	if light.State() != "off" {
		t.Errorf("State() = %q, want %q", light.State(), "off")
	}
}

func TestLight_TurnOnOff(t *testing.T) {
	light := NewLight("Living Room Light")

	ev, err := light.Apply(TurnOn)
	if err != nil {
		t.Fatalf("Apply(TurnOn) error = %v", err)
	}
	if light.State() != "on" {
		t.Errorf("State() = %q, want %q", light.State(), "on")
	}
	if ev.DeviceName != "Living Room Light" {
		t.Errorf("DeviceName = %q, want %q", ev.DeviceName, "Living Room Light")
	}
	if ev.DeviceType != TypeLight {
		t.Errorf("DeviceType = %q, want %q", ev.DeviceType, TypeLight)
	}
	if ev.Command != TurnOn {
		t.Errorf("Command = %v, want %v", ev.Command, TurnOn)
	}
	if ev.State() != "on" {
		t.Errorf("Payload = %q, want %q", ev.State(), "on")
	}

	ev, err = light.Apply(TurnOff)
	if err != nil {
		t.Fatalf("Apply(TurnOff) error = %v", err)
	}
	if light.State() != "off" || ev.State() != "off" {
		t.Errorf("after TurnOff state = %q payload = %q, want off", light.State(), ev.State())
	}
}

func TestLight_Idempotent(t *testing.T) {
	light := NewLight("Hall")

	for i := 0; i < 3; i++ {
		if _, err := light.Apply(TurnOn); err != nil {
			t.Fatalf("Apply(TurnOn) #%d error = %v", i, err)
		}
		if light.State() != "on" {
			t.Fatalf("State() after TurnOn #%d = %q, want on", i, light.State())
		}
	}
}

func TestDoorLock_LockUnlock(t *testing.T) {
	lock := NewDoorLock("Back Door")

	if lock.State() != "unlocked" {
		t.Fatalf("initial State() = %q, want unlocked", lock.State())
	}

	steps := []struct {
		cmd  Command
		want string
	}{
		{Lock, "locked"},
		{Lock, "locked"},
		{Unlock, "unlocked"},
		{Unlock, "unlocked"},
		{Lock, "locked"},
	}

	for _, step := range steps {
		ev, err := lock.Apply(step.cmd)
		if err != nil {
			t.Fatalf("Apply(%v) error = %v", step.cmd, err)
		}
		if lock.State() != step.want {
			t.Errorf("Apply(%v): State() = %q, want %q", step.cmd, lock.State(), step.want)
		}
		if ev.State() != step.want {
			t.Errorf("Apply(%v): payload = %q, want %q", step.cmd, ev.State(), step.want)
		}
	}
}

func TestThermostat_SetTempIncrements(t *testing.T) {
	tests := []struct {
		initial int
		times   int
	}{
		{initial: 20, times: 3},
		{initial: 22, times: 1},
		{initial: -5, times: 10},
		{initial: 0, times: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d+%d", tt.initial, tt.times), func(t *testing.T) {
			thermo := NewThermostat("Bedroom", tt.initial)
			for i := 0; i < tt.times; i++ {
				if _, err := thermo.Apply(SetTemp); err != nil {
					t.Fatalf("Apply(SetTemp) error = %v", err)
				}
			}

			want := fmt.Sprintf("%d°C", tt.initial+tt.times)
			if thermo.State() != want {
				t.Errorf("State() = %q, want %q", thermo.State(), want)
			}
			if thermo.Temperature() != tt.initial+tt.times {
				t.Errorf("Temperature() = %d, want %d", thermo.Temperature(), tt.initial+tt.times)
			}
		})
	}
}

func TestThermostat_EventPayload(t *testing.T) {
	thermo := NewThermostat("Living Room Thermostat", 20)

	ev, err := thermo.Apply(SetTemp)
	if err != nil {
		t.Fatalf("Apply(SetTemp) error = %v", err)
	}
	if ev.State() != "21°C" {
		t.Errorf("payload = %q, want %q", ev.State(), "21°C")
	}
	if ev.DeviceType != TypeThermostat {
		t.Errorf("DeviceType = %q, want %q", ev.DeviceType, TypeThermostat)
	}
}

// TestApply_UnsupportedLeavesStateUnchanged checks every rejected
// (variant, command) pair.
func TestApply_UnsupportedLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		device   Device
		rejected []Command
	}{
		{"light", NewLight("L1"), []Command{Lock, Unlock, SetTemp}},
		{"thermostat", NewThermostat("T1", 22), []Command{TurnOn, TurnOff, Lock, Unlock}},
		{"doorlock", NewDoorLock("D1"), []Command{TurnOn, TurnOff, SetTemp}},
	}

	for _, tt := range tests {
		for _, cmd := range tt.rejected {
			t.Run(tt.name+"/"+cmd.String(), func(t *testing.T) {
				before := tt.device.State()

				ev, err := tt.device.Apply(cmd)
				if err == nil {
					t.Fatalf("Apply(%v) error = nil, want ErrUnsupportedCommand", cmd)
				}
				if !errors.Is(err, ErrUnsupportedCommand) {
					t.Errorf("Apply(%v) error = %v, want ErrUnsupportedCommand", cmd, err)
				}
				if ev.ID != "" {
					t.Errorf("Apply(%v) returned non-zero event on failure", cmd)
				}
				if after := tt.device.State(); after != before {
					t.Errorf("State() changed from %q to %q", before, after)
				}
			})
		}
	}
}

func TestUnsupportedErrorMessage(t *testing.T) {
	_, err := NewLight("L1").Apply(Lock)
	want := "Light does not support Lock: device: unsupported command"
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestEvent_StateWithoutPayload(t *testing.T) {
	ev := NewEvent("Sensor", "Custom", TurnOn, nil)
	if ev.State() != "unknown" {
		t.Errorf("State() = %q, want %q", ev.State(), "unknown")
	}
	if ev.ID == "" {
		t.Error("expected event ID to be set")
	}
	if ev.Timestamp.IsZero() {
		t.Error("expected event timestamp to be set")
	}
}

func TestEvent_UniqueIDs(t *testing.T) {
	light := NewLight("L")
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		ev, err := light.Apply(TurnOn)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if seen[ev.ID] {
			t.Fatalf("duplicate event ID %q", ev.ID)
		}
		seen[ev.ID] = true
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Living Room Light", "living-room-light"},
		{"front_door", "front-door"},
		{"  Kitchen  ", "kitchen"},
		{"Bad!!Name??", "badname"},
		{"a -- b", "a-b"},
		{"!!!", "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	key := Key("Living Room Light")
	if !strings.HasPrefix(key, "living-room-light-") {
		t.Errorf("Key() = %q, want living-room-light- prefix", key)
	}
	if len(key) != len("living-room-light-")+keyHashLength {
		t.Errorf("Key() = %q, want %d hash digits", key, keyHashLength)
	}
	if Key("Living Room Light") != key {
		t.Error("Key() is not stable for the same name")
	}

	distinct := []string{"客厅", "卧室", "Küche", "Kche", "Living Room", "living_room", "living room", "!!!", "???"}
	seen := make(map[string]string)
	for _, name := range distinct {
		k := Key(name)
		if other, ok := seen[k]; ok {
			t.Errorf("Key(%q) = Key(%q) = %q", name, other, k)
		}
		seen[k] = name
		for _, r := range k {
			if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
				t.Errorf("Key(%q) = %q contains %q", name, k, r)
			}
		}
	}
}
