package sink

import (
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/hub"
	"github.com/nerrad567/pulsehome-core/internal/infrastructure/influxdb"
)

// MeasurementDeviceEvents is the InfluxDB measurement events are written to.
const MeasurementDeviceEvents = "device_events"

// PointWriter is the subset of *influxdb.Client used by the Influx sink.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time)
}

// Influx writes every event as a time-series point.
//
// Besides the raw state string, a numeric field is added where the state
// has one: temperature_c for thermostats, active (0/1) for lights and
// locks.
type Influx struct {
	w PointWriter
}

// NewInflux creates an Influx sink.
func NewInflux(w PointWriter) *Influx {
	return &Influx{w: w}
}

// Notify implements hub.Observer.
func (i *Influx) Notify(ev *device.Event) {
	tags := map[string]string{
		"device":  ev.DeviceName,
		"type":    ev.DeviceType,
		"command": ev.Command.String(),
	}
	i.w.WritePointWithTime(MeasurementDeviceEvents, tags, eventFields(ev), ev.Timestamp)
}

func eventFields(ev *device.Event) map[string]interface{} {
	state := ev.State()
	fields := map[string]interface{}{"state": state}

	switch ev.DeviceType {
	case device.TypeThermostat:
		if t, err := strconv.Atoi(strings.TrimSuffix(state, "°C")); err == nil {
			fields["temperature_c"] = t
		}
	case device.TypeLight:
		fields["active"] = boolToInt(state == "on")
	case device.TypeDoorLock:
		fields["active"] = boolToInt(state == "locked")
	}
	return fields
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var (
	_ hub.Observer = (*Influx)(nil)
	_ PointWriter  = (*influxdb.Client)(nil)
)
