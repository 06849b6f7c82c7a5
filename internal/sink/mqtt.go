package sink

import (
	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/hub"
	"github.com/nerrad567/pulsehome-core/internal/infrastructure/mqtt"
)

// Publisher is the subset of *mqtt.Client used by the MQTT sink.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MQTT publishes every event as JSON on the device's event topic.
type MQTT struct {
	pub    Publisher
	qos    byte
	retain bool
	logger Logger
}

// NewMQTT creates an MQTT sink.
func NewMQTT(pub Publisher, qos byte, retain bool) *MQTT {
	return &MQTT{pub: pub, qos: qos, retain: retain, logger: noopLogger{}}
}

// SetLogger sets the logger for publish failures.
func (m *MQTT) SetLogger(logger Logger) {
	m.logger = orNoop(logger)
}

// Topic returns the topic an event is published on.
func (m *MQTT) Topic(ev *device.Event) string {
	return mqtt.Topics{}.DeviceEvent(device.Key(ev.DeviceName))
}

// Notify implements hub.Observer.
func (m *MQTT) Notify(ev *device.Event) {
	payload, err := marshalEvent(ev)
	if err != nil {
		m.logger.Error("mqtt event encoding failed", "event_id", ev.ID, "error", err)
		return
	}

	topic := m.Topic(ev)
	if err := m.pub.Publish(topic, payload, m.qos, m.retain); err != nil {
		m.logger.Warn("mqtt publish failed", "topic", topic, "event_id", ev.ID, "error", err)
	}
}

var (
	_ hub.Observer = (*MQTT)(nil)
	_ Publisher    = (*mqtt.Client)(nil)
)
