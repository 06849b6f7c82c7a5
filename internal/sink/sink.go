package sink

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/pulsehome-core/internal/device"
)

// Logger defines the logging interface used by sinks.
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

func orNoop(l Logger) Logger {
	if l == nil {
		return noopLogger{}
	}
	return l
}

// FormatLine renders the log-file line for an event, without a newline.
func FormatLine(ev *device.Event) string {
	return fmt.Sprintf("Device '%s' (%s) state: %s", ev.DeviceName, ev.DeviceType, ev.State())
}

// eventMessage is the JSON form of an event sent to external systems.
type eventMessage struct {
	ID        string    `json:"id"`
	Device    string    `json:"device"`
	Key       string    `json:"key"`
	Type      string    `json:"type"`
	Command   string    `json:"command"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

func marshalEvent(ev *device.Event) ([]byte, error) {
	data, err := json.Marshal(eventMessage{
		ID:        ev.ID,
		Device:    ev.DeviceName,
		Key:       device.Key(ev.DeviceName),
		Type:      ev.DeviceType,
		Command:   ev.Command.String(),
		State:     ev.State(),
		Timestamp: ev.Timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling event: %w", err)
	}
	return data, nil
}
