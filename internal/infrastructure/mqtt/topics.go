package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for PulseHome.
const (
	// TopicPrefix is the root of every PulseHome topic.
	TopicPrefix = "pulsehome"

	// TopicPrefixDevice is the base for per-device topics.
	TopicPrefixDevice = TopicPrefix + "/device"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = TopicPrefix + "/system"
)

// Topics provides builders for PulseHome MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.DeviceEvent("living-room-light")
//	// Returns: "pulsehome/device/living-room-light/event"
type Topics struct{}

// DeviceEvent returns the topic a device's events are published on.
// The key must already be topic-safe (see device.Key).
func (Topics) DeviceEvent(key string) string {
	return fmt.Sprintf("%s/%s/event", TopicPrefixDevice, key)
}

// AllDeviceEvents returns a wildcard matching every device event topic,
// for use by external subscribers.
func (Topics) AllDeviceEvents() string {
	return TopicPrefixDevice + "/+/event"
}

// SystemStatus returns the topic for hub online/offline status.
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// validatePublishTopic rejects topics a broker would refuse for PUBLISH.
func validatePublishTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTopic)
	}
	if strings.ContainsAny(topic, "+#") {
		return fmt.Errorf("%w: wildcards not allowed in %q", ErrInvalidTopic, topic)
	}
	return nil
}
