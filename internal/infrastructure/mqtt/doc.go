// Package mqtt provides outbound MQTT connectivity for PulseHome.
//
// This package manages:
//   - Connection to a broker with auto-reconnect
//   - Message publishing with QoS and payload validation
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// PulseHome only publishes: device events go out on
// pulsehome/device/<key>/event and the hub's online/offline status on
// pulsehome/system/status. Nothing is subscribed to, so the broker can
// never drive the hub.
//
// # Security Considerations
//
//   - Enable TLS (cfg.Broker.TLS=true) when the broker is not local
//   - Credentials should come from PULSEHOME_MQTT_USERNAME/PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.DeviceEvent("kitchen")
//	err = client.Publish(topic, payload, 1, false)
package mqtt
