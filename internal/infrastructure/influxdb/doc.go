// Package influxdb provides InfluxDB connectivity for PulseHome.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, non-blocking batched writes and health monitoring. The
// InfluxDB sink uses it to record every device event as a time-series
// point so state changes can be graphed over time.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB, cfg.Hub.Name)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WritePointWithTime("device_events",
//	    map[string]string{"device": "Kitchen"},
//	    map[string]interface{}{"state": "on"},
//	    ev.Timestamp)
//
// # Error Handling
//
// Writes never block the caller and never return errors; batch failures
// are delivered to the SetOnError callback. Connection and health check
// errors are returned directly.
package influxdb
