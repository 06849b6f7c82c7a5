package influxdb

import (
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/nerrad567/pulsehome-core/internal/infrastructure/config"
)

const (
	defaultBatchSize     = 100
	defaultFlushInterval = 10 // seconds

	applicationName = "pulsehome"
)

// buildOptions maps the config section onto client options. Points are
// written with millisecond precision.
func buildOptions(cfg config.InfluxDBConfig, hubName string) *influxdb2.Options {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	// #nosec G115 -- both values are positive here
	opts := influxdb2.DefaultOptions().
		SetApplicationName(applicationName).
		SetBatchSize(uint(batchSize)).
		SetFlushInterval(uint(time.Duration(flushInterval) * time.Second / time.Millisecond)).
		SetPrecision(time.Millisecond)

	if hubName != "" {
		opts.AddDefaultTag("hub", hubName)
	}
	return opts
}
