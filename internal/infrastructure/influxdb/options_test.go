package influxdb

import (
	"testing"
	"time"

	"github.com/nerrad567/pulsehome-core/internal/infrastructure/config"
)

func TestBuildOptions(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.InfluxDBConfig
		hubName       string
		wantBatch     uint
		wantFlushMS   uint
		wantHubTag    string
		wantHubTagSet bool
	}{
		{
			name:          "configured",
			cfg:           config.InfluxDBConfig{BatchSize: 50, FlushInterval: 2},
			hubName:       "PulseHome",
			wantBatch:     50,
			wantFlushMS:   2000,
			wantHubTag:    "PulseHome",
			wantHubTagSet: true,
		},
		{
			name:        "defaults",
			cfg:         config.InfluxDBConfig{},
			wantBatch:   defaultBatchSize,
			wantFlushMS: defaultFlushInterval * 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := buildOptions(tt.cfg, tt.hubName)

			if opts.BatchSize() != tt.wantBatch {
				t.Errorf("BatchSize() = %d, want %d", opts.BatchSize(), tt.wantBatch)
			}
			if opts.FlushInterval() != tt.wantFlushMS {
				t.Errorf("FlushInterval() = %d, want %d", opts.FlushInterval(), tt.wantFlushMS)
			}
			if opts.Precision() != time.Millisecond {
				t.Errorf("Precision() = %v, want 1ms", opts.Precision())
			}

			tag, ok := opts.WriteOptions().DefaultTags()["hub"]
			if ok != tt.wantHubTagSet || tag != tt.wantHubTag {
				t.Errorf("hub tag = %q (set %v), want %q (set %v)", tag, ok, tt.wantHubTag, tt.wantHubTagSet)
			}
		})
	}
}
