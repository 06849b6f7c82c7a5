package hub

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Dispatch results recorded in pulsehome_commands_total.
const (
	ResultOK          = "ok"
	ResultNotFound    = "not_found"
	ResultUnsupported = "unsupported"
	ResultError       = "error"
)

const (
	metricCommands       = "pulsehome_commands_total"
	metricObserverPanics = "pulsehome_observer_panics_total"
)

// Metrics holds the hub's dispatch counters.
//
// Each hub gets its own registry so several hubs (and tests) can coexist
// in one process. Nothing is exposed over HTTP; callers that want
// exposition can gather from Registry().
type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	panics   prometheus.Counter
}

func newMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricCommands,
				Help: "Commands dispatched by device type, command, and result.",
			},
			[]string{"device_type", "command", "result"},
		),
		panics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricObserverPanics,
				Help: "Observer notifications that panicked and were recovered.",
			},
		),
	}
	m.registry.MustRegister(m.commands, m.panics)
	return m
}

// Registry returns the registry the counters are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeCommand(deviceType, command, result string) {
	if deviceType == "" {
		deviceType = "unknown"
	}
	m.commands.WithLabelValues(deviceType, command, result).Inc()
}

func (m *Metrics) observePanic() {
	m.panics.Inc()
}

// Stats is a flattened view of the dispatch counters.
type Stats struct {
	Total          uint64
	Succeeded      uint64
	NotFound       uint64
	Unsupported    uint64
	Failed         uint64
	ObserverPanics uint64

	// ByCommand counts successful commands by command name.
	ByCommand map[string]uint64
}

// String renders the stats on one line for the shell.
func (s Stats) String() string {
	return fmt.Sprintf("commands=%d ok=%d not_found=%d unsupported=%d error=%d observer_panics=%d",
		s.Total, s.Succeeded, s.NotFound, s.Unsupported, s.Failed, s.ObserverPanics)
}

// Stats gathers the current counter values.
func (m *Metrics) Stats() (Stats, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return Stats{}, fmt.Errorf("gathering metrics: %w", err)
	}

	stats := Stats{ByCommand: make(map[string]uint64)}
	for _, mf := range families {
		switch mf.GetName() {
		case metricCommands:
			for _, metric := range mf.GetMetric() {
				stats.addCommand(metric)
			}
		case metricObserverPanics:
			for _, metric := range mf.GetMetric() {
				stats.ObserverPanics += uint64(metric.GetCounter().GetValue())
			}
		}
	}
	return stats, nil
}

func (s *Stats) addCommand(metric *dto.Metric) {
	n := uint64(metric.GetCounter().GetValue())

	var command, result string
	for _, lp := range metric.GetLabel() {
		switch lp.GetName() {
		case "command":
			command = lp.GetValue()
		case "result":
			result = lp.GetValue()
		}
	}

	s.Total += n
	switch result {
	case ResultOK:
		s.Succeeded += n
		s.ByCommand[command] += n
	case ResultNotFound:
		s.NotFound += n
	case ResultUnsupported:
		s.Unsupported += n
	default:
		s.Failed += n
	}
}
