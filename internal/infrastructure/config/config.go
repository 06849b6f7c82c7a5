package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked for when
// PULSEHOME_CONFIG is not set.
const DefaultPath = "configs/config.yaml"

// Temperature bounds accepted for hub.default_temperature and seeded
// thermostats.
const (
	MinTemperature = -50
	MaxTemperature = 100
)

// Config is the root configuration structure for PulseHome.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Hub      HubConfig      `yaml:"hub"`
	Logging  LoggingConfig  `yaml:"logging"`
	Sinks    SinksConfig    `yaml:"sinks"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Redis    RedisConfig    `yaml:"redis"`
}

// HubConfig contains hub identity and the devices seeded at startup.
type HubConfig struct {
	Name               string         `yaml:"name"`
	DefaultTemperature int            `yaml:"default_temperature"`
	Devices            []DeviceConfig `yaml:"devices"`
}

// DeviceConfig describes one device created at startup.
type DeviceConfig struct {
	Type    string `yaml:"type"`
	Name    string `yaml:"name"`
	Initial *int   `yaml:"initial,omitempty"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SinksConfig enables and configures the event observers.
type SinksConfig struct {
	Display  DisplayConfig  `yaml:"display"`
	LogFile  LogFileConfig  `yaml:"log_file"`
	Journal  JournalConfig  `yaml:"journal"`
	Recorder RecorderConfig `yaml:"recorder"`
}

// DisplayConfig controls the console observer.
type DisplayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogFileConfig controls the plain-text event log.
type LogFileConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// JournalConfig contains SQLite settings for the event journal.
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// RecorderConfig controls the CBOR event recording.
type RecorderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Retain    bool                `yaml:"retain"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// RedisConfig contains Redis connection and publishing settings.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
	StateTTL int    `yaml:"state_ttl"` // seconds; 0 keeps keys forever
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PULSEHOME_SECTION_KEY
// For example: PULSEHOME_DATABASE_PATH, PULSEHOME_MQTT_HOST
//
// A missing file is an error; use LoadOptional when the file may be absent.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return load(data)
}

// LoadOptional behaves like Load but falls back to defaults (plus
// environment overrides) when the file does not exist.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return load(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return load(data)
}

func load(data []byte) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading files or
// the environment.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Hub: HubConfig{
			Name:               "PulseHome",
			DefaultTemperature: 22,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Sinks: SinksConfig{
			Display: DisplayConfig{Enabled: true},
			LogFile: LogFileConfig{
				Enabled: true,
				Path:    "home_log.txt",
			},
			Journal: JournalConfig{
				Path:        "./data/pulsehome.db",
				WALMode:     true,
				BusyTimeout: 5,
			},
			Recorder: RecorderConfig{
				Path: "./data/events.cbor",
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "pulsehome",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Org:           "pulsehome",
			Bucket:        "events",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Channel:  "pulsehome:events",
			StateTTL: 86400,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PULSEHOME_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Logging
	if v := os.Getenv("PULSEHOME_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Sinks
	if v := os.Getenv("PULSEHOME_LOG_FILE"); v != "" {
		cfg.Sinks.LogFile.Path = v
	}
	if v := os.Getenv("PULSEHOME_DATABASE_PATH"); v != "" {
		cfg.Sinks.Journal.Path = v
	}

	// MQTT
	if v := os.Getenv("PULSEHOME_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("PULSEHOME_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("PULSEHOME_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("PULSEHOME_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Redis
	if v := os.Getenv("PULSEHOME_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("PULSEHOME_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}

var validDeviceTypes = map[string]bool{
	"light":      true,
	"thermostat": true,
	"doorlock":   true,
}

// Validate checks the configuration for errors.
//
// All problems are collected and reported together.
func (c *Config) Validate() error {
	var errs []string

	// Hub validation
	if c.Hub.DefaultTemperature < MinTemperature || c.Hub.DefaultTemperature > MaxTemperature {
		errs = append(errs, fmt.Sprintf("hub.default_temperature must be between %d and %d", MinTemperature, MaxTemperature))
	}
	for i, d := range c.Hub.Devices {
		if strings.TrimSpace(d.Name) == "" {
			errs = append(errs, fmt.Sprintf("hub.devices[%d].name is required", i))
		}
		if !validDeviceTypes[strings.ToLower(d.Type)] {
			errs = append(errs, fmt.Sprintf("hub.devices[%d].type %q must be light, thermostat, or doorlock", i, d.Type))
		}
		if d.Initial != nil && (*d.Initial < MinTemperature || *d.Initial > MaxTemperature) {
			errs = append(errs, fmt.Sprintf("hub.devices[%d].initial must be between %d and %d", i, MinTemperature, MaxTemperature))
		}
	}

	// Sink validation
	if c.Sinks.LogFile.Enabled && c.Sinks.LogFile.Path == "" {
		errs = append(errs, "sinks.log_file.path is required when enabled")
	}
	if c.Sinks.Journal.Enabled && c.Sinks.Journal.Path == "" {
		errs = append(errs, "sinks.journal.path is required when enabled")
	}
	if c.Sinks.Recorder.Enabled && c.Sinks.Recorder.Path == "" {
		errs = append(errs, "sinks.recorder.path is required when enabled")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when enabled")
		}
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when enabled")
		}
		if c.InfluxDB.Org == "" {
			errs = append(errs, "influxdb.org is required when enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when enabled")
		}
	}

	// Redis validation
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis.addr is required when enabled")
		}
		if c.Redis.Channel == "" {
			errs = append(errs, "redis.channel is required when enabled")
		}
		if c.Redis.StateTTL < 0 {
			errs = append(errs, "redis.state_ttl must not be negative")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetStateTTL returns the Redis state key TTL as a Duration.
func (c *Config) GetStateTTL() time.Duration {
	return time.Duration(c.Redis.StateTTL) * time.Second
}

// GetFlushInterval returns the InfluxDB flush interval as a Duration.
func (c *Config) GetFlushInterval() time.Duration {
	return time.Duration(c.InfluxDB.FlushInterval) * time.Second
}
