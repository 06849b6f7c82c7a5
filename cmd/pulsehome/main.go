// PulseHome - interactive home automation hub
//
// This is the main entry point for the PulseHome shell. It loads the
// configuration, seeds the hub with the configured devices, attaches the
// enabled sinks and then hands control to the interactive shell.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/nerrad567/pulsehome-core/migrations"

	"github.com/nerrad567/pulsehome-core/internal/cli"
	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/hub"
	"github.com/nerrad567/pulsehome-core/internal/infrastructure/config"
	"github.com/nerrad567/pulsehome-core/internal/infrastructure/database"
	"github.com/nerrad567/pulsehome-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/pulsehome-core/internal/infrastructure/logging"
	"github.com/nerrad567/pulsehome-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/pulsehome-core/internal/sink"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting PulseHome",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	h := hub.New()
	if err := seedDevices(h, cfg); err != nil {
		return err
	}

	shell, err := cli.NewInteractive(h)
	if err != nil {
		return fmt.Errorf("starting shell: %w", err)
	}
	defer shell.Close()

	// Log lines go through the shell's writers so they don't corrupt the prompt.
	logOut := shell.Stderr()
	if cfg.Logging.Output == "stdout" {
		logOut = shell.Stdout()
	}
	log = logging.NewWithWriter(cfg.Logging, version, logOut)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	h.SetLogger(log.With("component", "hub"))
	shell.SetLogger(log.With("component", "shell"))
	shell.SetDefaultTemperature(cfg.Hub.DefaultTemperature)

	svc, err := attachSinks(ctx, cfg, h, shell.Stdout(), shell.Stderr(), log)
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.journal != nil {
		shell.SetJournal(svc.journal)
	}
	shell.SetRecordingPath(svc.recordingPath)

	log.Info("hub ready",
		"name", cfg.Hub.Name,
		"devices", h.DeviceCount(),
		"observers", h.ObserverCount(),
	)

	if err := shell.Run(ctx); err != nil {
		return fmt.Errorf("running shell: %w", err)
	}

	if stats, err := h.Metrics().Stats(); err == nil {
		log.Info("PulseHome stopped", "stats", stats.String())
	}
	return nil
}

// loadConfig reads PULSEHOME_CONFIG when set, which must exist, or the
// default path, which may be absent.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("PULSEHOME_CONFIG"); path != "" {
		return config.Load(path)
	}
	return config.LoadOptional(config.DefaultPath)
}

// seedDevices registers the configured devices in file order.
func seedDevices(h *hub.Hub, cfg *config.Config) error {
	for i, dc := range cfg.Hub.Devices {
		kind, err := device.ParseKind(dc.Type)
		if err != nil {
			return fmt.Errorf("seeding device %d: %w", i, err)
		}

		temp := cfg.Hub.DefaultTemperature
		if dc.Initial != nil {
			temp = *dc.Initial
		}

		dev, err := device.New(kind, dc.Name, temp)
		if err != nil {
			return fmt.Errorf("seeding device %d: %w", i, err)
		}
		h.RegisterDevice(dev)
	}
	return nil
}

// services holds the resources opened for the sinks.
type services struct {
	log           *logging.Logger
	closers       []namedCloser
	checks        []namedCheck
	journal       *sink.Journal
	recordingPath string
}

type namedCloser struct {
	name  string
	close func() error
}

type namedCheck struct {
	name  string
	check func(ctx context.Context) error
}

func (s *services) add(name string, fn func() error) {
	s.closers = append(s.closers, namedCloser{name: name, close: fn})
}

func (s *services) addCheck(name string, fn func(ctx context.Context) error) {
	s.checks = append(s.checks, namedCheck{name: name, check: fn})
}

// healthCheck runs every registered check in order and stops at the
// first failure.
func (s *services) healthCheck(ctx context.Context) error {
	for _, c := range s.checks {
		if err := c.check(ctx); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return nil
}

// Close releases resources in reverse order of opening.
func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		s.log.Info("closing " + c.name)
		if err := c.close(); err != nil {
			s.log.Error("error closing "+c.name, "error", err)
		}
	}
	s.closers = nil
}

// attachSinks registers every enabled sink with the hub in a fixed order.
// An enabled sink that cannot start is a startup error.
func attachSinks(ctx context.Context, cfg *config.Config, h *hub.Hub, out, errOut io.Writer, log *logging.Logger) (_ *services, err error) {
	svc := &services{log: log}
	defer func() {
		if err != nil {
			svc.Close()
		}
	}()

	if cfg.Sinks.Display.Enabled {
		h.RegisterObserver(sink.NewDisplay(out))
	}

	if cfg.Sinks.LogFile.Enabled {
		lf := sink.NewLogFile(cfg.Sinks.LogFile.Path)
		lf.SetErrorOutput(errOut)
		lf.SetLogger(log.With("sink", "log_file"))
		h.RegisterObserver(lf)
		log.Info("log file sink enabled", "path", lf.Path())
	}

	if cfg.Sinks.Journal.Enabled {
		journal, err := openJournal(ctx, cfg.Sinks.Journal, svc)
		if err != nil {
			return nil, err
		}
		journal.SetLogger(log.With("sink", "journal"))
		h.RegisterObserver(journal)
		svc.journal = journal
	}

	if cfg.Sinks.Recorder.Enabled {
		rec, err := sink.NewRecorder(cfg.Sinks.Recorder.Path)
		if err != nil {
			return nil, fmt.Errorf("opening recorder: %w", err)
		}
		svc.add("recorder", rec.Close)
		rec.SetLogger(log.With("sink", "recorder"))
		h.RegisterObserver(rec)
		svc.recordingPath = rec.Path()
		log.Info("recorder sink enabled", "path", rec.Path())
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("connecting to MQTT: %w", err)
		}
		svc.add("MQTT connection", client.Close)
		svc.addCheck("mqtt", client.HealthCheck)
		client.SetLogger(log)
		client.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		client.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		m := sink.NewMQTT(client, client.DefaultQoS(), client.DefaultRetain())
		m.SetLogger(log.With("sink", "mqtt"))
		h.RegisterObserver(m)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	}

	if cfg.InfluxDB.Enabled {
		client, err := influxdb.Connect(cfg.InfluxDB, cfg.Hub.Name)
		if err != nil {
			return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		svc.add("InfluxDB connection", client.Close)
		svc.addCheck("influxdb", client.HealthCheck)
		client.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		h.RegisterObserver(sink.NewInflux(client))
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		svc.add("Redis connection", rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connecting to Redis: %w", err)
		}

		r := sink.NewRedis(rdb, cfg.Redis.Channel, cfg.GetStateTTL())
		r.SetLogger(log.With("sink", "redis"))
		h.RegisterObserver(r)
		log.Info("Redis connected", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	}

	if err := svc.healthCheck(ctx); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	if len(svc.checks) > 0 {
		log.Info("all health checks passed", "checks", len(svc.checks))
	}

	return svc, nil
}

func openJournal(ctx context.Context, cfg config.JournalConfig, svc *services) (*sink.Journal, error) {
	db, err := database.Open(database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	svc.add("database", db.Close)

	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	svc.addCheck("database", db.HealthCheck)
	svc.log.Info("journal sink enabled", "path", db.Path())

	return sink.NewJournal(db), nil
}
