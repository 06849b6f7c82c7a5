// Package logging provides structured logging for PulseHome.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the hub, its sinks and the shell.
//
// # Features
//
//   - Text output for interactive use (human-readable)
//   - JSON output when logs are shipped elsewhere (machine-parsable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # text, json
//	  output: "stderr"   # stderr, stdout
//
// Logs default to stderr so they never mix with the shell's command output
// on stdout.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("hub ready", "devices", 3)
//	logger.Error("failed to connect", "error", err)
//
// Never log secrets such as the MQTT password or InfluxDB token.
package logging
