// Package database provides SQLite connectivity for the PulseHome event
// journal.
//
// This package manages:
//   - Database connection with optional WAL mode
//   - Schema migrations embedded in the binary (see the migrations package)
//   - Connection lifecycle and health checks
//
// All queries use parameterised statements. The database file is created
// with 0600 permissions.
//
// Usage:
//
//	db, err := database.Open(database.Config{
//	    Path:        cfg.Sinks.Journal.Path,
//	    WALMode:     cfg.Sinks.Journal.WALMode,
//	    BusyTimeout: cfg.Sinks.Journal.BusyTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive: each has an .up.sql and a .down.sql file, and
// applied versions are tracked in schema_migrations.
package database
