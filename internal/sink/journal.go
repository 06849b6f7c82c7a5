package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/hub"
	"github.com/nerrad567/pulsehome-core/internal/infrastructure/database"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200

	// journalWriteTimeout bounds one insert so a locked database only
	// delays a command.
	journalWriteTimeout = 5 * time.Second

	// journalTimeFormat is fixed width so created_at sorts as text.
	journalTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// JournalEntry is one row of the event journal.
type JournalEntry struct {
	ID         int64
	EventID    string
	DeviceName string
	DeviceType string
	Command    string
	State      string
	CreatedAt  time.Time
}

// Journal records every event in the SQLite event_journal table.
//
// The table is an audit trail: entries are never used to rebuild device
// state. The database must already be migrated.
type Journal struct {
	db     *database.DB
	logger Logger
}

// NewJournal creates a Journal on an open, migrated database.
func NewJournal(db *database.DB) *Journal {
	return &Journal{db: db, logger: noopLogger{}}
}

// SetLogger sets the logger for insert failures.
func (j *Journal) SetLogger(logger Logger) {
	j.logger = orNoop(logger)
}

// Notify implements hub.Observer.
func (j *Journal) Notify(ev *device.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()

	if err := j.Record(ctx, ev); err != nil {
		j.logger.Warn("journal write failed", "event_id", ev.ID, "error", err)
	}
}

// Record inserts a single event.
func (j *Journal) Record(ctx context.Context, ev *device.Event) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO event_journal (event_id, device_name, device_type, command, state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID,
		ev.DeviceName,
		ev.DeviceType,
		ev.Command.String(),
		ev.State(),
		ev.Timestamp.UTC().Format(journalTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	return nil
}

// History returns recent entries for a device, newest first.
//
// limit defaults to 50 and is capped at 200.
func (j *Journal) History(ctx context.Context, deviceName string, limit int) ([]JournalEntry, error) {
	if deviceName == "" {
		return nil, fmt.Errorf("device name is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, event_id, device_name, device_type, command, state, created_at
		 FROM event_journal
		 WHERE device_name = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		deviceName,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	entries := make([]JournalEntry, 0, limit)
	for rows.Next() {
		var e JournalEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.EventID, &e.DeviceName, &e.DeviceType, &e.Command, &e.State, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.CreatedAt, err = time.Parse(journalTimeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing journal timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal: %w", err)
	}
	return entries, nil
}

var _ hub.Observer = (*Journal)(nil)
