package sink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/pulsehome-core/internal/device"
	"github.com/nerrad567/pulsehome-core/internal/infrastructure/database"
	_ "github.com/nerrad567/pulsehome-core/migrations"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "journal.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return NewJournal(db)
}

func TestJournal_NotifyAndHistory(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	light := device.NewLight("Kitchen")
	first := stateEvent(t, light, device.TurnOn)
	second := stateEvent(t, light, device.TurnOff)
	j.Notify(first)
	j.Notify(second)
	j.Notify(stateEvent(t, device.NewDoorLock("Front Door"), device.Lock))

	entries, err := j.History(ctx, "Kitchen", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, second.ID, entries[0].EventID)
	assert.Equal(t, "TurnOff", entries[0].Command)
	assert.Equal(t, "off", entries[0].State)
	assert.Equal(t, "Light", entries[0].DeviceType)

	assert.Equal(t, first.ID, entries[1].EventID)
	assert.Equal(t, "on", entries[1].State)
	assert.True(t, entries[1].CreatedAt.Equal(first.Timestamp))
}

func TestJournal_HistoryLimit(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	thermo := device.NewThermostat("Hall", 20)
	for i := 0; i < 5; i++ {
		j.Notify(stateEvent(t, thermo, device.SetTemp))
	}

	entries, err := j.History(ctx, "Hall", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "25°C", entries[0].State)
	assert.Equal(t, "24°C", entries[1].State)
}

func TestJournal_HistoryUnknownDevice(t *testing.T) {
	j := openJournal(t)

	entries, err := j.History(context.Background(), "Ghost", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = j.History(context.Background(), "", 10)
	assert.Error(t, err)
}

func TestJournal_DuplicateEventIsRejected(t *testing.T) {
	j := openJournal(t)
	ev := stateEvent(t, device.NewLight("Porch"), device.TurnOn)

	require.NoError(t, j.Record(context.Background(), ev))
	assert.Error(t, j.Record(context.Background(), ev))
}
