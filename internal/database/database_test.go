package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arena/internal/config"
	"arena/internal/court"
	"arena/internal/domain"
	"arena/internal/events"
	"arena/internal/recurring"
	"arena/internal/timeslot"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(filepath.Join(t.TempDir(), "arena.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newCourt(t *testing.T, name string) court.Court {
	t.Helper()
	c, err := court.New(name, "padel", decimal.NewFromInt(100))
	require.NoError(t, err)
	slot, err := timeslot.New("08:00", "12:00")
	require.NoError(t, err)
	_, err = c.Week.AddSlot(time.Monday, slot)
	require.NoError(t, err)
	require.NoError(t, c.Week.SetOpen(time.Monday, true))
	_, err = c.Recurring.Add(recurring.Block{Weekday: time.Monday, Slot: slot, Customer: "Ana"})
	require.NoError(t, err)
	return c
}

func TestCourtRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	c := newCourt(t, "Court A")
	require.NoError(t, db.CreateCourt(ctx, &c))
	require.NotZero(t, c.ID)
	assert.Equal(t, int64(1), c.Version)

	got, err := db.GetCourt(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "Court A", got.Name)
	assert.True(t, got.BasePrice.Equal(decimal.NewFromInt(100)))
	day, err := got.Week.Day(time.Monday)
	require.NoError(t, err)
	assert.True(t, day.Open)
	require.Len(t, day.Slots, 1)
	require.Len(t, got.Recurring.Blocks, 1)
	assert.Equal(t, "Ana", got.Recurring.Blocks[0].Customer)
	assert.Len(t, got.Addons, 3)

	byName, err := db.FindCourtByName(ctx, "court a")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byName.ID)
}

func TestSaveCourt_OptimisticVersion(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	c := newCourt(t, "Court A")
	require.NoError(t, db.CreateCourt(ctx, &c))

	next := c.Clone()
	next.Name = "Court A2"
	next.Version = 2
	require.NoError(t, db.SaveCourt(ctx, next, 1))

	stale := c.Clone()
	stale.Version = 2
	err := db.SaveCourt(ctx, stale, 1)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	missing := c.Clone()
	missing.ID = 999
	err = db.SaveCourt(ctx, missing, 1)
	assert.ErrorIs(t, err, domain.ErrUnknownCourt)

	got, err := db.GetCourt(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Court A2", got.Name)
	assert.Equal(t, int64(2), got.Version)
}

func TestDeleteCourt(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := newCourt(t, "Court A")
	b := newCourt(t, "Court B")
	require.NoError(t, db.CreateCourt(ctx, &a))
	require.NoError(t, db.CreateCourt(ctx, &b))
	require.NoError(t, db.RecordChange(ctx, a.ID, "court.created", 1, time.Now()))

	require.NoError(t, db.DeleteCourt(ctx, a.ID))
	_, err := db.GetCourt(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrUnknownCourt)
	assert.ErrorIs(t, db.DeleteCourt(ctx, a.ID), domain.ErrUnknownCourt)

	list, err := db.ListCourts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	changes, err := db.ListChanges(ctx, a.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestChanges(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.RecordChange(ctx, 1, "court.created", 1, now))
	require.NoError(t, db.RecordChange(ctx, 1, "template.changed", 2, now.Add(time.Minute)))
	require.NoError(t, db.RecordChange(ctx, 2, "court.created", 1, now))

	changes, err := db.ListChanges(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "template.changed", changes[0].EventType)
	assert.Equal(t, int64(2), changes[0].Version)
}

func TestRecordEvent_DeletedCourtLeavesNoLog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	bus := events.NewEventBus(&logger)
	bus.Subscribe(events.AllTypes, db.RecordEvent)

	a := newCourt(t, "Court A")
	require.NoError(t, db.CreateCourt(ctx, &a))
	bus.Publish(events.Event{Type: events.CourtCreated, CourtID: a.ID, Version: 1})
	bus.Publish(events.Event{Type: events.TemplateChanged, CourtID: a.ID, Version: 2})

	changes, err := db.ListChanges(ctx, a.ID, 10)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	require.NoError(t, db.DeleteCourt(ctx, a.ID))
	bus.Publish(events.Event{Type: events.CourtDeleted, CourtID: a.ID})

	changes, err = db.ListChanges(ctx, a.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestBackupService(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := newCourt(t, "Court A")
	require.NoError(t, db.CreateCourt(ctx, &c))

	dir := filepath.Join(t.TempDir(), "backups")
	logger := zerolog.New(io.Discard)
	svc := NewBackupService(db, config.BackupConfig{Enabled: true, Path: dir, RetentionDays: 7}, &logger)

	path, err := svc.PerformBackup(ctx)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	restored, err := NewDB(path, &logger)
	require.NoError(t, err)
	defer restored.Close()
	got, err := restored.GetCourt(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Court A", got.Name)

	old := filepath.Join(dir, backupPrefix+"old.db")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	past := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, past, past))

	svc.CleanupOldBackups()
	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
