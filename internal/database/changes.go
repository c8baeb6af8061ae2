package database

import (
	"context"
	"fmt"
	"time"

	"arena/internal/events"
)

// Change is one entry of a court's change log.
type Change struct {
	ID        int64     `json:"id"`
	CourtID   int64     `json:"court_id"`
	EventType string    `json:"event_type"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordChange appends an entry to the change log.
func (db *DB) RecordChange(ctx context.Context, courtID int64, eventType string, version int64, at time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO court_changes (court_id, event_type, version, created_at) VALUES (?, ?, ?, ?)`,
		courtID, eventType, version, at.UTC())
	if err != nil {
		return fmt.Errorf("record change for court %d: %w", courtID, err)
	}
	return nil
}

// RecordEvent is an events handler feeding the change log. A deletion removes the court's log
// along with the court, so it is not recorded.
func (db *DB) RecordEvent(e events.Event) error {
	if e.Type == events.CourtDeleted {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return db.RecordChange(ctx, e.CourtID, e.Type, e.Version, e.CreatedAt)
}

// ListChanges returns the latest entries for a court, newest first.
func (db *DB) ListChanges(ctx context.Context, courtID int64, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, court_id, event_type, version, created_at
		FROM court_changes WHERE court_id = ?
		ORDER BY id DESC LIMIT ?`, courtID, limit)
	if err != nil {
		return nil, fmt.Errorf("list changes for court %d: %w", courtID, err)
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var ch Change
		if err := rows.Scan(&ch.ID, &ch.CourtID, &ch.EventType, &ch.Version, &ch.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}
