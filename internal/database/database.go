// Package database persists court records in SQLite.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"arena/internal/court"
	"arena/internal/domain"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB wraps the sqlite connection pool.
type DB struct {
	*sql.DB
	path   string
	logger *zerolog.Logger
}

// NewDB opens the database at path and creates tables if they don't exist.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{DB: db, path: path, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) createTables() error {
	queries := []string{
		// The court record is stored whole; name, sport and base_price are copied out for listing.
		`CREATE TABLE IF NOT EXISTS courts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			sport TEXT NOT NULL,
			base_price TEXT NOT NULL,
			payload TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_courts_name ON courts(name)`,
		`CREATE INDEX IF NOT EXISTS idx_courts_sport ON courts(sport)`,

		`CREATE TABLE IF NOT EXISTS court_changes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			court_id INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			version INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_court_changes_court ON court_changes(court_id, id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", trimSQL(query), err)
		}
	}
	return nil
}

// CreateCourt inserts c, assigning its ID and version 1.
func (db *DB) CreateCourt(ctx context.Context, c *court.Court) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	c.Version = 1

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal court: %w", err)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO courts (name, sport, base_price, payload, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Sport, c.BasePrice.String(), string(payload), c.Version, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert court: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("court id: %w", err)
	}
	c.ID = id

	// Rewrite the payload so it carries its own ID.
	payload, err = json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal court: %w", err)
	}
	if _, err := db.ExecContext(ctx, `UPDATE courts SET payload = ? WHERE id = ?`, string(payload), id); err != nil {
		return fmt.Errorf("update court payload: %w", err)
	}
	return nil
}

// GetCourt loads one court.
func (db *DB) GetCourt(ctx context.Context, id int64) (court.Court, error) {
	var payload string
	err := db.QueryRowContext(ctx, `SELECT payload FROM courts WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return court.Court{}, fmt.Errorf("%w: %d", domain.ErrUnknownCourt, id)
	}
	if err != nil {
		return court.Court{}, fmt.Errorf("get court %d: %w", id, err)
	}
	return decodeCourt(payload)
}

// ListCourts returns every court ordered by ID.
func (db *DB) ListCourts(ctx context.Context) ([]court.Court, error) {
	rows, err := db.QueryContext(ctx, `SELECT payload FROM courts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	defer rows.Close()

	var out []court.Court
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		c, err := decodeCourt(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveCourt writes c if the stored version still equals expectedVersion. c.Version must already
// hold the new version.
func (db *DB) SaveCourt(ctx context.Context, c court.Court, expectedVersion int64) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal court: %w", err)
	}

	res, err := db.ExecContext(ctx, `
		UPDATE courts
		SET name = ?, sport = ?, base_price = ?, payload = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		c.Name, c.Sport, c.BasePrice.String(), string(payload), c.Version, c.UpdatedAt, c.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("save court %d: %w", c.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save court %d: %w", c.ID, err)
	}
	if affected == 0 {
		exists, err := db.courtExists(ctx, c.ID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %d", domain.ErrUnknownCourt, c.ID)
		}
		return fmt.Errorf("%w: court %d expected version %d", domain.ErrConcurrentModification, c.ID, expectedVersion)
	}
	return nil
}

// DeleteCourt removes a court and its change log.
func (db *DB) DeleteCourt(ctx context.Context, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `DELETE FROM courts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete court %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", domain.ErrUnknownCourt, id)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM court_changes WHERE court_id = ?`, id); err != nil {
		return fmt.Errorf("delete court %d changes: %w", id, err)
	}
	return tx.Commit()
}

// FindCourtByName returns the first court whose name matches case-insensitively.
func (db *DB) FindCourtByName(ctx context.Context, name string) (court.Court, error) {
	var payload string
	err := db.QueryRowContext(ctx,
		`SELECT payload FROM courts WHERE lower(name) = lower(?) ORDER BY id LIMIT 1`,
		strings.TrimSpace(name)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return court.Court{}, fmt.Errorf("%w: %q", domain.ErrUnknownCourt, name)
	}
	if err != nil {
		return court.Court{}, fmt.Errorf("find court %q: %w", name, err)
	}
	return decodeCourt(payload)
}

func (db *DB) courtExists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM courts WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check court %d: %w", id, err)
	}
	return n > 0, nil
}

func decodeCourt(payload string) (court.Court, error) {
	var c court.Court
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return court.Court{}, fmt.Errorf("decode court: %w", err)
	}
	return c, nil
}

// Close closes the pool.
func (db *DB) Close() error {
	return db.DB.Close()
}

func trimSQL(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if len(q) > 60 {
		return q[:60] + "..."
	}
	return q
}
