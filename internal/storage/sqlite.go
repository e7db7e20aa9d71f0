package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db       *sql.DB
	registry Registry
	runner   *Runner
	logger   *slog.Logger
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite has a single writer; one connection also keeps pragmas sticky
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return db, nil
}

// NewSQLiteStorage opens the database at dbPath and converges its schema onto
// registry before returning. Any migration error is returned and the
// database is closed; the caller must treat it as fatal.
func NewSQLiteStorage(ctx context.Context, dbPath string, registry Registry) (*SQLiteStorage, error) {
	logger := slog.Default().With("component", "storage")

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	runner := NewRunner(logger)
	applied, err := runner.Apply(ctx, db, registry)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("database ready",
		"path", dbPath,
		"driver", DriverName,
		"schema_version", registry.Latest(),
		"applied_now", len(applied))

	return &SQLiteStorage{
		db:       db,
		registry: registry,
		runner:   runner,
		logger:   logger,
	}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// MigrationStatus lists the registry this storage was opened with
func (s *SQLiteStorage) MigrationStatus(ctx context.Context) ([]MigrationStatus, error) {
	return s.runner.Status(ctx, s.db, s.registry)
}

// Config operations

func (s *SQLiteStorage) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read config %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStorage) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write config %q: %w", key, err)
	}
	return nil
}

// Rate history operations

// dayFormat is the calendar-day layout used for recorded_at
const dayFormat = "2006-01-02"

// SaveRateSnapshot stores one rate per currency per calendar day; a later
// snapshot on the same day replaces the earlier one.
func (s *SQLiteStorage) SaveRateSnapshot(ctx context.Context, currencyID string, rate float64, day time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO currency_rate_history (currency_id, rate, recorded_at) VALUES (?, ?, ?)
		ON CONFLICT(currency_id, recorded_at) DO UPDATE SET rate = excluded.rate
	`, currencyID, rate, day.UTC().Format(dayFormat))
	if err != nil {
		return fmt.Errorf("failed to save rate snapshot: %w", err)
	}
	return nil
}

// RateHistory returns snapshots for currencyID recorded on or after since, oldest first
func (s *SQLiteStorage) RateHistory(ctx context.Context, currencyID string, since time.Time) ([]RatePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT currency_id, rate, recorded_at FROM currency_rate_history
		WHERE currency_id = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC
	`, currencyID, since.UTC().Format(dayFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history: %w", err)
	}
	defer rows.Close()

	var points []RatePoint
	for rows.Next() {
		var p RatePoint
		if err := rows.Scan(&p.CurrencyID, &p.Rate, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// PruneRateHistory deletes snapshots recorded before the given day
func (s *SQLiteStorage) PruneRateHistory(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM currency_rate_history WHERE recorded_at < ?", before.UTC().Format(dayFormat))
	if err != nil {
		return 0, fmt.Errorf("failed to prune rate history: %w", err)
	}
	return result.RowsAffected()
}

func (s *SQLiteStorage) ClearRateHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM currency_rate_history"); err != nil {
		return fmt.Errorf("failed to clear rate history: %w", err)
	}
	return nil
}

// ReadMigrationStatus reports registry against the database at dbPath
// without applying anything. A missing database file reports every entry as
// pending and is not created.
func ReadMigrationStatus(ctx context.Context, dbPath string, registry Registry) ([]MigrationStatus, error) {
	runner := NewRunner(nil)

	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		statuses := make([]MigrationStatus, 0, len(registry.migrations))
		for _, m := range registry.migrations {
			statuses = append(statuses, MigrationStatus{Version: m.Version, Description: m.Description})
		}
		return statuses, nil
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return runner.Status(ctx, db, registry)
}
