package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrMigrationFailed is returned when a migration statement cannot be applied
	ErrMigrationFailed = errors.New("migration failed")
	// ErrChecksumMismatch is returned when an applied migration was edited after release
	ErrChecksumMismatch = errors.New("applied migration has been modified")
)

// bookkeepingTable records which registry versions have been applied
const bookkeepingTable = "_migrations"

const createBookkeepingTable = `
CREATE TABLE IF NOT EXISTS _migrations (
    version INTEGER PRIMARY KEY,
    description TEXT NOT NULL,
    checksum TEXT NOT NULL,
    applied_at TEXT NOT NULL
)`

// Migration represents a database schema migration
type Migration struct {
	Version     int64
	Description string
	Statement   string
}

// Checksum returns the hex SHA-256 of the migration statement
func (m Migration) Checksum() string {
	sum := sha256.Sum256([]byte(m.Statement))
	return hex.EncodeToString(sum[:])
}

// Registry is an ordered list of migrations with strictly increasing versions.
// It is built once at startup and passed by value to the Runner.
type Registry struct {
	migrations []Migration
}

// NewRegistry builds a registry from migrations listed in ascending order.
// A duplicate or out-of-order version is a programming error and panics.
func NewRegistry(migrations ...Migration) Registry {
	for i, m := range migrations {
		if m.Version < 1 {
			panic(fmt.Sprintf("storage: migration version %d must be positive", m.Version))
		}
		if i == 0 {
			continue
		}
		prev := migrations[i-1].Version
		if m.Version == prev {
			panic(fmt.Sprintf("storage: duplicate migration version %d", m.Version))
		}
		if m.Version < prev {
			panic(fmt.Sprintf("storage: migration version %d listed after %d", m.Version, prev))
		}
	}

	out := make([]Migration, len(migrations))
	copy(out, migrations)
	return Registry{migrations: out}
}

// Migrations returns a copy of the registered migrations in version order
func (r Registry) Migrations() []Migration {
	out := make([]Migration, len(r.migrations))
	copy(out, r.migrations)
	return out
}

// Latest returns the highest registered version, or 0 for an empty registry
func (r Registry) Latest() int64 {
	if len(r.migrations) == 0 {
		return 0
	}
	return r.migrations[len(r.migrations)-1].Version
}

// MigrationStatus reports whether a registry entry has been applied
type MigrationStatus struct {
	Version     int64
	Description string
	Applied     bool
	AppliedAt   time.Time
}

// appliedMigration is a row of the bookkeeping table
type appliedMigration struct {
	Version   int64
	Checksum  string
	AppliedAt time.Time
}

// Runner converges a database onto a Registry
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a Runner. A nil logger falls back to slog.Default.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger.With("component", "migrations")}
}

// Apply runs every migration whose version exceeds the highest applied
// version, in ascending order, each in its own transaction. It stops at the
// first failure; versions committed before the failure stay applied.
// It returns the versions applied by this call.
func (r *Runner) Apply(ctx context.Context, db *sql.DB, registry Registry) ([]int64, error) {
	if _, err := db.ExecContext(ctx, createBookkeepingTable); err != nil {
		return nil, fmt.Errorf("failed to create %s table: %w", bookkeepingTable, err)
	}

	applied, err := loadApplied(ctx, db)
	if err != nil {
		return nil, err
	}

	var head int64
	for version := range applied {
		head = max(head, version)
	}

	for _, m := range registry.migrations {
		row, ok := applied[m.Version]
		if !ok {
			continue
		}
		if row.Checksum != m.Checksum() {
			return nil, fmt.Errorf("%w: version %d (%s)", ErrChecksumMismatch, m.Version, m.Description)
		}
	}

	var done []int64
	for _, m := range registry.migrations {
		if m.Version <= head {
			if _, ok := applied[m.Version]; !ok {
				r.logger.Warn("skipping migration below applied head",
					"version", m.Version, "head", head)
			}
			continue
		}

		if err := r.applyOne(ctx, db, m); err != nil {
			r.logger.Error("migration failed",
				"version", m.Version,
				"description", m.Description,
				"error", err)
			return done, fmt.Errorf("%w: version %d (%s): %w", ErrMigrationFailed, m.Version, m.Description, err)
		}

		r.logger.Info("applied migration", "version", m.Version, "description", m.Description)
		done = append(done, m.Version)
	}

	return done, nil
}

// applyOne executes the statement and records the version in one transaction
func (r *Runner) applyOne(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.Statement); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO _migrations (version, description, checksum, applied_at) VALUES (?, ?, ?, ?)",
		m.Version, m.Description, m.Checksum(), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

// Status lists every registry entry together with its applied state
func (r *Runner) Status(ctx context.Context, db *sql.DB, registry Registry) ([]MigrationStatus, error) {
	var tableName string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", bookkeepingTable).Scan(&tableName)

	applied := map[int64]appliedMigration{}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Nothing applied yet
	case err != nil:
		return nil, fmt.Errorf("failed to check %s table: %w", bookkeepingTable, err)
	default:
		applied, err = loadApplied(ctx, db)
		if err != nil {
			return nil, err
		}
	}

	statuses := make([]MigrationStatus, 0, len(registry.migrations))
	for _, m := range registry.migrations {
		st := MigrationStatus{Version: m.Version, Description: m.Description}
		if row, ok := applied[m.Version]; ok {
			st.Applied = true
			st.AppliedAt = row.AppliedAt
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// loadApplied reads the bookkeeping table keyed by version
func loadApplied(ctx context.Context, db *sql.DB) (map[int64]appliedMigration, error) {
	rows, err := db.QueryContext(ctx, "SELECT version, checksum, applied_at FROM _migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]appliedMigration)
	for rows.Next() {
		var (
			row       appliedMigration
			appliedAt string
		)
		if err := rows.Scan(&row.Version, &row.Checksum, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan applied migration: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, appliedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid applied_at for version %d: %w", row.Version, err)
		}
		row.AppliedAt = parsed
		applied[row.Version] = row
	}
	return applied, rows.Err()
}
