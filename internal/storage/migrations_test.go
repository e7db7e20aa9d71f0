package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := openDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func appliedVersions(t *testing.T, db *sql.DB) []int64 {
	t.Helper()
	rows, err := db.Query("SELECT version FROM _migrations ORDER BY version")
	require.NoError(t, err)
	defer rows.Close()

	var versions []int64
	for rows.Next() {
		var v int64
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	require.NoError(t, rows.Err())
	return versions
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func syntheticRegistry() Registry {
	return NewRegistry(
		Migration{Version: 1, Description: "create alpha", Statement: "CREATE TABLE alpha (id INTEGER PRIMARY KEY)"},
		Migration{Version: 2, Description: "create beta", Statement: "CREATE TABLE beta (id INTEGER PRIMARY KEY)"},
		Migration{Version: 3, Description: "create gamma", Statement: "CREATE TABLE gamma (id INTEGER PRIMARY KEY)"},
	)
}

func TestApply_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	applied, err := NewRunner(nil).Apply(ctx, db, syntheticRegistry())
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, applied)
	assert.Equal(t, []int64{1, 2, 3}, appliedVersions(t, db))
	for _, table := range []string{"alpha", "beta", "gamma"} {
		assert.True(t, tableExists(t, db, table), "table %s should exist", table)
	}
}

func TestApply_ConvergedDatabaseIsNoop(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(nil)

	_, err := runner.Apply(ctx, db, syntheticRegistry())
	require.NoError(t, err)

	applied, err := runner.Apply(ctx, db, syntheticRegistry())
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Equal(t, []int64{1, 2, 3}, appliedVersions(t, db))
}

func TestApply_StopsAtFailedVersion(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(nil)

	broken := NewRegistry(
		Migration{Version: 1, Description: "create alpha", Statement: "CREATE TABLE alpha (id INTEGER PRIMARY KEY)"},
		Migration{Version: 2, Description: "broken", Statement: "CREATE TABLE beta ("},
		Migration{Version: 3, Description: "create gamma", Statement: "CREATE TABLE gamma (id INTEGER PRIMARY KEY)"},
	)

	applied, err := runner.Apply(ctx, db, broken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMigrationFailed)
	assert.Contains(t, err.Error(), "version 2")

	assert.Equal(t, []int64{1}, applied)
	assert.Equal(t, []int64{1}, appliedVersions(t, db))
	assert.True(t, tableExists(t, db, "alpha"))
	assert.False(t, tableExists(t, db, "gamma"))

	// A fixed release picks up where the failed one stopped
	applied, err = runner.Apply(ctx, db, syntheticRegistry())
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, applied)
}

func TestApply_FailedStatementRollsBackItsOwnWork(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	reg := NewRegistry(
		Migration{
			Version:     1,
			Description: "half valid",
			Statement: `CREATE TABLE delta (id INTEGER PRIMARY KEY);
				INSERT INTO missing_table VALUES (1);`,
		},
	)

	_, err := NewRunner(nil).Apply(ctx, db, reg)
	require.ErrorIs(t, err, ErrMigrationFailed)
	assert.Empty(t, appliedVersions(t, db))
	assert.False(t, tableExists(t, db, "delta"))
}

func TestApply_GappyVersions(t *testing.T) {
	db := openTestDB(t)
	reg := NewRegistry(
		Migration{Version: 1, Description: "one", Statement: "CREATE TABLE one (id INTEGER)"},
		Migration{Version: 5, Description: "five", Statement: "CREATE TABLE five (id INTEGER)"},
		Migration{Version: 10, Description: "ten", Statement: "CREATE TABLE ten (id INTEGER)"},
	)

	applied, err := NewRunner(nil).Apply(context.Background(), db, reg)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5, 10}, applied)
}

func TestApply_OnlyVersionsAboveHead(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(nil)

	first := NewRegistry(
		Migration{Version: 1, Description: "one", Statement: "CREATE TABLE one (id INTEGER)"},
		Migration{Version: 3, Description: "three", Statement: "CREATE TABLE three (id INTEGER)"},
	)
	_, err := runner.Apply(ctx, db, first)
	require.NoError(t, err)

	late := NewRegistry(
		Migration{Version: 1, Description: "one", Statement: "CREATE TABLE one (id INTEGER)"},
		Migration{Version: 2, Description: "two", Statement: "CREATE TABLE two (id INTEGER)"},
		Migration{Version: 3, Description: "three", Statement: "CREATE TABLE three (id INTEGER)"},
	)
	applied, err := runner.Apply(ctx, db, late)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.False(t, tableExists(t, db, "two"))
}

func TestApply_ModifiedMigrationIsRejected(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(nil)

	_, err := runner.Apply(ctx, db, syntheticRegistry())
	require.NoError(t, err)

	edited := NewRegistry(
		Migration{Version: 1, Description: "create alpha", Statement: "CREATE TABLE alpha (id INTEGER PRIMARY KEY, name TEXT)"},
		Migration{Version: 2, Description: "create beta", Statement: "CREATE TABLE beta (id INTEGER PRIMARY KEY)"},
		Migration{Version: 3, Description: "create gamma", Statement: "CREATE TABLE gamma (id INTEGER PRIMARY KEY)"},
		Migration{Version: 4, Description: "create epsilon", Statement: "CREATE TABLE epsilon (id INTEGER PRIMARY KEY)"},
	)

	applied, err := runner.Apply(ctx, db, edited)
	require.ErrorIs(t, err, ErrChecksumMismatch)
	assert.Empty(t, applied)
	assert.False(t, tableExists(t, db, "epsilon"))
}

func TestNewRegistry_RejectsBadOrdering(t *testing.T) {
	tests := []struct {
		name       string
		migrations []Migration
	}{
		{
			name: "duplicate version",
			migrations: []Migration{
				{Version: 1, Statement: "SELECT 1"},
				{Version: 1, Statement: "SELECT 2"},
			},
		},
		{
			name: "descending versions",
			migrations: []Migration{
				{Version: 2, Statement: "SELECT 1"},
				{Version: 1, Statement: "SELECT 2"},
			},
		},
		{
			name:       "zero version",
			migrations: []Migration{{Version: 0, Statement: "SELECT 1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() { NewRegistry(tt.migrations...) })
		})
	}
}

func TestRegistry_MigrationsIsACopy(t *testing.T) {
	reg := syntheticRegistry()
	ms := reg.Migrations()
	ms[0].Statement = "DROP TABLE alpha"

	assert.Equal(t, "CREATE TABLE alpha (id INTEGER PRIMARY KEY)", reg.Migrations()[0].Statement)
	assert.Equal(t, int64(3), reg.Latest())
	assert.Equal(t, int64(0), NewRegistry().Latest())
}

func TestStatus(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(nil)

	statuses, err := runner.Status(ctx, db, syntheticRegistry())
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	for _, st := range statuses {
		assert.False(t, st.Applied)
	}

	partial := NewRegistry(syntheticRegistry().Migrations()[:2]...)
	_, err = runner.Apply(ctx, db, partial)
	require.NoError(t, err)

	statuses, err = runner.Status(ctx, db, syntheticRegistry())
	require.NoError(t, err)
	assert.True(t, statuses[0].Applied)
	assert.True(t, statuses[1].Applied)
	assert.False(t, statuses[2].Applied)
	assert.False(t, statuses[0].AppliedAt.IsZero())
	assert.Equal(t, "create gamma", statuses[2].Description)
}

func TestStatus_CorruptAppliedAt(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	runner := NewRunner(nil)

	_, err := runner.Apply(ctx, db, syntheticRegistry())
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "UPDATE _migrations SET applied_at = 'yesterday' WHERE version = 2")
	require.NoError(t, err)

	_, err = runner.Status(ctx, db, syntheticRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid applied_at for version 2")
}

func TestDefaultRegistry(t *testing.T) {
	db := openTestDB(t)

	applied, err := NewRunner(nil).Apply(context.Background(), db, DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, applied)

	for _, table := range []string{
		"subscriptions", "payment_records", "expenses", "categories", "currencies",
		"household_members", "payment_methods", "tags", "config", "currency_rate_history",
	} {
		assert.True(t, tableExists(t, db, table), "table %s should exist", table)
	}
}
