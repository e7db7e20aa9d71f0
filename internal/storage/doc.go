// Package storage provides the SQLite database of the application and the
// migration mechanism that keeps its schema current across releases.
//
// # Migrations
//
// The schema is the union of the statements in a Registry, applied in
// version order. A Registry is plain data, so tests can build a synthetic
// one and run it against a temporary database:
//
//	reg := storage.NewRegistry(
//	    storage.Migration{Version: 1, Description: "base", Statement: "CREATE TABLE a (id INTEGER)"},
//	    storage.Migration{Version: 2, Description: "more", Statement: "CREATE TABLE b (id INTEGER)"},
//	)
//	applied, err := storage.NewRunner(nil).Apply(ctx, db, reg)
//
// The Runner applies only versions above the highest one recorded in the
// _migrations table. Each version runs in its own transaction together with
// its bookkeeping row, so a failed statement never leaves its version marked
// as applied. The runner stops at the first failure and returns an error
// wrapping ErrMigrationFailed; earlier versions stay applied.
//
// Applied statements are checksummed. Editing a released migration is
// reported as ErrChecksumMismatch instead of being silently accepted.
//
// # Opening the database
//
//	store, err := storage.NewSQLiteStorage(ctx, "/path/subly.db", storage.DefaultRegistry())
//	if err != nil {
//	    // fatal: the schema is not usable
//	}
//	defer store.Close()
//
// NewSQLiteStorage does not return until the schema has converged.
//
// # Build Tags
//
// Pure Go build (default): modernc.org/sqlite, no C compiler needed.
//
// CGO build (sqlite_cgo tag): github.com/mattn/go-sqlite3.
//
//	CGO_ENABLED=1 go build -tags "sqlite_cgo" ./...
package storage
