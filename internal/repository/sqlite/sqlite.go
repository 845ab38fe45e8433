// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// SQLite fits this site's shape: a single-server deployment with a tiny
// write rate (one upsert per login). The modernc.org/sqlite driver is a pure
// Go translation of SQLite, so the binary cross-compiles without a C
// toolchain. Use ":memory:" as the path for throwaway databases in tests.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init function.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements
// repository.UserRepository. The server owns the lifecycle: New at startup,
// Close during graceful shutdown.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath, verifies the connection, and runs
// migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open only prepares the pool; Ping forces a real connection so a
	// bad path or permission problem surfaces at startup, not first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight, which matters
	// once the login upsert and an admin listing can overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers defer this right after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			provider      TEXT NOT NULL,
			login         TEXT NOT NULL,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL,
			avatar_url    TEXT NOT NULL,
			created_at    TIMESTAMP NOT NULL,
			updated_at    TIMESTAMP NOT NULL,
			last_login_at TIMESTAMP NOT NULL,
			UNIQUE (provider, login)
		)
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}
	return nil
}
