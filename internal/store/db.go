package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database serving the viewer's list queries. The
// viewer opens ":memory:" — the mirror is rebuilt from the export on
// every load and nothing survives the process.
type DB struct {
	*sql.DB
}

// Open creates a new SQLite connection. For ":memory:" the pool is pinned
// to a single connection, since every sqlite3 connection would otherwise
// get its own empty in-memory database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &DB{db}, nil
}
