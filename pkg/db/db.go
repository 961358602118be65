// Package db is the SQLite boundary of the deduplication job: the records
// source table, the ingestion and inconsistency-log sink tables and the
// per-run bookkeeping.
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Driver is the database/sql driver name registered by go-sqlite3.
const Driver = "sqlite3"

// Open opens the SQLite database at path and runs the migrations.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open(Driver, path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if path == ":memory:" {
		// Every new connection would get its own empty in-memory database.
		conn.SetMaxOpenConns(1)
	}
	if err := InitDB(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate database %s: %w", path, err)
	}
	return conn, nil
}

// InitDB runs the schema migrations on the given connection.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(s), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
