package database

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// schemaVersion is the PRAGMA user_version this build understands. A fresh
// database reports 0 and gets the schema applied; anything other than the
// current version is refused.
const schemaVersion = 1

// UnknownVersionError is returned by Open when the database file was created
// by an incompatible build.
type UnknownVersionError struct {
	Version int
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown database version: %d", e.Version)
}

// DB wraps the SQLite connection shared by the repositories.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the SQLite database at path and runs the version
// gate before any other statement executes.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.checkVersion(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) checkVersion() error {
	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read database version: %w", err)
	}

	switch version {
	case 0:
		if _, err := db.conn.Exec(schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		if _, err := db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("failed to set database version: %w", err)
		}
		return nil
	case schemaVersion:
		return nil
	default:
		return &UnknownVersionError{Version: version}
	}
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
