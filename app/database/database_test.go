package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDB(t)

	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read version: %v", err)
	}
	if version != schemaVersion {
		t.Errorf("Expected version %d, got: %d", schemaVersion, version)
	}

	for _, table := range []string{"feeds", "items"} {
		var name string
		err := db.conn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}

func TestOpenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := NewFeedRepository(db).Upsert(Feed{URL: "https://example.org/feed", Link: "l", Title: "t"}); err != nil {
		t.Fatalf("Failed to upsert feed: %v", err)
	}
	db.Close()

	// Reopening a current-version database must be a no-op.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()

	feed, err := NewFeedRepository(db).GetByURL("https://example.org/feed")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	if feed == nil {
		t.Fatal("Expected feed to survive reopen")
	}
}

func TestOpenUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open raw database: %v", err)
	}
	if _, err := raw.Exec("PRAGMA user_version = 2"); err != nil {
		t.Fatalf("Failed to set version: %v", err)
	}
	raw.Close()

	_, err = Open(path)
	var versionErr *UnknownVersionError
	if !errors.As(err, &versionErr) {
		t.Fatalf("Expected UnknownVersionError, got: %v", err)
	}
	if versionErr.Version != 2 {
		t.Errorf("Expected version 2 in error, got: %d", versionErr.Version)
	}

	// The gate must refuse before any schema statement executes.
	raw, err = sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to reopen raw database: %v", err)
	}
	defer raw.Close()

	var count int
	if err := raw.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'").Scan(&count); err != nil {
		t.Fatalf("Failed to count tables: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no tables in refused database, got: %d", count)
	}
}
