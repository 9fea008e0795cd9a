package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database with the fact schema.
//
// The connection pool is limited to one connection: every new connection to
// ":memory:" would otherwise see its own empty database.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    db := storage.NewTestDB(t)
//	    // ... test code ...
//	    // No need to close - t.Cleanup() handles it
//	}
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	err = CreateSchema(db)
	require.NoError(t, err)

	return db
}

// NewTestSink creates a Sink over NewTestDB. The sink does not own the
// connection, so its facts stay readable after Close.
func NewTestSink(t testing.TB) (*Sink, *sql.DB) {
	t.Helper()

	db := NewTestDB(t)
	sink, err := NewSinkWithDB(db)
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })

	return sink, db
}

// NewTestSinkFile opens a file-backed Sink in t.TempDir() and returns it with
// the database path. Use it to test persistence across connections.
func NewTestSinkFile(t testing.TB) (*Sink, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	sink, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })

	return sink, dbPath
}
