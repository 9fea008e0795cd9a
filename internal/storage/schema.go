package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is recorded in run_metadata by every run.
const SchemaVersion = "1.1"

// Fact table names.
const (
	TableDeclarations = "function_declaration"
	TableCalls        = "function_calling"
	TableParameters   = "function_param"
	TableRunMetadata  = "run_metadata"
)

// CreateSchema creates the fact tables if they do not exist.
// Uses a transaction so the schema is created completely or not at all.
//
// Each fact table carries a UNIQUE constraint over its natural key. Inserts
// use INSERT OR REPLACE, so a repeated fact replaces the earlier row:
//   - function_declaration: (name, file)
//   - function_calling: (caller, callee, file, line, col)
//   - function_param: (function, name, type, id), every declared column, so
//     unnamed parameters, overloads and same-named static functions in
//     different files each keep their rows
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{TableDeclarations, createDeclarationsTable},
		{TableCalls, createCallsTable},
		{TableParameters, createParametersTable},
		{TableRunMetadata, createRunMetadataTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range getAllIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}

// GetSchemaVersion retrieves the schema version from run_metadata.
// Returns "0" if no run has completed against this database.
func GetSchemaVersion(db *sql.DB) (string, error) {
	var tableExists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", TableRunMetadata).Scan(&tableExists)
	if err != nil {
		return "", fmt.Errorf("failed to check run_metadata existence: %w", err)
	}
	if tableExists == 0 {
		return "0", nil
	}

	var version string
	err = db.QueryRow("SELECT value FROM run_metadata WHERE key = 'schema_version'").Scan(&version)
	if err == sql.ErrNoRows {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

// Table DDL constants

const createDeclarationsTable = `
CREATE TABLE IF NOT EXISTS function_declaration (
    name VARCHAR,                                -- Declared function name
    file VARCHAR,                                -- Path as given on the command line
    line INTEGER,                                -- 1-indexed line of the name
    col INTEGER,                                 -- 1-indexed byte column of the name
    UNIQUE (name, file)
)
`

const createCallsTable = `
CREATE TABLE IF NOT EXISTS function_calling (
    caller VARCHAR,                              -- Current function at the call site
    callee VARCHAR,                              -- Spelled callee name
    file VARCHAR,
    line INTEGER,
    col INTEGER,
    UNIQUE (caller, callee, file, line, col)
)
`

const createParametersTable = `
CREATE TABLE IF NOT EXISTS function_param (
    function VARCHAR,                            -- Owning function name
    name VARCHAR,                                -- Parameter name (empty when unnamed)
    type VARCHAR,                                -- Spelled declared type
    id INTEGER,                                  -- Type-kind tag of the declared type
    UNIQUE (function, name, type, id)
)
`

const createRunMetadataTable = `
CREATE TABLE IF NOT EXISTS run_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL                     -- ISO 8601
)
`

// getAllIndexes returns the secondary indexes used by the query commands.
func getAllIndexes() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_function_calling_caller ON function_calling(caller)",
		"CREATE INDEX IF NOT EXISTS idx_function_calling_callee ON function_calling(callee)",
		"CREATE INDEX IF NOT EXISTS idx_function_declaration_name ON function_declaration(name)",
	}
}

// timestamp formats t the way run_metadata stores times.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
