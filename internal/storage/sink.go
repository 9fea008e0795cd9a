package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// Sink lifecycle errors.
var (
	ErrSinkClosed  = errors.New("fact sink is closed")
	ErrNoBatch     = errors.New("no batch in progress")
	ErrBatchActive = errors.New("batch already in progress")
)

// factKind selects one of the per-kind prepared statements.
type factKind int

const (
	factDeclaration factKind = iota
	factCall
	factParameter
	factMetadata
)

// Sink writes extracted facts to SQLite. All writes happen inside one batch
// transaction opened by BeginBatch; nothing is visible to readers until
// EndBatch commits it.
//
// Each fact kind owns at most one prepared statement, created on first use
// and reused for every later write in the batch.
type Sink struct {
	db     *sql.DB
	ownsDB bool // true if we opened the connection, false if shared
	tx     *sql.Tx
	stmts  map[factKind]*sql.Stmt
	closed bool
}

// Open opens (creating if absent) the SQLite database at path and creates the
// fact tables. Any failure here is a startup error.
func Open(path string) (*Sink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// A single writer; keeps the batch transaction and its statements on one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Sink{db: db, ownsDB: true, stmts: make(map[factKind]*sql.Stmt)}, nil
}

// NewSinkWithDB creates a Sink using an existing database connection.
// The schema is created if absent. The caller owns the connection; Close
// does not close it.
func NewSinkWithDB(db *sql.DB) (*Sink, error) {
	if err := CreateSchema(db); err != nil {
		return nil, err
	}
	return &Sink{db: db, ownsDB: false, stmts: make(map[factKind]*sql.Stmt)}, nil
}

// DB returns the underlying connection.
func (s *Sink) DB() *sql.DB {
	return s.db
}

// BeginBatch starts the run-wide transaction.
func (s *Sink) BeginBatch() error {
	if s.closed {
		return ErrSinkClosed
	}
	if s.tx != nil {
		return ErrBatchActive
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	s.tx = tx
	return nil
}

// EndBatch commits the batch transaction.
func (s *Sink) EndBatch() error {
	if s.closed {
		return ErrSinkClosed
	}
	if s.tx == nil {
		return ErrNoBatch
	}

	s.closeStatements()
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// Rollback discards every write of the current batch. It is a no-op when no
// batch is in progress, so it can be deferred unconditionally.
func (s *Sink) Rollback() error {
	if s.tx == nil {
		return nil
	}

	s.closeStatements()
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back batch: %w", err)
	}
	return nil
}

// UpsertDeclaration records a function declaration, replacing any row with
// the same (name, file).
func (s *Sink) UpsertDeclaration(name, file string, line, column int) error {
	stmt, err := s.statement(factDeclaration)
	if err != nil {
		return err
	}
	if _, err := stmt.Exec(name, file, line, column); err != nil {
		return fmt.Errorf("failed to upsert declaration %s: %w", name, err)
	}
	return nil
}

// UpsertCallEdge records a call site, replacing any row with the same
// (caller, callee, file, line, col).
func (s *Sink) UpsertCallEdge(caller, callee, file string, line, column int) error {
	stmt, err := s.statement(factCall)
	if err != nil {
		return err
	}
	if _, err := stmt.Exec(caller, callee, file, line, column); err != nil {
		return fmt.Errorf("failed to upsert call %s -> %s: %w", caller, callee, err)
	}
	return nil
}

// UpsertParameter records a function parameter, replacing any row with the
// same (function, name).
func (s *Sink) UpsertParameter(function, name, typ string, ordinal int) error {
	stmt, err := s.statement(factParameter)
	if err != nil {
		return err
	}
	if _, err := stmt.Exec(function, name, typ, ordinal); err != nil {
		return fmt.Errorf("failed to upsert parameter %s of %s: %w", name, function, err)
	}
	return nil
}

// SetMetadata writes a run_metadata entry inside the current batch.
func (s *Sink) SetMetadata(key, value string) error {
	stmt, err := s.statement(factMetadata)
	if err != nil {
		return err
	}
	if _, err := stmt.Exec(key, value, timestamp(time.Now())); err != nil {
		return fmt.Errorf("failed to set metadata %s: %w", key, err)
	}
	return nil
}

// Close rolls back any unfinished batch and releases the database handle.
// Calling Close more than once is safe.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	rbErr := s.Rollback()
	if !s.ownsDB {
		return rbErr
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return rbErr
}

// statement returns the batch's prepared statement for kind, preparing it on
// first use.
func (s *Sink) statement(kind factKind) (*sql.Stmt, error) {
	if s.closed {
		return nil, ErrSinkClosed
	}
	if s.tx == nil {
		return nil, ErrNoBatch
	}
	if stmt, ok := s.stmts[kind]; ok {
		return stmt, nil
	}

	query, err := upsertSQL(kind)
	if err != nil {
		return nil, err
	}
	stmt, err := s.tx.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	s.stmts[kind] = stmt
	return stmt, nil
}

func (s *Sink) closeStatements() {
	for kind, stmt := range s.stmts {
		stmt.Close()
		delete(s.stmts, kind)
	}
}

// upsertSQL builds the INSERT OR REPLACE statement text for kind.
func upsertSQL(kind factKind) (string, error) {
	var insert sq.InsertBuilder
	switch kind {
	case factDeclaration:
		insert = sq.Insert(TableDeclarations).
			Columns("name", "file", "line", "col").
			Values(nil, nil, nil, nil)
	case factCall:
		insert = sq.Insert(TableCalls).
			Columns("caller", "callee", "file", "line", "col").
			Values(nil, nil, nil, nil, nil)
	case factParameter:
		insert = sq.Insert(TableParameters).
			Columns("function", "name", "type", "id").
			Values(nil, nil, nil, nil)
	case factMetadata:
		insert = sq.Insert(TableRunMetadata).
			Columns("key", "value", "updated_at").
			Values(nil, nil, nil)
	default:
		return "", fmt.Errorf("unknown fact kind %d", kind)
	}

	query, _, err := insert.Options("OR REPLACE").ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build upsert statement: %w", err)
	}
	return query, nil
}
