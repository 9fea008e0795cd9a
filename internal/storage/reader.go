package storage

import (
	"database/sql"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"

	"github.com/mvp-joe/c2sqlite/internal/graph"
)

// FactReader reads facts back out of a database written by Sink.
type FactReader struct {
	db     *sql.DB
	ownsDB bool
}

// NewFactReader opens the database at dbPath in read-only mode.
func NewFactReader(dbPath string) (*FactReader, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &FactReader{db: db, ownsDB: true}, nil
}

// NewFactReaderWithDB creates a FactReader over an existing connection.
func NewFactReaderWithDB(db *sql.DB) *FactReader {
	return &FactReader{db: db}
}

// Close closes the database connection if owned by this reader.
func (r *FactReader) Close() error {
	if !r.ownsDB || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Callers returns the call sites whose callee is name, ordered by location.
func (r *FactReader) Callers(name string) ([]CallEdge, error) {
	return r.queryCalls(sq.Eq{"callee": name})
}

// Callees returns the call sites attributed to caller name, ordered by location.
func (r *FactReader) Callees(name string) ([]CallEdge, error) {
	return r.queryCalls(sq.Eq{"caller": name})
}

// Calls returns every recorded call site, ordered by location.
func (r *FactReader) Calls() ([]CallEdge, error) {
	return r.queryCalls(nil)
}

func (r *FactReader) queryCalls(where sq.Sqlizer) ([]CallEdge, error) {
	query := sq.Select("caller", "callee", "file", "line", "col").
		From(TableCalls).
		OrderBy("file", "line", "col", "caller", "callee")
	if where != nil {
		query = query.Where(where)
	}

	rows, err := query.RunWith(r.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query calls: %w", err)
	}
	defer rows.Close()

	var calls []CallEdge
	for rows.Next() {
		var c CallEdge
		if err := rows.Scan(&c.Caller, &c.Callee, &c.File, &c.Line, &c.Column); err != nil {
			return nil, fmt.Errorf("failed to scan call: %w", err)
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// CallEdges returns the distinct caller/callee pairs, for building a graph.Searcher.
func (r *FactReader) CallEdges() ([]graph.Edge, error) {
	rows, err := sq.Select("caller", "callee").
		Distinct().
		From(TableCalls).
		OrderBy("caller", "callee").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query call edges: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.Caller, &e.Callee); err != nil {
			return nil, fmt.Errorf("failed to scan call edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Declarations returns the declarations of name, one per file.
func (r *FactReader) Declarations(name string) ([]Declaration, error) {
	rows, err := sq.Select("name", "file", "line", "col").
		From(TableDeclarations).
		Where(sq.Eq{"name": name}).
		OrderBy("file", "line", "col").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query declarations: %w", err)
	}
	defer rows.Close()

	var decls []Declaration
	for rows.Next() {
		var d Declaration
		if err := rows.Scan(&d.Name, &d.File, &d.Line, &d.Column); err != nil {
			return nil, fmt.Errorf("failed to scan declaration: %w", err)
		}
		decls = append(decls, d)
	}
	return decls, rows.Err()
}

// Parameters returns the parameters recorded for function in insertion order.
func (r *FactReader) Parameters(function string) ([]Parameter, error) {
	rows, err := sq.Select("function", "name", "type", "id").
		From(TableParameters).
		Where(sq.Eq{"function": function}).
		OrderBy("rowid").
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	var params []Parameter
	for rows.Next() {
		var p Parameter
		if err := rows.Scan(&p.Function, &p.Name, &p.Type, &p.Ordinal); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		params = append(params, p)
	}
	return params, rows.Err()
}

// Counts returns the number of rows in each fact table.
func (r *FactReader) Counts() (FactCounts, error) {
	var counts FactCounts
	targets := []struct {
		table string
		dest  *int
	}{
		{TableDeclarations, &counts.Declarations},
		{TableCalls, &counts.Calls},
		{TableParameters, &counts.Parameters},
	}
	for _, t := range targets {
		err := sq.Select("COUNT(*)").From(t.table).RunWith(r.db).QueryRow().Scan(t.dest)
		if err != nil {
			return FactCounts{}, fmt.Errorf("failed to count %s: %w", t.table, err)
		}
	}
	return counts, nil
}

// Metadata returns all run_metadata entries.
func (r *FactReader) Metadata() (map[string]string, error) {
	rows, err := sq.Select("key", "value").
		From(TableRunMetadata).
		RunWith(r.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta[key] = value
	}
	return meta, rows.Err()
}
