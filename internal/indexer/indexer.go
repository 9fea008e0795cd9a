package indexer

import (
	"context"

	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

// Indexer runs one extraction over a set of input paths.
type Indexer interface {
	// Index parses every input in argument order and records its facts in a
	// single transaction. Any parse or write failure aborts the run and
	// commits nothing.
	Index(ctx context.Context, paths []string) (*RunStats, error)
}

// Parser produces a syntax tree for one source file.
type Parser interface {
	// ParseFile parses filePath into a tree rooted at a translation unit.
	ParseFile(ctx context.Context, filePath string) (*syntax.Node, error)

	// SupportsLanguage checks if this parser supports the given language.
	SupportsLanguage(language string) bool
}

// Config contains configuration for the indexer.
type Config struct {
	// DBPath is the SQLite database the facts are written to.
	DBPath string

	// RemoveExisting deletes DBPath before the run so each run starts from
	// an empty store.
	RemoveExisting bool

	// Strict turns trees with syntax errors into parse failures.
	Strict bool

	// DefaultLanguage ("c" or "cpp") is used for unrecognised extensions.
	// Empty means such files are a parse failure.
	DefaultLanguage string

	// Directory expansion
	CodePatterns   []string
	IgnorePatterns []string

	// ToolVersion is recorded in run_metadata.
	ToolVersion string
}
