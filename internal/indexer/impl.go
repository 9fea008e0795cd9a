package indexer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/c2sqlite/internal/graph"
	"github.com/mvp-joe/c2sqlite/internal/storage"
)

// ErrSchemaMismatch is returned when an existing database was written with a
// different fact schema than this build creates.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// indexer implements the Indexer interface.
type indexer struct {
	config    *Config
	parser    Parser
	discovery *FileDiscovery
	progress  ProgressReporter
}

// New creates a new indexer instance.
func New(config *Config) (Indexer, error) {
	return NewWithProgress(config, &NoOpProgressReporter{})
}

// NewWithProgress creates a new indexer instance with progress reporting.
func NewWithProgress(config *Config, progress ProgressReporter) (Indexer, error) {
	return NewWithParser(config, NewParser(config.Strict, config.DefaultLanguage), progress)
}

// NewWithParser creates an indexer using the given parser.
func NewWithParser(config *Config, parser Parser, progress ProgressReporter) (Indexer, error) {
	if config.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	discovery, err := NewFileDiscovery(config.CodePatterns, config.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}

	if config.DefaultLanguage != "" && !parser.SupportsLanguage(config.DefaultLanguage) {
		return nil, fmt.Errorf("%w: default language %q", ErrUnsupportedLanguage, config.DefaultLanguage)
	}

	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	return &indexer{
		config:    config,
		parser:    parser,
		discovery: discovery,
		progress:  progress,
	}, nil
}

// Index runs one extraction. The sequence is: open the store, begin the run
// transaction, parse and walk each file in order with one shared
// current-function slot, write run metadata, commit, close.
func (idx *indexer) Index(ctx context.Context, paths []string) (*RunStats, error) {
	startTime := time.Now()

	stats, err := idx.run(ctx, paths, startTime)
	if err != nil {
		idx.progress.OnAbort(err, time.Since(startTime))
		return nil, err
	}

	idx.progress.OnComplete(stats)
	return stats, nil
}

func (idx *indexer) run(ctx context.Context, paths []string, startTime time.Time) (_ *RunStats, err error) {
	files, err := idx.discovery.Expand(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to expand inputs: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	idx.progress.OnDiscoveryComplete(len(files))

	if idx.config.RemoveExisting {
		if err := os.Remove(idx.config.DBPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	sink, err := storage.Open(idx.config.DBPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := checkSchemaVersion(sink); err != nil {
		return nil, err
	}

	if err := sink.BeginBatch(); err != nil {
		return nil, err
	}
	// No-op once the batch is committed
	defer sink.Rollback()

	stats := &RunStats{RunID: uuid.New().String()}
	walker := graph.NewWalker(sink)
	fc := graph.NewFunctionContext()

	idx.progress.OnFileProcessingStart(len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root, err := idx.parser.ParseFile(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, file, err)
		}

		facts, err := walker.Walk(root, fc)
		if err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", file, err)
		}

		stats.Facts.Add(facts)
		stats.FilesIndexed++
		idx.progress.OnFileProcessed(file, facts)
	}

	if err := idx.writeMetadata(sink, stats); err != nil {
		return nil, err
	}

	if err := sink.EndBatch(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(startTime)
	log.Printf("✓ Indexed %d files: %d declarations, %d calls, %d parameters in %v\n",
		stats.FilesIndexed, stats.Facts.Declarations, stats.Facts.Calls, stats.Facts.Parameters,
		stats.Duration.Round(time.Millisecond))

	return stats, nil
}

// checkSchemaVersion rejects a kept database whose last run used another
// schema. CREATE TABLE IF NOT EXISTS leaves its tables, and their keys, as
// they were.
func checkSchemaVersion(sink *storage.Sink) error {
	version, err := storage.GetSchemaVersion(sink.DB())
	if err != nil {
		return err
	}
	if version != "0" && version != storage.SchemaVersion {
		return fmt.Errorf("%w: database has %s, expected %s", ErrSchemaMismatch, version, storage.SchemaVersion)
	}
	return nil
}

// writeMetadata records the run in run_metadata, inside the run transaction.
func (idx *indexer) writeMetadata(sink *storage.Sink, stats *RunStats) error {
	entries := []struct{ key, value string }{
		{"run_id", stats.RunID},
		{"schema_version", storage.SchemaVersion},
		{"tool_version", idx.config.ToolVersion},
		{"files_indexed", strconv.Itoa(stats.FilesIndexed)},
		{"completed_at", time.Now().UTC().Format(time.RFC3339)},
	}
	for _, e := range entries {
		if err := sink.SetMetadata(e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}
