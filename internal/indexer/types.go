package indexer

import (
	"time"

	"github.com/mvp-joe/c2sqlite/internal/graph"
)

// RunStats summarises a committed run.
type RunStats struct {
	RunID        string
	FilesIndexed int
	Facts        graph.WalkStats
	Duration     time.Duration
}
