package indexer

import (
	"time"

	"github.com/mvp-joe/c2sqlite/internal/graph"
)

// ProgressReporter provides callbacks for reporting indexing progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryComplete is called once the input list is expanded.
	OnDiscoveryComplete(files int)

	// OnFileProcessingStart is called before the first file is parsed.
	OnFileProcessingStart(totalFiles int)

	// OnFileProcessed is called after each file is walked.
	OnFileProcessed(fileName string, facts graph.WalkStats)

	// OnComplete is called after the run transaction commits.
	OnComplete(stats *RunStats)

	// OnAbort is called when the run fails and is rolled back.
	OnAbort(err error, elapsed time.Duration)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryComplete(files int)                          {}
func (n *NoOpProgressReporter) OnFileProcessingStart(totalFiles int)                   {}
func (n *NoOpProgressReporter) OnFileProcessed(fileName string, facts graph.WalkStats) {}
func (n *NoOpProgressReporter) OnComplete(stats *RunStats)                             {}
func (n *NoOpProgressReporter) OnAbort(err error, elapsed time.Duration)               {}
