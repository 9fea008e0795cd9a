package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/c2sqlite/internal/graph"
	"github.com/mvp-joe/c2sqlite/internal/indexer"
)

// CLIProgressReporter implements progress reporting with progress bars.
// In verbose mode it logs one line per file instead of drawing a bar.
type CLIProgressReporter struct {
	quiet          bool
	verbose        bool
	fileBar        *progressbar.ProgressBar
	totalFiles     int
	processedFiles int
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet, verbose bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:   quiet,
		verbose: verbose,
	}
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	log.Printf("Processing %s files\n", formatNumber(files))
}

func (c *CLIProgressReporter) OnFileProcessingStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.totalFiles = totalFiles
	c.processedFiles = 0

	if c.verbose {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Indexing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(fileName string, facts graph.WalkStats) {
	if c.quiet {
		return
	}
	c.processedFiles++
	if c.verbose {
		log.Printf("[%d/%d] %s: %d declarations, %d calls, %d parameters\n",
			c.processedFiles, c.totalFiles, fileName, facts.Declarations, facts.Calls, facts.Parameters)
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *indexer.RunStats) {
	if c.quiet {
		return
	}
	c.finishBar()

	fmt.Printf("✓ Indexing complete: %s facts from %s files in %.1fs\n",
		formatNumber(stats.Facts.Total()), formatNumber(stats.FilesIndexed), stats.Duration.Seconds())
	fmt.Printf("  Declarations: %s\n", formatNumber(stats.Facts.Declarations))
	fmt.Printf("  Calls:        %s\n", formatNumber(stats.Facts.Calls))
	fmt.Printf("  Parameters:   %s\n", formatNumber(stats.Facts.Parameters))
}

func (c *CLIProgressReporter) OnAbort(err error, elapsed time.Duration) {
	if c.quiet {
		return
	}
	c.finishBar()
	log.Printf("✗ Run aborted after %.1fs, nothing was written\n", elapsed.Seconds())
}

func (c *CLIProgressReporter) finishBar() {
	if c.fileBar != nil {
		c.fileBar.Exit()
		c.fileBar = nil
	}
}

// formatNumber formats n with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
