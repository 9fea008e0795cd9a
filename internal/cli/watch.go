package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/c2sqlite/internal/indexer"
	"github.com/mvp-joe/c2sqlite/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file|dir> [file|dir...]",
	Short: "Re-run the extraction whenever a C/C++ source changes",
	Long: `watch runs the extraction once, then watches the directories holding the
given inputs and runs it again over the same inputs after each burst of
changes to C/C++ sources. Every run is a complete, independent run in its
own transaction. A failed run is logged and watching continues.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&keepExisting, "keep-existing", false, "Upsert into an existing database instead of replacing it")
	watchCmd.Flags().BoolVar(&strictFlag, "strict", false, "Treat syntax errors in a file as a parse failure")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	configureLogging(cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("keep-existing") {
		cfg.Storage.RemoveExisting = !keepExisting
	}
	if cmd.Flags().Changed("strict") {
		cfg.Parser.Strict = strictFlag
	}

	idx, err := indexer.NewWithProgress(cfg.ToIndexerConfig(Version), NewCLIProgressReporter(true, verbose))
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}

	dirs, err := watchDirs(args)
	if err != nil {
		return err
	}
	w, err := watcher.New(dirs, indexer.IsSourceFile, watcher.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	runs := make(chan []string, 1)
	if err := w.Start(ctx, func(files []string) {
		select {
		case runs <- files:
		default:
			// A run is already pending and will see these changes too
		}
	}); err != nil {
		return err
	}

	reindex(ctx, idx, args)
	log.Printf("Watching %d director(ies) for changes (Ctrl+C to stop)", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case files := <-runs:
			log.Printf("%d file(s) changed", len(files))
			reindex(ctx, idx, args)
		}
	}
}

func reindex(ctx context.Context, idx indexer.Indexer, args []string) {
	stats, err := idx.Index(ctx, args)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("Run failed: %v", err)
		}
		return
	}
	log.Printf("✓ Run %s: %d file(s), %d declaration(s), %d call(s), %d parameter(s)",
		stats.RunID, stats.FilesIndexed, stats.Facts.Declarations, stats.Facts.Calls, stats.Facts.Parameters)
}

// watchDirs returns the directories to watch for args: directories as given,
// and the parent directory of anything else. Duplicates are dropped.
func watchDirs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	for _, arg := range args {
		dir := arg
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			dir = filepath.Dir(arg)
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
		if !seen[abs] {
			seen[abs] = true
			dirs = append(dirs, abs)
		}
	}
	return dirs, nil
}
