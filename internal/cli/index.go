package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/c2sqlite/internal/indexer"
)

var (
	keepExisting bool
	strictFlag   bool
)

func init() {
	rootCmd.Flags().BoolVar(&keepExisting, "keep-existing", false, "Upsert into an existing database instead of replacing it")
	rootCmd.Flags().BoolVar(&strictFlag, "strict", false, "Treat syntax errors in a file as a parse failure")
}

func runIndex(cmd *cobra.Command, args []string) error {
	configureLogging(cmd.ErrOrStderr())

	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			log.Println("Interrupted! Rolling back...")
			cancel()
		case <-ctx.Done():
		}
	}()

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

	progress := NewCLIProgressReporter(quietFlag, verbose)
	idx, err := indexer.NewWithProgress(cfg.ToIndexerConfig(Version), progress)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}

	if _, err := idx.Index(ctx, args); err != nil {
		return err
	}
	return nil
}
