package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/c2sqlite/internal/config"
)

var (
	cfgFile   string
	dbPath    string
	verbose   bool
	quietFlag bool
)

// rootCmd represents the base command: an extraction run over the given files.
var rootCmd = &cobra.Command{
	Use:   "c2sqlite <file> [file...]",
	Short: "Extract a C/C++ call graph into SQLite",
	Long: `c2sqlite parses C and C++ source files and records three kinds of facts
in a SQLite database:

  function_declaration(name, file, line, col)
  function_calling(caller, callee, file, line, col)
  function_param(function, name, type, id)

Files are processed in argument order inside a single transaction: if any
file fails to parse, nothing is written. Directory arguments expand to the
C/C++ sources beneath them.

Examples:
  # Index two files into test.db
  c2sqlite a.c b.c

  # Index a source tree into a named database
  c2sqlite --db facts.db src/

  # Query the result
  c2sqlite callers --db facts.db malloc
`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runIndex,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .c2sqlite/config.yml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default from config: test.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}

// loadConfig loads configuration and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.NewFileLoader(cfgFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("db") {
		cfg.Storage.DBPath = dbPath
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if verbose && !quietFlag {
		if cfgFile != "" {
			log.Println("Using config file:", cfgFile)
		}
		log.Println("Using database:", cfg.Storage.DBPath)
	}

	return cfg, nil
}

// configureLogging silences the standard logger in quiet mode.
func configureLogging(w io.Writer) {
	if quietFlag {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(w)
}
