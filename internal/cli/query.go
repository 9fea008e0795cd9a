package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/c2sqlite/internal/graph"
	"github.com/mvp-joe/c2sqlite/internal/storage"
	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

var (
	reachDepth   int
	reachReverse bool
)

// ErrFunctionNotFound is returned by signature for names with no declaration.
var ErrFunctionNotFound = errors.New("function not found")

var callersCmd = &cobra.Command{
	Use:   "callers <function>",
	Short: "List the call sites of a function",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReader(cmd, func(r *storage.FactReader) error {
			return printCallers(cmd.OutOrStdout(), r, args[0])
		})
	},
}

var calleesCmd = &cobra.Command{
	Use:   "callees <function>",
	Short: "List the calls made from a function",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReader(cmd, func(r *storage.FactReader) error {
			return printCallees(cmd.OutOrStdout(), r, args[0])
		})
	},
}

var signatureCmd = &cobra.Command{
	Use:   "signature <function>",
	Short: "Show the declarations and parameters of a function",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReader(cmd, func(r *storage.FactReader) error {
			return printSignature(cmd.OutOrStdout(), r, args[0])
		})
	},
}

var reachCmd = &cobra.Command{
	Use:   "reach <function>",
	Short: "List functions reachable through calls",
	Long: `reach walks the recorded call edges breadth-first from a function and
prints every function reached with its distance. With --reverse it walks
towards callers instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReader(cmd, func(r *storage.FactReader) error {
			return printReach(cmd.OutOrStdout(), r, args[0], reachDepth, reachReverse)
		})
	},
}

func init() {
	reachCmd.Flags().IntVar(&reachDepth, "depth", graph.DefaultDepth, fmt.Sprintf("Traversal depth (max %d)", graph.MaxDepth))
	reachCmd.Flags().BoolVar(&reachReverse, "reverse", false, "Follow calls backwards (who reaches this function)")

	rootCmd.AddCommand(callersCmd, calleesCmd, signatureCmd, reachCmd)
}

// withReader opens the configured database read-only for the duration of fn.
func withReader(cmd *cobra.Command, fn func(*storage.FactReader) error) error {
	configureLogging(cmd.ErrOrStderr())

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reader, err := storage.NewFactReader(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	return fn(reader)
}

func printCallers(w io.Writer, r *storage.FactReader, name string) error {
	calls, err := r.Callers(name)
	if err != nil {
		return err
	}
	for _, c := range calls {
		fmt.Fprintf(w, "%s\t%s:%d:%d\n", callerName(c.Caller), c.File, c.Line, c.Column)
	}
	return nil
}

func printCallees(w io.Writer, r *storage.FactReader, name string) error {
	calls, err := r.Callees(name)
	if err != nil {
		return err
	}
	for _, c := range calls {
		fmt.Fprintf(w, "%s\t%s:%d:%d\n", c.Callee, c.File, c.Line, c.Column)
	}
	return nil
}

func printSignature(w io.Writer, r *storage.FactReader, name string) error {
	decls, err := r.Declarations(name)
	if err != nil {
		return err
	}
	if len(decls) == 0 {
		return fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}

	params, err := r.Parameters(name)
	if err != nil {
		return err
	}

	for _, d := range decls {
		fmt.Fprintf(w, "%s\t%s:%d:%d\n", d.Name, d.File, d.Line, d.Column)
	}
	for _, p := range params {
		fmt.Fprintf(w, "  %s\t%s\t%s(%d)\n", paramName(p.Name), p.Type, syntax.TypeKind(p.Ordinal), p.Ordinal)
	}
	return nil
}

func printReach(w io.Writer, r *storage.FactReader, name string, depth int, reverse bool) error {
	edges, err := r.CallEdges()
	if err != nil {
		return err
	}

	searcher, err := graph.NewSearcher(edges)
	if err != nil {
		return err
	}

	op := graph.OperationCallees
	if reverse {
		op = graph.OperationCallers
	}
	results, err := searcher.Query(graph.QueryRequest{Operation: op, Target: name, Depth: depth})
	if err != nil {
		return err
	}

	for _, res := range results {
		fmt.Fprintf(w, "%d\t%s\n", res.Depth, callerName(res.Name))
	}
	return nil
}

// callerName renders the empty caller of calls made before any function
// declaration was seen.
func callerName(name string) string {
	if name == "" {
		return "<none>"
	}
	return name
}

func paramName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}
