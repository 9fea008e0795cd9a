package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/c2sqlite/internal/indexer"
	"github.com/mvp-joe/c2sqlite/internal/storage"
)

// Test plan for the root command:
// 1. Indexing fixtures writes facts that the query commands read back
// 2. A missing input aborts the run and leaves no facts
// 3. --keep-existing upserts into the previous run's database
// 4. No arguments is a usage error
// 5. version prints the build information
//
// Note: Cannot use t.Parallel() because the commands share package-level flags

const fixtures = "../../testdata/code/c"

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset flag state left by earlier executions
	cfgFile, dbPath, verbose, keepExisting, strictFlag = "", "", false, false, false
	quietFlag = true
	reachDepth, reachReverse = 1, false
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_IndexAndQuery(t *testing.T) {
	db := filepath.Join(t.TempDir(), "facts.db")

	_, err := runRoot(t, "--quiet", "--db", db,
		filepath.Join(fixtures, "add.c"), filepath.Join(fixtures, "main.c"))
	require.NoError(t, err)

	out, err := runRoot(t, "callers", "--quiet", "--db", db, "add")
	require.NoError(t, err)
	assert.Equal(t, "helper\t"+filepath.Join(fixtures, "add.c")+":10:12\n", out)

	out, err = runRoot(t, "reach", "--quiet", "--db", db, "--depth", "2", "main")
	require.NoError(t, err)
	assert.Equal(t, "1\thelper\n1\tprintf\n2\tadd\n", out)
}

func TestRootCommand_FailureLeavesNoFacts(t *testing.T) {
	db := filepath.Join(t.TempDir(), "facts.db")

	_, err := runRoot(t, "--quiet", "--db", db,
		filepath.Join(fixtures, "add.c"), filepath.Join(t.TempDir(), "missing.c"))
	require.Error(t, err)
	assert.ErrorIs(t, err, indexer.ErrParse)
	assert.Contains(t, err.Error(), "missing.c")

	reader, err := storage.NewFactReader(db)
	require.NoError(t, err)
	defer reader.Close()

	counts, err := reader.Counts()
	require.NoError(t, err)
	assert.Equal(t, storage.FactCounts{}, counts)
}

func TestRootCommand_KeepExisting(t *testing.T) {
	db := filepath.Join(t.TempDir(), "facts.db")

	_, err := runRoot(t, "--quiet", "--db", db, filepath.Join(fixtures, "add.c"))
	require.NoError(t, err)
	_, err = runRoot(t, "--quiet", "--keep-existing", "--db", db, filepath.Join(fixtures, "main.c"))
	require.NoError(t, err)

	reader, err := storage.NewFactReader(db)
	require.NoError(t, err)
	defer reader.Close()

	decls, err := reader.Declarations("add")
	require.NoError(t, err)
	assert.Len(t, decls, 1, "facts of the first run survive")

	decls, err = reader.Declarations("main")
	require.NoError(t, err)
	assert.Len(t, decls, 1)
}

func TestRootCommand_RequiresFiles(t *testing.T) {
	_, err := runRoot(t, "--quiet")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "c2sqlite "+Version)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
