package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0644))
	}
}

func TestFileDiscovery_Expand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"src/b.c",
		"src/a.c",
		"src/nested/z.h",
		"src/README.md",
		"src/build/gen.c",
		"src/.c2sqlite/x.c",
	)

	fd, err := NewFileDiscovery(nil, []string{"build/**"})
	require.NoError(t, err)

	missing := filepath.Join(root, "missing.c")
	first := filepath.Join(root, "first.c")
	writeTree(t, root, "first.c")

	files, err := fd.Expand([]string{first, filepath.Join(root, "src"), missing})
	require.NoError(t, err)

	assert.Equal(t, []string{
		first,
		filepath.Join(root, "src", "a.c"),
		filepath.Join(root, "src", "b.c"),
		filepath.Join(root, "src", "nested", "z.h"),
		missing,
	}, files)
}

func TestFileDiscovery_ExplicitFilesKeepOrder(t *testing.T) {
	t.Parallel()

	fd, err := NewFileDiscovery(nil, nil)
	require.NoError(t, err)

	files, err := fd.Expand([]string{"z.c", "a.c", "z.c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"z.c", "a.c", "z.c"}, files, "arguments are not sorted or deduplicated")
}

func TestFileDiscovery_CustomPatterns(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "a.c", "b.cpp", "lib/c.c")

	fd, err := NewFileDiscovery([]string{"**/*.c"}, nil)
	require.NoError(t, err)

	files, err := fd.DiscoverFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.c"), filepath.Join(root, "lib", "c.c")}, files)
}

func TestNewFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery([]string{"[unterminated"}, nil)
	assert.Error(t, err)
}
