package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/c2sqlite/internal/graph"
	"github.com/mvp-joe/c2sqlite/internal/storage"
)

// Test plan for query commands:
// 1. callers lists call sites of a function ordered by location
// 2. callees lists calls made from a function
// 3. empty callers render as <none>
// 4. signature prints declarations then parameters with type kinds
// 5. signature of an unknown function fails with ErrFunctionNotFound
// 6. reach walks forwards and backwards up to the requested depth

func seededReader(t *testing.T) *storage.FactReader {
	t.Helper()

	sink, db := storage.NewTestSink(t)
	require.NoError(t, sink.BeginBatch())
	require.NoError(t, sink.UpsertDeclaration("add", "a.c", 1, 5))
	require.NoError(t, sink.UpsertParameter("add", "a", "int", 17))
	require.NoError(t, sink.UpsertParameter("add", "b", "char *", 101))
	require.NoError(t, sink.UpsertDeclaration("main", "b.c", 3, 5))
	require.NoError(t, sink.UpsertCallEdge("main", "helper", "b.c", 5, 5))
	require.NoError(t, sink.UpsertCallEdge("helper", "add", "a.c", 10, 12))
	require.NoError(t, sink.UpsertCallEdge("main", "add", "b.c", 4, 9))
	require.NoError(t, sink.UpsertCallEdge("", "init", "c.c", 1, 15))
	require.NoError(t, sink.EndBatch())

	return storage.NewFactReaderWithDB(db)
}

func TestPrintCallers(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, printCallers(&out, seededReader(t), "add"))
	assert.Equal(t, "helper\ta.c:10:12\nmain\tb.c:4:9\n", out.String())
}

func TestPrintCallers_FileScope(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, printCallers(&out, seededReader(t), "init"))
	assert.Equal(t, "<none>\tc.c:1:15\n", out.String())
}

func TestPrintCallees(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, printCallees(&out, seededReader(t), "main"))
	assert.Equal(t, "add\tb.c:4:9\nhelper\tb.c:5:5\n", out.String())

	out.Reset()
	require.NoError(t, printCallees(&out, seededReader(t), "nobody"))
	assert.Empty(t, out.String())
}

func TestPrintSignature(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, printSignature(&out, seededReader(t), "add"))
	assert.Equal(t, "add\ta.c:1:5\n  a\tint\tInt(17)\n  b\tchar *\tPointer(101)\n", out.String())

	err := printSignature(&out, seededReader(t), "missing")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestPrintReach(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		depth   int
		reverse bool
		want    string
	}{
		{"direct callees", "main", 1, false, "1\tadd\n1\thelper\n"},
		{"deep callees", "main", 5, false, "1\tadd\n1\thelper\n"},
		{"direct callers", "add", 1, true, "1\thelper\n1\tmain\n"},
		{"transitive callers", "add", 2, true, "1\thelper\n1\tmain\n"},
		{"file scope caller", "init", 1, true, "1\t<none>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, printReach(&out, seededReader(t), tt.target, tt.depth, tt.reverse))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestPrintReach_Unknown(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := printReach(&out, seededReader(t), "missing", 1, false)
	assert.ErrorIs(t, err, graph.ErrUnknownFunction)
}
