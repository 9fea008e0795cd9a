package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Searcher:
// - Callees at depth 1 are the direct callees
// - Callers at depth 1 are the direct callers
// - Deeper queries report each function at its shortest depth
// - Depth defaults to 1 and is clamped to MaxDepth
// - Cycles terminate and never report the target itself
// - Duplicate edges collapse
// - Unknown targets return ErrUnknownFunction

func testEdges() []Edge {
	return []Edge{
		{Caller: "main", Callee: "parse"},
		{Caller: "main", Callee: "run"},
		{Caller: "main", Callee: "run"},
		{Caller: "run", Callee: "step"},
		{Caller: "step", Callee: "log"},
		{Caller: "parse", Callee: "log"},
		{Caller: "step", Callee: "run"},
	}
}

func newTestSearcher(t *testing.T) *Searcher {
	t.Helper()
	s, err := NewSearcher(testEdges())
	require.NoError(t, err)
	return s
}

func TestSearcher_Query(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  QueryRequest
		want []QueryResult
	}{
		{
			name: "direct callees",
			req:  QueryRequest{Operation: OperationCallees, Target: "main"},
			want: []QueryResult{{"parse", 1}, {"run", 1}},
		},
		{
			name: "transitive callees",
			req:  QueryRequest{Operation: OperationCallees, Target: "main", Depth: 3},
			want: []QueryResult{{"parse", 1}, {"run", 1}, {"log", 2}, {"step", 2}},
		},
		{
			name: "direct callers",
			req:  QueryRequest{Operation: OperationCallers, Target: "log", Depth: 1},
			want: []QueryResult{{"parse", 1}, {"step", 1}},
		},
		{
			name: "transitive callers through a cycle",
			req:  QueryRequest{Operation: OperationCallers, Target: "log", Depth: 5},
			want: []QueryResult{{"parse", 1}, {"step", 1}, {"main", 2}, {"run", 2}},
		},
		{
			name: "cycle does not report the target",
			req:  QueryRequest{Operation: OperationCallees, Target: "run", Depth: MaxDepth},
			want: []QueryResult{{"step", 1}, {"log", 2}},
		},
		{
			name: "leaf has no callees",
			req:  QueryRequest{Operation: OperationCallees, Target: "log"},
			want: []QueryResult{},
		},
	}

	s := newTestSearcher(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Query(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearcher_DepthClamp(t *testing.T) {
	t.Parallel()

	// A chain longer than MaxDepth
	var edges []Edge
	names := []string{"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12"}
	for i := 0; i+1 < len(names); i++ {
		edges = append(edges, Edge{Caller: names[i], Callee: names[i+1]})
	}
	s, err := NewSearcher(edges)
	require.NoError(t, err)

	got, err := s.Query(QueryRequest{Operation: OperationCallees, Target: "f0", Depth: 100})
	require.NoError(t, err)
	assert.Len(t, got, MaxDepth)
	assert.Equal(t, QueryResult{Name: "f10", Depth: MaxDepth}, got[len(got)-1])
}

func TestSearcher_Errors(t *testing.T) {
	t.Parallel()

	s := newTestSearcher(t)

	_, err := s.Query(QueryRequest{Operation: OperationCallees, Target: "missing"})
	assert.ErrorIs(t, err, ErrUnknownFunction)

	_, err = s.Query(QueryRequest{Operation: "sideways", Target: "main"})
	assert.Error(t, err)
}

func TestSearcher_Order(t *testing.T) {
	t.Parallel()

	order, err := newTestSearcher(t).Order()
	require.NoError(t, err)
	assert.Equal(t, 5, order)
}

func TestSearcher_EmptyCaller(t *testing.T) {
	t.Parallel()

	s, err := NewSearcher([]Edge{{Caller: "", Callee: "stray"}})
	require.NoError(t, err)

	got, err := s.Query(QueryRequest{Operation: OperationCallers, Target: "stray"})
	require.NoError(t, err)
	assert.Equal(t, []QueryResult{{"", 1}}, got)
}
