package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
)

// QueryOperation represents the direction of a reachability query.
type QueryOperation string

const (
	OperationCallers QueryOperation = "callers"
	OperationCallees QueryOperation = "callees"
)

// Query defaults and limits
const (
	DefaultDepth = 1
	MaxDepth     = 10
)

// ErrUnknownFunction is returned when the query target appears in no call edge.
var ErrUnknownFunction = errors.New("function not found in call graph")

// QueryRequest represents a reachability query.
type QueryRequest struct {
	Operation QueryOperation // callers (reverse) or callees (forward)
	Target    string         // Function name to start from
	Depth     int            // Traversal depth (default: 1, max: MaxDepth)
}

// QueryResult is one function reached by a query.
type QueryResult struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"` // Number of call edges from the target
}

// Searcher answers reachability queries over call edges.
type Searcher struct {
	graph graph.Graph[string, string]
}

// NewSearcher builds an in-memory call graph from edges. Duplicate edges
// (several call sites between the same pair) collapse into one.
func NewSearcher(edges []Edge) (*Searcher, error) {
	g := graph.New(graph.StringHash, graph.Directed())

	for _, edge := range edges {
		for _, name := range []string{edge.Caller, edge.Callee} {
			if err := g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, fmt.Errorf("failed to add function %q: %w", name, err)
			}
		}
		if err := g.AddEdge(edge.Caller, edge.Callee); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("failed to add call %s -> %s: %w", edge.Caller, edge.Callee, err)
		}
	}

	return &Searcher{graph: g}, nil
}

// Query returns every function reachable from the target in the requested
// direction within the depth limit, each at the shortest depth it was found.
// Results are ordered by depth, then name.
func (s *Searcher) Query(req QueryRequest) ([]QueryResult, error) {
	depth := req.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	if _, err := s.graph.Vertex(req.Target); err != nil {
		if errors.Is(err, graph.ErrVertexNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, req.Target)
		}
		return nil, err
	}

	var neighbours map[string]map[string]graph.Edge[string]
	var err error
	switch req.Operation {
	case OperationCallees:
		neighbours, err = s.graph.AdjacencyMap()
	case OperationCallers:
		neighbours, err = s.graph.PredecessorMap()
	default:
		return nil, fmt.Errorf("unsupported operation: %s", req.Operation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read call graph: %w", err)
	}

	visited := map[string]bool{req.Target: true}
	frontier := []string{req.Target}
	results := []QueryResult{}

	for level := 1; level <= depth && len(frontier) > 0; level++ {
		var next []string
		for _, name := range frontier {
			for neighbour := range neighbours[name] {
				if visited[neighbour] {
					continue
				}
				visited[neighbour] = true
				next = append(next, neighbour)
			}
		}
		sort.Strings(next)
		for _, name := range next {
			results = append(results, QueryResult{Name: name, Depth: level})
		}
		frontier = next
	}

	return results, nil
}

// Order returns the number of functions in the graph.
func (s *Searcher) Order() (int, error) {
	return s.graph.Order()
}
