package graph

// FactSink receives the facts extracted while walking syntax trees.
// storage.Sink implements it; every method must be called inside a batch.
type FactSink interface {
	UpsertDeclaration(name, file string, line, column int) error
	UpsertCallEdge(caller, callee, file string, line, column int) error
	UpsertParameter(function, name, typ string, ordinal int) error
}

// WalkStats counts the facts emitted by one walk.
type WalkStats struct {
	Declarations int
	Calls        int
	Parameters   int
}

// Add accumulates other into s.
func (s *WalkStats) Add(other WalkStats) {
	s.Declarations += other.Declarations
	s.Calls += other.Calls
	s.Parameters += other.Parameters
}

// Total returns the number of facts of all kinds.
func (s WalkStats) Total() int {
	return s.Declarations + s.Calls + s.Parameters
}

// Edge is one call edge as loaded for traversal queries.
type Edge struct {
	Caller string
	Callee string
}
