package storage

// Fact models mirror the SQL tables in schema.go.
// These are lightweight data transfer structs, NOT ORM models.

// Declaration is one row of function_declaration.
type Declaration struct {
	Name   string
	File   string
	Line   int
	Column int
}

// CallEdge is one row of function_calling.
type CallEdge struct {
	Caller string
	Callee string
	File   string
	Line   int
	Column int
}

// Parameter is one row of function_param. Ordinal holds the type-kind tag.
type Parameter struct {
	Function string
	Name     string
	Type     string
	Ordinal  int
}

// FactCounts is the number of rows in each fact table.
type FactCounts struct {
	Declarations int
	Calls        int
	Parameters   int
}
