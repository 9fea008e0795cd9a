// Package syntax defines the parser-neutral syntax tree consumed by the
// call-graph walker. AST providers (see internal/indexer/parsers) lower their
// own concrete trees into this shape.
package syntax

import "fmt"

// Kind classifies a syntax node. Only the kinds the walker reacts to are
// distinguished; everything else is KindOther with the provider's raw kind
// kept in Node.RawKind.
type Kind int

const (
	KindOther Kind = iota
	KindTranslationUnit
	KindFunctionDecl
	KindParmDecl
	KindCallExpr
)

func (k Kind) String() string {
	switch k {
	case KindTranslationUnit:
		return "TranslationUnit"
	case KindFunctionDecl:
		return "FunctionDecl"
	case KindParmDecl:
		return "ParmDecl"
	case KindCallExpr:
		return "CallExpr"
	default:
		return "Other"
	}
}

// Location is a presumed source location. Line and Column are 1-indexed;
// Column counts bytes.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Node is one syntax node.
//
// Name is the human-readable spelling: the declared name for declarations,
// the spelled callee for call expressions. Type is the spelled type of the
// node (parameter declarations) and TypeKind its kind tag.
type Node struct {
	Kind     Kind
	RawKind  string
	Name     string
	Type     string
	TypeKind TypeKind
	Location Location
	Children []*Node
}

// Is reports whether n is non-nil and of kind k.
func (n *Node) Is(k Kind) bool {
	return n != nil && n.Kind == k
}

// Count returns the number of nodes of kind k in the subtree rooted at n,
// including n itself.
func (n *Node) Count(k Kind) int {
	if n == nil {
		return 0
	}
	total := 0
	if n.Kind == k {
		total++
	}
	for _, child := range n.Children {
		total += child.Count(k)
	}
	return total
}

// Collect returns the nodes of kind k in the subtree rooted at n, in
// depth-first source order.
func (n *Node) Collect(k Kind) []*Node {
	var out []*Node
	var visit func(*Node)
	visit = func(node *Node) {
		if node == nil {
			return
		}
		if node.Kind == k {
			out = append(out, node)
		}
		for _, child := range node.Children {
			visit(child)
		}
	}
	visit(n)
	return out
}
