package graph

import (
	"fmt"

	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

// Walker extracts declaration, call-edge and parameter facts from syntax
// trees and writes them to a FactSink.
type Walker struct {
	sink FactSink
}

// NewWalker creates a walker writing to sink.
func NewWalker(sink FactSink) *Walker {
	return &Walker{sink: sink}
}

// Walk visits the children of root depth-first in source order. fc is the
// run's current-function slot; it is read and updated in place and must be
// the same value for every file of a run.
//
// A function declaration emits a declaration fact, becomes the current
// function, emits its parameter facts and is then descended into. A call
// expression emits a call edge from the current function and is not
// descended into, so calls nested in its arguments are not recorded. Every
// other node is descended into.
func (w *Walker) Walk(root *syntax.Node, fc *FunctionContext) (WalkStats, error) {
	var stats WalkStats
	if root == nil {
		return stats, nil
	}
	for _, child := range root.Children {
		if err := w.visit(child, fc, &stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (w *Walker) visit(node *syntax.Node, fc *FunctionContext, stats *WalkStats) error {
	switch node.Kind {
	case syntax.KindFunctionDecl:
		loc := node.Location
		if err := w.sink.UpsertDeclaration(node.Name, loc.File, loc.Line, loc.Column); err != nil {
			return fmt.Errorf("failed to record declaration of %s at %s: %w", node.Name, loc, err)
		}
		stats.Declarations++

		fc.Enter(node.Name)

		n, err := w.extractParameters(node, fc.Caller())
		stats.Parameters += n
		if err != nil {
			return err
		}

	case syntax.KindCallExpr:
		loc := node.Location
		if err := w.sink.UpsertCallEdge(fc.Caller(), node.Name, loc.File, loc.Line, loc.Column); err != nil {
			return fmt.Errorf("failed to record call to %s at %s: %w", node.Name, loc, err)
		}
		stats.Calls++
		return nil
	}

	for _, child := range node.Children {
		if err := w.visit(child, fc, stats); err != nil {
			return err
		}
	}
	return nil
}
