package graph

import (
	"fmt"

	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

// extractParameters emits one parameter fact per parameter declaration among
// fn's immediate children. Deeper descendants (default values, parameters of
// function-pointer parameters) are not inspected. The ordinal is the
// parameter's type-kind tag, not its position: two int parameters share an
// ordinal.
func (w *Walker) extractParameters(fn *syntax.Node, function string) (int, error) {
	count := 0
	for _, child := range fn.Children {
		if !child.Is(syntax.KindParmDecl) {
			continue
		}
		if err := w.sink.UpsertParameter(function, child.Name, child.Type, int(child.TypeKind)); err != nil {
			return count, fmt.Errorf("failed to record parameter %s of %s at %s: %w", child.Name, function, child.Location, err)
		}
		count++
	}
	return count, nil
}
