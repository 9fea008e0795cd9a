package parsers

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

// ErrSyntax is returned in strict mode when the parsed tree contains syntax errors.
var ErrSyntax = errors.New("syntax error")

// Option configures a tree-sitter parser.
type Option func(*treeSitterParser)

// WithStrict makes ParseFile fail when the tree contains ERROR or MISSING nodes.
// By default such trees are lowered and walked like any other.
func WithStrict(strict bool) Option {
	return func(p *treeSitterParser) {
		p.strict = strict
	}
}

// treeSitterParser provides common tree-sitter parsing functionality.
type treeSitterParser struct {
	language *sitter.Language
	lang     string
	strict   bool
}

// newTreeSitterParser creates a new tree-sitter parser for the given language.
func newTreeSitterParser(language *sitter.Language, lang string, opts ...Option) *treeSitterParser {
	p := &treeSitterParser{
		language: language,
		lang:     lang,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns the language name this parser handles ("c" or "cpp").
func (p *treeSitterParser) Language() string {
	return p.lang
}

// ParseFile parses a source file and lowers it into a syntax tree rooted at a
// translation unit node. Locations carry filePath exactly as given.
func (p *treeSitterParser) ParseFile(ctx context.Context, filePath string) (*syntax.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	return p.ParseSource(filePath, source)
}

// ParseSource parses in-memory source attributed to filePath.
func (p *treeSitterParser) ParseSource(filePath string, source []byte) (*syntax.Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set %s language: %w", p.lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file: %s", p.lang, filePath)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if p.strict && rootNode.HasError() {
		return nil, fmt.Errorf("%w in %s at %s", ErrSyntax, filePath, firstErrorLocation(rootNode, filePath))
	}

	l := &lowerer{source: source, file: filePath, cpp: p.lang == "cpp"}
	root := &syntax.Node{
		Kind:     syntax.KindTranslationUnit,
		RawKind:  rootNode.Kind(),
		Name:     filePath,
		Location: l.location(rootNode),
		Children: l.lowerChildren(rootNode),
	}
	return root, nil
}

// firstErrorLocation finds the first ERROR or MISSING node in source order.
func firstErrorLocation(node *sitter.Node, filePath string) syntax.Location {
	var found *sitter.Node
	walkTree(node, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})
	if found == nil {
		found = node
	}
	pos := found.StartPosition()
	return syntax.Location{File: filePath, Line: int(pos.Row) + 1, Column: int(pos.Column) + 1}
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), visitor)
	}
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}
