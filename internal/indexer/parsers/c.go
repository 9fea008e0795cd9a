package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

// CParser parses C files.
type CParser struct {
	*treeSitterParser
}

// NewCParser creates a new C parser.
func NewCParser(opts ...Option) *CParser {
	lang := sitter.NewLanguage(c.Language())
	return &CParser{
		treeSitterParser: newTreeSitterParser(lang, "c", opts...),
	}
}

// CppParser parses C++ files. C++ sources need their own grammar: the C
// grammar misreads qualified names, references and templates.
type CppParser struct {
	*treeSitterParser
}

// NewCppParser creates a new C++ parser.
func NewCppParser(opts ...Option) *CppParser {
	lang := sitter.NewLanguage(cpp.Language())
	return &CppParser{
		treeSitterParser: newTreeSitterParser(lang, "cpp", opts...),
	}
}
