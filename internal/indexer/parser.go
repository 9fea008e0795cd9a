package indexer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/c2sqlite/internal/indexer/parsers"
	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

var (
	// ErrParse marks a file that could not be turned into a syntax tree.
	ErrParse = errors.New("parse failed")

	// ErrUnsupportedLanguage is returned for files no parser handles.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// multiLanguageParser dispatches to the C or C++ tree-sitter parser by file
// extension.
type multiLanguageParser struct {
	cParser         languageParser
	cppParser       languageParser
	defaultLanguage string
}

// languageParser is an internal interface for language-specific parsers.
type languageParser interface {
	ParseFile(ctx context.Context, filePath string) (*syntax.Node, error)
}

// NewParser creates a parser for C and C++ sources. defaultLanguage is used
// for extensions detectLanguage does not know; empty rejects them.
func NewParser(strict bool, defaultLanguage string) Parser {
	return &multiLanguageParser{
		cParser:         parsers.NewCParser(parsers.WithStrict(strict)),
		cppParser:       parsers.NewCppParser(parsers.WithStrict(strict)),
		defaultLanguage: defaultLanguage,
	}
}

// ParseFile parses filePath with the parser for its language.
func (p *multiLanguageParser) ParseFile(ctx context.Context, filePath string) (*syntax.Node, error) {
	language := detectLanguage(filePath)
	if language == "" {
		language = p.defaultLanguage
	}

	switch language {
	case "c":
		return p.cParser.ParseFile(ctx, filePath)
	case "cpp":
		return p.cppParser.ParseFile(ctx, filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filePath)
	}
}

// SupportsLanguage checks if this parser supports the given language.
func (p *multiLanguageParser) SupportsLanguage(language string) bool {
	switch language {
	case "c", "cpp":
		return true
	default:
		return false
	}
}

// IsSourceFile reports whether filePath has a C or C++ extension.
func IsSourceFile(filePath string) bool {
	return detectLanguage(filePath) != ""
}

// detectLanguage maps a file extension to "c" or "cpp". Headers ending in .h
// are parsed as C. Returns "" for anything else.
func detectLanguage(filePath string) string {
	ext := filepath.Ext(filePath)
	// .C and .H are C++ by convention
	if ext == ".C" || ext == ".H" {
		return "cpp"
	}

	switch strings.ToLower(ext) {
	case ".c", ".h":
		return "c"
	case ".cc", ".cpp", ".cxx", ".c++", ".hh", ".hpp", ".hxx", ".h++", ".ipp", ".tpp":
		return "cpp"
	}
	return ""
}
