package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mvp-joe/c2sqlite/internal/indexer"
	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: debug-ast <file.c|file.cpp>")
		os.Exit(2)
	}

	parser := indexer.NewParser(false, "")
	root, err := parser.ParseFile(context.Background(), os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== TREE ===")
	dump(root, 0)

	fmt.Println("\n=== FUNCTIONS ===")
	fmt.Printf("Count: %d\n", root.Count(syntax.KindFunctionDecl))
	for _, fn := range root.Collect(syntax.KindFunctionDecl) {
		fmt.Printf("  %s %s at %s\n", fn.Name, fn.Type, fn.Location)
	}

	fmt.Println("\n=== CALLS ===")
	for _, call := range root.Collect(syntax.KindCallExpr) {
		fmt.Printf("  %s at %s\n", call.Name, call.Location)
	}
}

func dump(n *syntax.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case syntax.KindOther:
		fmt.Printf("%s%s\n", indent, n.RawKind)
	case syntax.KindParmDecl:
		fmt.Printf("%s%s %q %q %s(%d) %d:%d\n", indent, n.Kind, n.Name, n.Type, n.TypeKind, n.TypeKind, n.Location.Line, n.Location.Column)
	default:
		fmt.Printf("%s%s %q %d:%d\n", indent, n.Kind, n.Name, n.Location.Line, n.Location.Column)
	}
	for _, child := range n.Children {
		dump(child, depth+1)
	}
}
