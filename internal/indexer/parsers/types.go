package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

// baseTypeSpelling returns the declaration's type specifier with its
// qualifiers, normalized to single spaces and qualifiers first
// ("char const" becomes "const char").
func (l *lowerer) baseTypeSpelling(node *sitter.Node) string {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return ""
	}

	var parts []string
	for _, qual := range findChildrenByType(node, "type_qualifier") {
		parts = append(parts, l.text(qual))
	}
	parts = append(parts, strings.Fields(l.text(typeNode))...)
	return strings.Join(parts, " ")
}

// baseTypeKind returns the kind tag of a declaration's type specifier.
func (l *lowerer) baseTypeKind(node *sitter.Node) syntax.TypeKind {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return syntax.TypeInvalid
	}

	switch typeNode.Kind() {
	case "primitive_type", "sized_type_specifier":
		spelling := strings.Join(strings.Fields(l.text(typeNode)), " ")
		if kind, ok := syntax.PrimitiveTypeKind(spelling); ok {
			return kind
		}
		if kind, ok := syntax.PrimitiveTypeKind(spelling + " int"); ok {
			return kind
		}
		return syntax.TypeUnexposed
	case "struct_specifier", "union_specifier", "class_specifier":
		return syntax.TypeRecord
	case "enum_specifier":
		return syntax.TypeEnum
	case "type_identifier":
		if l.cpp {
			return syntax.TypeElaborated
		}
		return syntax.TypeTypedef
	case "qualified_identifier", "template_type":
		return syntax.TypeElaborated
	}
	return syntax.TypeUnexposed
}

// spellDeclaredType spells the full type of a declaration from its base type
// and declarator, e.g. "char *", "int[10]" or "int (*)(int)". The kind is that
// of the outermost type constructor, which is the declarator closest to the
// declared name; without one it is the base type's kind.
func (l *lowerer) spellDeclaredType(decl *sitter.Node, baseType string, declarator *sitter.Node) (string, syntax.TypeKind) {
	var ops []*sitter.Node
	for node := declarator; node != nil; {
		switch node.Kind() {
		case "pointer_declarator", "abstract_pointer_declarator",
			"reference_declarator", "abstract_reference_declarator",
			"array_declarator", "abstract_array_declarator",
			"function_declarator", "abstract_function_declarator":
			ops = append(ops, node)
			node = innerDeclarator(node)
			if node != nil && sameNode(node, ops[len(ops)-1].ChildByFieldName("parameters")) {
				node = nil
			}
		case "parenthesized_declarator", "abstract_parenthesized_declarator":
			node = node.NamedChild(0)
		case "attributed_declarator":
			node = innerDeclarator(node)
		default:
			node = nil
		}
	}

	if len(ops) == 0 {
		return baseType, l.baseTypeKind(decl)
	}

	// Build the abstract declarator from the name outwards.
	spelled := ""
	lastPrefix := false
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		switch op.Kind() {
		case "pointer_declarator", "abstract_pointer_declarator":
			prefix := "*"
			for _, qual := range findChildrenByType(op, "type_qualifier") {
				prefix += l.text(qual) + " "
			}
			spelled = prefix + spelled
			lastPrefix = true
		case "reference_declarator", "abstract_reference_declarator":
			spelled = referenceToken(op) + spelled
			lastPrefix = true
		case "array_declarator", "abstract_array_declarator":
			if lastPrefix {
				spelled = "(" + strings.TrimSpace(spelled) + ")"
			}
			spelled += "[" + l.text(op.ChildByFieldName("size")) + "]"
			lastPrefix = false
		case "function_declarator", "abstract_function_declarator":
			if lastPrefix {
				spelled = "(" + strings.TrimSpace(spelled) + ")"
			}
			var paramTypes []string
			for _, parm := range l.lowerParameters(op.ChildByFieldName("parameters")) {
				paramTypes = append(paramTypes, parm.Type)
			}
			spelled += "(" + strings.Join(paramTypes, ", ") + ")"
			lastPrefix = false
		}
	}
	spelled = strings.TrimSpace(spelled)

	var typ string
	if strings.HasPrefix(spelled, "[") {
		typ = baseType + spelled
	} else {
		typ = baseType + " " + spelled
	}
	return typ, declaratorTypeKind(ops[len(ops)-1])
}

// declaratorTypeKind maps a declarator to the kind of type it constructs.
func declaratorTypeKind(op *sitter.Node) syntax.TypeKind {
	switch op.Kind() {
	case "pointer_declarator", "abstract_pointer_declarator":
		return syntax.TypePointer
	case "reference_declarator", "abstract_reference_declarator":
		if referenceToken(op) == "&&" {
			return syntax.TypeRValueReference
		}
		return syntax.TypeLValueReference
	case "array_declarator", "abstract_array_declarator":
		if op.ChildByFieldName("size") != nil {
			return syntax.TypeConstantArray
		}
		return syntax.TypeIncompleteArray
	case "function_declarator", "abstract_function_declarator":
		return syntax.TypeFunctionProto
	}
	return syntax.TypeUnexposed
}

// referenceToken returns "&" or "&&" for a reference declarator.
func referenceToken(op *sitter.Node) string {
	if findChildByType(op, "&&") != nil {
		return "&&"
	}
	return "&"
}

func pointerSuffix(n int) string {
	if n == 0 {
		return ""
	}
	return " " + strings.Repeat("*", n)
}
