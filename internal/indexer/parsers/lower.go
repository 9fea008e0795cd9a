package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

// lowerer converts a tree-sitter C/C++ tree into a syntax tree shaped the way
// clang presents cursors: a function declaration owns its parameter
// declarations as immediate children, followed by its body; call expressions
// carry the spelled callee name.
type lowerer struct {
	source []byte
	file   string
	cpp    bool
}

func (l *lowerer) location(node *sitter.Node) syntax.Location {
	pos := node.StartPosition()
	return syntax.Location{
		File:   l.file,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
}

func (l *lowerer) text(node *sitter.Node) string {
	return extractNodeText(node, l.source)
}

// lowerChildren lowers every named child of node in source order.
func (l *lowerer) lowerChildren(node *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		out = append(out, l.lower(child)...)
	}
	return out
}

// lower converts one tree-sitter node into zero or more syntax nodes.
func (l *lowerer) lower(node *sitter.Node) []*syntax.Node {
	switch node.Kind() {
	case "comment":
		return nil
	case "function_definition":
		if fn := l.lowerFunctionDefinition(node); fn != nil {
			return []*syntax.Node{fn}
		}
	case "declaration", "field_declaration":
		return []*syntax.Node{l.lowerDeclaration(node)}
	case "call_expression":
		return []*syntax.Node{l.lowerCall(node)}
	}

	return []*syntax.Node{l.lowerGeneric(node)}
}

func (l *lowerer) lowerGeneric(node *sitter.Node) *syntax.Node {
	return &syntax.Node{
		Kind:     syntax.KindOther,
		RawKind:  node.Kind(),
		Location: l.location(node),
		Children: l.lowerChildren(node),
	}
}

// lowerFunctionDefinition builds a function declaration node from a
// definition. Returns nil when no function declarator can be found (macro
// soup the grammar recovered from), in which case the caller falls back to
// generic lowering.
func (l *lowerer) lowerFunctionDefinition(node *sitter.Node) *syntax.Node {
	fnDecl := findFunctionDeclarator(node.ChildByFieldName("declarator"))
	if fnDecl == nil {
		return nil
	}

	fn := l.newFunctionDecl(node, node.ChildByFieldName("declarator"), fnDecl)
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "compound_statement", "field_initializer_list", "try_statement":
			fn.Children = append(fn.Children, l.lower(child)...)
		}
	}
	return fn
}

// lowerDeclaration handles declarations, which may hold function prototypes
// alongside variables. Prototypes become function declaration nodes;
// initializers of variables are lowered so calls in them are visible.
func (l *lowerer) lowerDeclaration(node *sitter.Node) *syntax.Node {
	decl := &syntax.Node{
		Kind:     syntax.KindOther,
		RawKind:  node.Kind(),
		Location: l.location(node),
	}

	typeNode := node.ChildByFieldName("type")
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if sameNode(child, typeNode) {
			// Type specifiers may hold class bodies with inline methods.
			switch child.Kind() {
			case "struct_specifier", "class_specifier", "union_specifier", "enum_specifier":
				decl.Children = append(decl.Children, l.lower(child)...)
			}
			continue
		}

		switch child.Kind() {
		case "type_qualifier", "storage_class_specifier", "attribute_specifier",
			"attribute_declaration", "virtual", "explicit_function_specifier", "ms_declspec_modifier":
			continue
		}

		if fnDecl := prototypeDeclarator(child); fnDecl != nil {
			decl.Children = append(decl.Children, l.newFunctionDecl(node, child, fnDecl))
			continue
		}
		decl.Children = append(decl.Children, l.lower(child)...)
	}
	return decl
}

// newFunctionDecl creates the function declaration node with its parameters.
// declarator is the owner's declarator wrapping fnDecl. The location is the
// name's location, matching where clang anchors a FunctionDecl cursor.
func (l *lowerer) newFunctionDecl(owner, declarator, fnDecl *sitter.Node) *syntax.Node {
	nameNode := findNameNode(fnDecl.ChildByFieldName("declarator"))
	fn := &syntax.Node{
		Kind:     syntax.KindFunctionDecl,
		RawKind:  owner.Kind(),
		Location: l.location(owner),
		TypeKind: syntax.TypeFunctionProto,
	}
	if nameNode != nil {
		nameNode = unqualified(nameNode)
		fn.Name = l.text(nameNode)
		fn.Location = l.location(nameNode)
	}
	fn.Children = l.lowerParameters(fnDecl.ChildByFieldName("parameters"))

	paramTypes := make([]string, 0, len(fn.Children))
	for _, parm := range fn.Children {
		paramTypes = append(paramTypes, parm.Type)
	}
	returnType := strings.TrimSpace(l.baseTypeSpelling(owner) + pointerSuffix(countPointers(declarator, fnDecl)))
	if returnType != "" && !strings.HasSuffix(returnType, "*") {
		returnType += " "
	}
	fn.Type = returnType + "(" + strings.Join(paramTypes, ", ") + ")"
	return fn
}

// countPointers counts pointer declarators between declarator and stop.
func countPointers(declarator, stop *sitter.Node) int {
	count := 0
	for node := declarator; node != nil && !sameNode(node, stop); {
		switch node.Kind() {
		case "pointer_declarator":
			count++
			node = innerDeclarator(node)
		case "reference_declarator", "attributed_declarator":
			node = innerDeclarator(node)
		case "parenthesized_declarator":
			node = node.NamedChild(0)
		default:
			return count
		}
	}
	return count
}

// sameNode reports whether a and b are the same node of one tree.
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

// lowerParameters lowers the parameter list of a function declarator into
// parameter declaration nodes. `(void)` and a bare `...` produce nothing.
func (l *lowerer) lowerParameters(params *sitter.Node) []*syntax.Node {
	if params == nil {
		return nil
	}

	var out []*syntax.Node
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		switch param.Kind() {
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		default:
			continue
		}

		declarator := param.ChildByFieldName("declarator")
		baseType := l.baseTypeSpelling(param)
		if declarator == nil && baseType == "void" {
			continue
		}

		parm := &syntax.Node{
			Kind:     syntax.KindParmDecl,
			RawKind:  param.Kind(),
			Location: l.location(param),
		}
		if nameNode := findNameNode(declarator); nameNode != nil {
			parm.Name = l.text(nameNode)
			parm.Location = l.location(nameNode)
		}
		parm.Type, parm.TypeKind = l.spellDeclaredType(param, baseType, declarator)

		if value := param.ChildByFieldName("default_value"); value != nil {
			parm.Children = l.lower(value)
		}
		out = append(out, parm)
	}
	return out
}

// lowerCall builds a call expression node. Arguments are kept as children so
// the tree is complete, even though the walker does not descend into them.
func (l *lowerer) lowerCall(node *sitter.Node) *syntax.Node {
	call := &syntax.Node{
		Kind:     syntax.KindCallExpr,
		RawKind:  node.Kind(),
		Name:     l.spellCallee(node.ChildByFieldName("function")),
		Location: l.location(node),
	}
	if args := node.ChildByFieldName("arguments"); args != nil {
		call.Children = l.lowerChildren(args)
	}
	return call
}

// spellCallee returns the name of the declaration a callee expression refers
// to: the identifier for direct calls, the member for field calls, and the
// unqualified name for qualified or templated calls. Other callee shapes
// (calls through computed expressions) have no name.
func (l *lowerer) spellCallee(fn *sitter.Node) string {
	if fn == nil {
		return ""
	}

	switch fn.Kind() {
	case "identifier", "field_identifier", "destructor_name", "operator_name":
		return l.text(fn)
	case "field_expression":
		return l.spellCallee(fn.ChildByFieldName("field"))
	case "qualified_identifier", "template_function", "template_method":
		return l.spellCallee(fn.ChildByFieldName("name"))
	case "parenthesized_expression":
		if fn.NamedChildCount() == 1 {
			return l.spellCallee(fn.NamedChild(0))
		}
	case "pointer_expression":
		return l.spellCallee(fn.ChildByFieldName("argument"))
	}
	return ""
}

// unqualified returns the node holding the unqualified declared name
// (Widget::grow spells as grow), the way clang spells and anchors a
// declaration cursor.
func unqualified(node *sitter.Node) *sitter.Node {
	for {
		switch node.Kind() {
		case "qualified_identifier", "template_function":
			name := node.ChildByFieldName("name")
			if name == nil {
				return node
			}
			node = name
		default:
			return node
		}
	}
}

// findFunctionDeclarator descends through pointer, reference and
// parenthesized wrappers to the function declarator of a function definition.
func findFunctionDeclarator(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "function_declarator":
			return node
		case "pointer_declarator", "reference_declarator", "attributed_declarator":
			node = innerDeclarator(node)
		case "parenthesized_declarator":
			node = node.NamedChild(0)
		default:
			return nil
		}
	}
	return nil
}

// prototypeDeclarator returns the function declarator when declarator
// declares a function (not a function pointer variable).
func prototypeDeclarator(declarator *sitter.Node) *sitter.Node {
	node := declarator
	for node != nil {
		switch node.Kind() {
		case "function_declarator":
			if inner := node.ChildByFieldName("declarator"); inner != nil && inner.Kind() == "parenthesized_declarator" {
				return nil
			}
			return node
		case "pointer_declarator", "reference_declarator", "attributed_declarator":
			node = innerDeclarator(node)
		default:
			return nil
		}
	}
	return nil
}

// innerDeclarator returns the nested declarator of a wrapper declarator.
// Reference declarators carry it as an unnamed child.
func innerDeclarator(node *sitter.Node) *sitter.Node {
	if inner := node.ChildByFieldName("declarator"); inner != nil {
		return inner
	}
	if node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(node.NamedChildCount() - 1)
}

// findNameNode finds the identifier a declarator declares.
func findNameNode(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "identifier", "field_identifier", "qualified_identifier", "destructor_name",
			"operator_name", "template_function":
			return node
		case "parenthesized_declarator":
			node = node.NamedChild(0)
		case "function_declarator", "pointer_declarator", "array_declarator",
			"reference_declarator", "attributed_declarator", "init_declarator":
			node = innerDeclarator(node)
		default:
			return nil
		}
	}
	return nil
}
