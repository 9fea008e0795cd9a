package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/c2sqlite/internal/syntax"
)

// Test Plan for Walker:
// - Function declarations emit a declaration fact at their location
// - Parameters are emitted for immediate ParmDecl children only, with the
//   type-kind tag as ordinal
// - Calls are attributed to the current function
// - Calls are not descended into (nested argument calls are skipped)
// - The slot is not cleared when leaving a function
// - The slot carries over between walks sharing one context
// - Sink failures abort the walk with a wrapped error

type declFact struct {
	Name, File   string
	Line, Column int
}

type callFact struct {
	Caller, Callee, File string
	Line, Column         int
}

type paramFact struct {
	Function, Name, Type string
	Ordinal              int
}

type fakeSink struct {
	decls  []declFact
	calls  []callFact
	params []paramFact
	failOn string
}

var errSinkFailed = errors.New("disk full")

func (s *fakeSink) UpsertDeclaration(name, file string, line, column int) error {
	if s.failOn == "decl" {
		return errSinkFailed
	}
	s.decls = append(s.decls, declFact{name, file, line, column})
	return nil
}

func (s *fakeSink) UpsertCallEdge(caller, callee, file string, line, column int) error {
	if s.failOn == "call" {
		return errSinkFailed
	}
	s.calls = append(s.calls, callFact{caller, callee, file, line, column})
	return nil
}

func (s *fakeSink) UpsertParameter(function, name, typ string, ordinal int) error {
	if s.failOn == "param" {
		return errSinkFailed
	}
	s.params = append(s.params, paramFact{function, name, typ, ordinal})
	return nil
}

func at(file string, line, column int) syntax.Location {
	return syntax.Location{File: file, Line: line, Column: column}
}

func fn(name string, loc syntax.Location, children ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindFunctionDecl, Name: name, Location: loc, Children: children}
}

func parm(name, typ string, kind syntax.TypeKind, children ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindParmDecl, Name: name, Type: typ, TypeKind: kind, Children: children}
}

func call(name string, loc syntax.Location, args ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindCallExpr, Name: name, Location: loc, Children: args}
}

func other(children ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindOther, Children: children}
}

func unit(file string, children ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindTranslationUnit, Name: file, Children: children}
}

// addTree mirrors:
//
//	int add(int a, char *b) { return a; }
//	static int helper(void) { return add(1, "x"); }
//	int main(void) { printf("%d", helper()); }
func addTree() *syntax.Node {
	return unit("a.c",
		fn("add", at("a.c", 1, 5),
			parm("a", "int", syntax.TypeInt),
			parm("b", "char *", syntax.TypePointer),
			other(other()),
		),
		fn("helper", at("a.c", 3, 12),
			other(other(call("add", at("a.c", 3, 33)))),
		),
		fn("main", at("a.c", 5, 5),
			other(call("printf", at("a.c", 5, 18), other(), call("helper", at("a.c", 5, 31)))),
		),
	)
}

func TestWalker_Facts(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	stats, err := NewWalker(sink).Walk(addTree(), NewFunctionContext())
	require.NoError(t, err)

	assert.Equal(t, []declFact{
		{"add", "a.c", 1, 5},
		{"helper", "a.c", 3, 12},
		{"main", "a.c", 5, 5},
	}, sink.decls)

	assert.Equal(t, []paramFact{
		{"add", "a", "int", 17},
		{"add", "b", "char *", 101},
	}, sink.params)

	// helper() inside printf's arguments is not visited
	assert.Equal(t, []callFact{
		{"helper", "add", "a.c", 3, 33},
		{"main", "printf", "a.c", 5, 18},
	}, sink.calls)

	assert.Equal(t, WalkStats{Declarations: 3, Calls: 2, Parameters: 2}, stats)
	assert.Equal(t, 7, stats.Total())
}

func TestWalker_ParametersShareOrdinal(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	root := unit("a.c", fn("mix", at("a.c", 1, 6),
		parm("x", "int", syntax.TypeInt),
		parm("y", "int", syntax.TypeInt),
	))

	_, err := NewWalker(sink).Walk(root, NewFunctionContext())
	require.NoError(t, err)
	assert.Equal(t, []paramFact{
		{"mix", "x", "int", 17},
		{"mix", "y", "int", 17},
	}, sink.params)
}

func TestWalker_OnlyImmediateParameters(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	root := unit("a.c", fn("outer", at("a.c", 1, 6),
		parm("cb", "int (*)(int)", syntax.TypePointer),
		other(parm("hidden", "int", syntax.TypeInt)),
	))

	stats, err := NewWalker(sink).Walk(root, NewFunctionContext())
	require.NoError(t, err)
	assert.Equal(t, []paramFact{{"outer", "cb", "int (*)(int)", 101}}, sink.params)
	assert.Equal(t, 1, stats.Parameters)
}

func TestWalker_DefaultArgumentCall(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	root := unit("a.cpp", fn("f", at("a.cpp", 1, 6),
		parm("a", "int", syntax.TypeInt, call("next", at("a.cpp", 1, 16))),
	))

	_, err := NewWalker(sink).Walk(root, NewFunctionContext())
	require.NoError(t, err)
	assert.Equal(t, []callFact{{"f", "next", "a.cpp", 1, 16}}, sink.calls)
}

func TestWalker_SlotNotClearedOnExit(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	root := unit("a.c",
		fn("first", at("a.c", 1, 6)),
		other(call("init", at("a.c", 3, 15))),
	)

	_, err := NewWalker(sink).Walk(root, NewFunctionContext())
	require.NoError(t, err)
	require.Len(t, sink.calls, 1)
	assert.Equal(t, "first", sink.calls[0].Caller)
}

func TestWalker_NestedDeclarationTakesSlot(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	root := unit("a.c",
		fn("outer", at("a.c", 1, 6),
			other(
				fn("inner", at("a.c", 2, 10)),
				call("after", at("a.c", 3, 5)),
			),
		),
	)

	_, err := NewWalker(sink).Walk(root, NewFunctionContext())
	require.NoError(t, err)
	assert.Equal(t, "inner", sink.calls[0].Caller, "lexical nesting is not modeled")
}

func TestWalker_SlotCarriesAcrossFiles(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	walker := NewWalker(sink)
	fc := NewFunctionContext()

	_, err := walker.Walk(unit("a.c", fn("last", at("a.c", 9, 6))), fc)
	require.NoError(t, err)

	_, err = walker.Walk(unit("b.c", other(call("stray", at("b.c", 1, 15)))), fc)
	require.NoError(t, err)

	assert.Equal(t, []callFact{{"last", "stray", "b.c", 1, 15}}, sink.calls)
}

func TestWalker_CallBeforeAnyFunction(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	_, err := NewWalker(sink).Walk(unit("a.c", other(call("stray", at("a.c", 1, 15)))), NewFunctionContext())
	require.NoError(t, err)
	assert.Equal(t, []callFact{{"", "stray", "a.c", 1, 15}}, sink.calls)
}

func TestWalker_NilRoot(t *testing.T) {
	t.Parallel()

	stats, err := NewWalker(&fakeSink{}).Walk(nil, NewFunctionContext())
	require.NoError(t, err)
	assert.Zero(t, stats.Total())
}

func TestWalker_SinkFailure(t *testing.T) {
	t.Parallel()

	for _, failOn := range []string{"decl", "call", "param"} {
		t.Run(failOn, func(t *testing.T) {
			sink := &fakeSink{failOn: failOn}
			_, err := NewWalker(sink).Walk(addTree(), NewFunctionContext())
			require.Error(t, err)
			assert.ErrorIs(t, err, errSinkFailed)
		})
	}
}

func TestWalkStats_Add(t *testing.T) {
	t.Parallel()

	var total WalkStats
	total.Add(WalkStats{Declarations: 1, Calls: 2, Parameters: 3})
	total.Add(WalkStats{Declarations: 4, Calls: 5, Parameters: 6})
	assert.Equal(t, WalkStats{Declarations: 5, Calls: 7, Parameters: 9}, total)
}
