package graph

// FunctionContext is the current-function slot shared by one run.
//
// It holds the name of the most recently visited function declaration and is
// only written when a function declaration is visited. Leaving a function's
// subtree does not clear it and it is not reset between files, so a call at
// file scope is attributed to whatever function was declared last, possibly
// in the previous file. Nested functions are not modeled.
type FunctionContext struct {
	name string
	set  bool
}

// NewFunctionContext returns an empty slot.
func NewFunctionContext() *FunctionContext {
	return &FunctionContext{}
}

// Enter makes name the current function.
func (fc *FunctionContext) Enter(name string) {
	fc.name = name
	fc.set = true
}

// Current returns the current function name, or "" with ok=false when no
// function declaration has been visited yet in this run.
func (fc *FunctionContext) Current() (name string, ok bool) {
	return fc.name, fc.set
}

// Caller returns the name call edges are attributed to.
func (fc *FunctionContext) Caller() string {
	return fc.name
}
