package value

import "fmt"

// ObjFunction is a compiled function: its arity, the number of upvalues its
// closures must capture, its bytecode and constant pool, and an optional
// name (the top-level script body is an ObjFunction with a nil Name).
type ObjFunction struct {
	Header
	Arity        int
	UpvalueCount int
	Chunk        Chunk
	Name         *ObjString
}

// NewFunction returns an empty, unnamed ObjFunction ready for a compiler to
// emit code into.
func NewFunction() *ObjFunction {
	return &ObjFunction{Header: Header{typ: TypeFunction}}
}

func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// NativeFn is the signature every built-in function implements: given the
// arguments passed at the call site, it returns a result or a runtime
// error.
type NativeFn func(args []Value) (Value, error)

// ObjNative wraps a Go function so it can be called from script code like
// any other callable.
type ObjNative struct {
	Header
	Name string
	Fn   NativeFn
}

// NewNative wraps fn as a callable named name. The name is not shown when
// the native value is printed (String returns "<native fn>").
func NewNative(name string, fn NativeFn) *ObjNative {
	return &ObjNative{Header: Header{typ: TypeNative}, Name: name, Fn: fn}
}

func (n *ObjNative) String() string { return "<native fn>" }
