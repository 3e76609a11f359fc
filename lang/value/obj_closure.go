package value

import "fmt"

// ObjUpvalue is a reference to a local variable owned by an enclosing
// call frame. While that frame is still on the stack, Location points
// directly into its stack slot ("open"); when the frame returns, the
// VM copies the slot's value into Closed and repoints Location at it
// ("closing" the upvalue), so closures that escaped the frame keep
// working.
//
// Next threads open upvalues together in the VM's sorted open-upvalue
// list, from the one closest to the top of the stack to the one
// farthest, so that closing every upvalue at or above a given stack
// slot is a single linear walk.
type ObjUpvalue struct {
	Header
	Location *Value
	Closed   Value
	Next     *ObjUpvalue
}

// NewUpvalue returns an open upvalue pointing at slot.
func NewUpvalue(slot *Value) *ObjUpvalue {
	return &ObjUpvalue{Header: Header{typ: TypeUpvalue}, Location: slot}
}

// Close copies the current value out of the stack slot the upvalue
// points at and repoints it at its own storage, detaching it from the
// stack it used to alias.
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

func (u *ObjUpvalue) String() string { return "<upvalue>" }

// ObjClosure pairs a compiled function with the upvalues its nested
// closures capture at the point the CLOSURE instruction runs.
type ObjClosure struct {
	Header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

// NewClosure returns a closure over fn with UpvalueCount empty upvalue
// slots, to be filled in by the CLOSURE instruction's inline operands.
func NewClosure(fn *ObjFunction) *ObjClosure {
	return &ObjClosure{
		Header:   Header{typ: TypeClosure},
		Function: fn,
		Upvalues: make([]*ObjUpvalue, fn.UpvalueCount),
	}
}

func (c *ObjClosure) String() string { return c.Function.String() }

// ObjBoundMethod pairs a method closure with the instance it was looked up
// on, so that a subsequent call supplies Receiver as the implicit "this"
// without the caller having to re-specify it.
type ObjBoundMethod struct {
	Header
	Receiver Value
	Method   *ObjClosure
}

// NewBoundMethod binds method to receiver.
func NewBoundMethod(receiver Value, method *ObjClosure) *ObjBoundMethod {
	return &ObjBoundMethod{Header: Header{typ: TypeBoundMethod}, Receiver: receiver, Method: method}
}

func (b *ObjBoundMethod) String() string { return fmt.Sprintf("<bound method %s>", b.Method.String()) }
