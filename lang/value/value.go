// Package value implements the runtime value representation: the tagged
// Value type together with the heap-allocated Object variants (strings,
// functions, closures, upvalues, classes, instances and bound methods) that
// a Value may point to.
//
// Two representations of Value satisfy the language's semantics equally
// well: a tagged union, or NaN-boxing a 64-bit word. This package uses the
// tagged-struct form: Go gives no portable, GC-safe way to smuggle a pointer
// through the bit pattern of a float64, so the NaN-boxing alternative does
// not translate.
package value

import "fmt"

// Kind identifies which alternative of a Value is populated.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// A Value is anything the virtual machine can push on its stack: a boolean,
// nil, a double-precision number, or a reference to a heap Object. The zero
// Value is Nil.
type Value struct {
	kind Kind
	b    bool
	n    float64
	obj  Object
}

// Nil is the singular nil value.
var Nil = Value{kind: KindNil}

// True and False are the two boolean values.
var (
	True  = Value{kind: KindBool, b: true}
	False = Value{kind: KindBool, b: false}
)

// Bool returns the Value wrapping b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Number returns the Value wrapping the number n.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// FromObj returns the Value referencing the heap object obj. obj must not
// be nil; use Nil for the absence of a value.
func FromObj(obj Object) Value {
	if obj == nil {
		panic("value: FromObj called with nil Object")
	}
	return Value{kind: KindObj, obj: obj}
}

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool    { return v.kind == KindObj }

// AsBool returns the boolean payload of v. The caller must have verified
// IsBool(v) first.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the numeric payload of v. The caller must have verified
// IsNumber(v) first.
func (v Value) AsNumber() float64 { return v.n }

// AsObj returns the object payload of v. The caller must have verified
// IsObj(v) first.
func (v Value) AsObj() Object { return v.obj }

// Is reports whether v is a heap object of the given type.
func (v Value) Is(t ObjType) bool { return v.kind == KindObj && v.obj.Type() == t }

// Truth reports the truthiness of v: only nil and the boolean false are
// falsey, everything else (including the number zero and the empty string)
// is truthy.
func (v Value) Truth() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Equal reports whether a and b are language-level equal (the == / !=
// operators). Values of differing kinds are never
// equal. Numbers compare by IEEE-754 equality (so NaN != NaN), booleans by
// value, nil equals only nil, and objects compare by pointer identity; for
// strings this still yields correct value equality because strings are
// interned by the VM.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindObj:
		return a.obj == b.obj
	default:
		return false
	}
}

// String renders v the way the print statement and the REPL do.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.n)
	case KindObj:
		return v.obj.String()
	default:
		return "<invalid value>"
	}
}

// TypeName returns a short name of v's type, used in runtime error messages.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindObj:
		return v.obj.Type().String()
	default:
		return "invalid"
	}
}

// formatNumber renders n in the general format: the shortest decimal
// representation that round-trips.
func formatNumber(n float64) string {
	return fmt.Sprintf("%g", n)
}
