package value

// ObjType identifies which Object variant a heap object is.
type ObjType uint8

const (
	TypeString ObjType = iota
	TypeFunction
	TypeNative
	TypeClosure
	TypeUpvalue
	TypeClass
	TypeInstance
	TypeBoundMethod
)

var objTypeNames = [...]string{
	TypeString:      "string",
	TypeFunction:    "function",
	TypeNative:      "native function",
	TypeClosure:     "closure",
	TypeUpvalue:     "upvalue",
	TypeClass:       "class",
	TypeInstance:    "instance",
	TypeBoundMethod: "bound method",
}

func (t ObjType) String() string { return objTypeNames[t] }

// Object is implemented by every heap-allocated value variant: strings,
// functions, natives, closures, upvalues, classes, instances and bound
// methods. It is the common object header expressed as an interface
// instead of a tagged union, so that each variant's String method lives
// with its own type. The GC's blacken step (in package vm) switches on the
// concrete variant type.
//
// The Header type below supplies the header fields (Type, the GC mark bit,
// and the intrusive "next" link used to sweep the VM's object list) to
// every variant via embedding, so implementing Object only requires
// embedding Header and adding a String method.
type Object interface {
	Type() ObjType
	String() string

	marked() bool
	setMarked(bool)
	next() Object
	setNext(Object)
	size() int64
	setSize(int64)
}

// Header is embedded by value in every Object variant. It supplies the
// common bookkeeping fields every heap object carries: the variant tag and
// the intrusive linked-list pointer the garbage collector sweeps, plus the
// mark bit the collector flips during the mark phase.
type Header struct {
	typ      ObjType
	gcMarked bool
	gcNext   Object
	gcSize   int64
}

func (h *Header) Type() ObjType    { return h.typ }
func (h *Header) marked() bool     { return h.gcMarked }
func (h *Header) setMarked(m bool) { h.gcMarked = m }
func (h *Header) next() Object     { return h.gcNext }
func (h *Header) setNext(o Object) { h.gcNext = o }
func (h *Header) size() int64      { return h.gcSize }
func (h *Header) setSize(n int64)  { h.gcSize = n }

// Marked reports whether the GC has marked obj reachable during the current
// cycle. Exported for the GC package, which lives outside this one.
func Marked(obj Object) bool { return obj.marked() }

// SetMarked sets the GC mark bit on obj.
func SetMarked(obj Object, m bool) { obj.setMarked(m) }

// Next returns the next object in the VM's intrusive all-objects list.
func Next(obj Object) Object { return obj.next() }

// SetNext sets the next object in the VM's intrusive all-objects list.
func SetNext(obj Object, n Object) { obj.setNext(n) }

// Size returns the heap-accounting size recorded for obj when it was
// allocated, subtracted from the VM's bytesAllocated when a sweep frees it.
func Size(obj Object) int64 { return obj.size() }

// SetSize records obj's heap-accounting size.
func SetSize(obj Object, n int64) { obj.setSize(n) }
