package vm

import (
	"unsafe"

	"github.com/loxvm/loxvm/lang/value"
)

// track accounts for obj's approximate size and links it into the VM's
// intrusive all-objects list, triggering a collection if the heap has grown
// past nextGC (or always, in GCStressTest mode). Every allocation in this
// package funnels through here so the GC never loses track of an object.
//
// The collection, if any, runs before obj joins the list: obj has no roots
// yet, and sweeping it out of existence in the same call that allocated it
// would hand the caller a freed object.
func (vm *VM) track(obj value.Object, size int64) {
	vm.bytesAllocated += size
	if vm.GCStressTest || vm.bytesAllocated > vm.nextGC {
		vm.collectGarbage()
	}

	value.SetSize(obj, size)
	value.SetNext(obj, vm.objects)
	vm.objects = obj
}

// InternString returns the canonical ObjString for chars, allocating one
// only if the string table does not already contain a matching entry. This
// is the mechanism that lets Value equality and Table lookups on strings
// use pointer identity.
func (vm *VM) InternString(chars string) *value.ObjString {
	hash := value.FNV1a(chars)
	if existing := vm.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	str := value.NewString(chars)
	vm.track(str, int64(len(chars))+32)

	// Anchor the new string on the stack across the intern-table insert:
	// str is tracked but reachable from nothing until the Set completes.
	vm.push(value.FromObj(str))
	vm.strings.Set(str, value.True)
	vm.pop()

	return str
}

// NewFunction allocates an empty ObjFunction for the compiler to emit
// bytecode into.
func (vm *VM) NewFunction() *value.ObjFunction {
	fn := value.NewFunction()
	vm.track(fn, int64(unsafe.Sizeof(value.ObjFunction{})))
	return fn
}

// Push and Pop implement value.Allocator's stack-anchoring hazard: the
// compiler pushes a just-allocated object before doing anything that might
// itself allocate, then pops it once it has been stored somewhere the GC
// will find on its own (a chunk's constant pool, a table, an enclosing
// structure).
func (vm *VM) Push(v value.Value) { vm.push(v) }
func (vm *VM) Pop()               { vm.pop() }

// newClosure, newInstance, newClass, newUpvalue, newBoundMethod, newNative
// wrap their value package constructors with heap tracking, so every
// runtime allocation (as opposed to the handful the compiler makes through
// the Allocator methods above) is equally visible to the collector.

func (vm *VM) newClosure(fn *value.ObjFunction) *value.ObjClosure {
	c := value.NewClosure(fn)
	vm.track(c, int64(unsafe.Sizeof(value.ObjClosure{}))+int64(len(c.Upvalues))*8)
	return c
}

func (vm *VM) newInstance(class *value.ObjClass) *value.ObjInstance {
	i := value.NewInstance(class)
	vm.track(i, int64(unsafe.Sizeof(value.ObjInstance{})))
	return i
}

func (vm *VM) newClass(name *value.ObjString) *value.ObjClass {
	c := value.NewClass(name)
	vm.track(c, int64(unsafe.Sizeof(value.ObjClass{})))
	return c
}

func (vm *VM) newUpvalue(slot *value.Value) *value.ObjUpvalue {
	u := value.NewUpvalue(slot)
	vm.track(u, int64(unsafe.Sizeof(value.ObjUpvalue{})))
	return u
}

func (vm *VM) newBoundMethod(receiver value.Value, method *value.ObjClosure) *value.ObjBoundMethod {
	b := value.NewBoundMethod(receiver, method)
	vm.track(b, int64(unsafe.Sizeof(value.ObjBoundMethod{})))
	return b
}

func (vm *VM) newNative(name string, fn value.NativeFn) *value.ObjNative {
	n := value.NewNative(name, fn)
	vm.track(n, int64(unsafe.Sizeof(value.ObjNative{})))
	return n
}
