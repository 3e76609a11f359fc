// Package vm implements the stack-based virtual machine: call frames,
// closures, classes and instances, native functions, and the mark-sweep
// garbage collector that backs all of it.
package vm

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/loxvm/loxvm/lang/value"
)

const (
	defaultMaxFrames = 64
	framesStackMul   = 256 // slots per frame, sizing the value stack
)

// CallFrame is one activation record: the closure being executed, its
// instruction pointer, and the base offset into the VM's value stack
// where its local slots begin (slot 0 is the closure itself, or `this`
// for a bound method call).
type CallFrame struct {
	closure *value.ObjClosure
	ip      int
	base    int
}

// VM is a single bytecode interpreter instance. Configuration knobs are
// public fields with zero-value defaults resolved lazily by init, rather
// than a constructor with a long parameter list.
type VM struct {
	MaxFrames      int
	StackMax       int
	HeapGrowFactor int
	GCStressTest   bool
	Clock          func() time.Time
	Stdout         io.Writer
	Stderr         io.Writer

	initialized bool

	frames     []CallFrame
	frameCount int

	stack    []value.Value
	stackTop int

	globals value.Table
	strings value.Table

	// initString is the interned "init", looked up on every class
	// instantiation, cached once and treated as a GC root of its own.
	initString *value.ObjString

	objects      value.Object
	openUpvalues *value.ObjUpvalue

	bytesAllocated int64
	nextGC         int64
	grayStack      []value.Object
}

func (vm *VM) init() {
	if vm.initialized {
		return
	}
	vm.initialized = true
	if vm.MaxFrames == 0 {
		vm.MaxFrames = defaultMaxFrames
	}
	if vm.StackMax == 0 {
		vm.StackMax = vm.MaxFrames * framesStackMul
	}
	if vm.HeapGrowFactor == 0 {
		vm.HeapGrowFactor = 2
	}
	if vm.Clock == nil {
		vm.Clock = time.Now
	}
	if vm.Stdout == nil {
		vm.Stdout = os.Stdout
	}
	if vm.Stderr == nil {
		vm.Stderr = os.Stderr
	}
	vm.frames = make([]CallFrame, vm.MaxFrames)
	vm.stack = make([]value.Value, vm.StackMax)
	vm.nextGC = 1 << 20
	vm.defineNatives()
	vm.initString = vm.InternString("init")
}

// InterpretResult is the three-way outcome of running a program.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// Compile compiles source into a callable top-level function without
// running it, without printing anything, so a caller (the REPL's bare-
// expression sugar, in particular) can attempt a speculative compile and
// silently fall back on failure.
func (vm *VM) Compile(source string) (*value.ObjFunction, error) {
	vm.init()
	return compileSource(source, vm)
}

// Run compiles and executes source, returning the exit code the process
// should report and the three-way InterpretResult.
func (vm *VM) Run(source string) (exitCode int, result InterpretResult, err error) {
	vm.init()

	fn, cerr := vm.Compile(source)
	if cerr != nil {
		fmt.Fprintln(vm.Stderr, cerr)
		return 65, InterpretCompileError, cerr
	}
	return vm.RunFunction(fn)
}

// RunFunction executes an already-compiled top-level function, mapping its
// outermost RETURN value to a process exit code.
func (vm *VM) RunFunction(fn *value.ObjFunction) (exitCode int, result InterpretResult, err error) {
	vm.init()

	// fn's only reference is this local until the closure wrapping it is
	// pushed, so anchor it across the closure's own allocation.
	vm.push(value.FromObj(fn))
	closure := vm.newClosure(fn)
	vm.pop()
	vm.push(value.FromObj(closure))
	if err := vm.callValue(value.FromObj(closure), 0); err != nil {
		vm.printRuntimeError(err)
		vm.resetStack()
		return 70, InterpretRuntimeError, err
	}

	exitVal, rerr := vm.run()
	if rerr != nil {
		vm.printRuntimeError(rerr)
		vm.resetStack()
		return 70, InterpretRuntimeError, rerr
	}
	return exitValueToCode(exitVal), InterpretOK, nil
}

// exitValueToCode maps the top-level RETURN value to a process exit code:
// nil -> 0, true -> 0, false -> nonzero, number -> truncated.
func exitValueToCode(v value.Value) int {
	switch {
	case v.IsNil():
		return 0
	case v.IsBool():
		if v.AsBool() {
			return 0
		}
		return 1
	case v.IsNumber():
		return int(v.AsNumber())
	default:
		return 0
	}
}

// --- value stack ---

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
}
