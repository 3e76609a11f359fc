package vm

import (
	"fmt"

	"github.com/loxvm/loxvm/lang/value"
)

// callValue dispatches a CALL instruction's callee, which may be a
// closure, a native function, a class (instantiation), or a bound method.
// Any other kind of value is a runtime error.
func (vm *VM) callValue(callee value.Value, argCount int) error {
	if !callee.IsObj() {
		return vm.runtimeErrorf("Can only call functions and classes.")
	}
	switch callee.AsObj().Type() {
	case value.TypeClosure:
		return vm.call(callee.AsObj().(*value.ObjClosure), argCount)
	case value.TypeNative:
		return vm.callNative(callee.AsObj().(*value.ObjNative), argCount)
	case value.TypeClass:
		return vm.instantiate(callee.AsObj().(*value.ObjClass), argCount)
	case value.TypeBoundMethod:
		bound := callee.AsObj().(*value.ObjBoundMethod)
		vm.stack[vm.stackTop-argCount-1] = bound.Receiver
		return vm.call(bound.Method, argCount)
	default:
		return vm.runtimeErrorf("Can only call functions and classes.")
	}
}

// call pushes a new CallFrame for closure, after checking arity and the
// call-stack depth limit.
func (vm *VM) call(closure *value.ObjClosure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeErrorf("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if vm.frameCount >= vm.MaxFrames {
		return vm.runtimeErrorf("Stack overflow.")
	}
	vm.frames[vm.frameCount] = CallFrame{
		closure: closure,
		ip:      0,
		base:    vm.stackTop - argCount - 1,
	}
	vm.frameCount++
	return nil
}

func (vm *VM) callNative(native *value.ObjNative, argCount int) error {
	args := vm.stack[vm.stackTop-argCount : vm.stackTop]
	result, err := native.Fn(args)
	if err != nil {
		return vm.runtimeErrorf("%s", err.Error())
	}
	vm.stackTop -= argCount + 1
	vm.push(result)
	return nil
}

// instantiate handles calling a class value directly: it allocates a new
// instance and, if the class declares an "init" method, runs it with the
// call's arguments.
func (vm *VM) instantiate(class *value.ObjClass, argCount int) error {
	instance := vm.newInstance(class)
	vm.stack[vm.stackTop-argCount-1] = value.FromObj(instance)

	if init, ok := class.Methods.Get(vm.initString); ok {
		return vm.call(init.AsObj().(*value.ObjClosure), argCount)
	}
	if argCount != 0 {
		return vm.runtimeErrorf("Expected 0 arguments but got %d.", argCount)
	}
	return nil
}

// bindMethod looks up name on class's method table and, if found, wraps it
// with receiver as a bound method, replacing the top of stack (the
// instance) with the bound method.
func (vm *VM) bindMethod(class *value.ObjClass, name *value.ObjString) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'.", name.Chars)
	}
	bound := vm.newBoundMethod(vm.peek(0), method.AsObj().(*value.ObjClosure))
	vm.pop()
	vm.push(value.FromObj(bound))
	return nil
}

func (vm *VM) runtimeErrorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
