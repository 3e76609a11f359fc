package vm

import "github.com/loxvm/loxvm/lang/value"

// defineNatives installs the standard library, which is exactly one
// function: clock.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", func(args []value.Value) (value.Value, error) {
		return value.Number(float64(vm.Clock().UnixNano()) / 1e9), nil
	})
}

func (vm *VM) defineNative(name string, fn value.NativeFn) {
	// Anchor both the name and the native value across the two
	// allocations/table-inserts below, so a collection triggered midway
	// sees them as roots.
	nameStr := vm.InternString(name)
	vm.push(value.FromObj(nameStr))
	native := vm.newNative(name, fn)
	vm.push(value.FromObj(native))

	vm.globals.Set(nameStr, value.FromObj(native))

	vm.pop()
	vm.pop()
}
