package vm

import (
	"github.com/loxvm/loxvm/lang/compiler"
	"github.com/loxvm/loxvm/lang/value"
)

// compileSource runs the compiler against vm as its Allocator, so every
// string interned or function allocated during compilation is tracked by
// the same heap the running program will later share.
func compileSource(source string, vm *VM) (*value.ObjFunction, error) {
	vm.init()
	return compiler.Compile(source, vm)
}
