package vm

import "github.com/loxvm/loxvm/lang/value"

// captureUpvalue returns the open upvalue for the stack slot at local,
// reusing an existing one if the sorted open-upvalue list already has an
// entry for that exact slot, so two closures capturing the same local
// share one upvalue.
func (vm *VM) captureUpvalue(local *value.Value) *value.ObjUpvalue {
	localIdx := vm.slotIndex(local)

	var prev *value.ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && vm.slotIndex(cur.Location) >= localIdx {
		if cur.Location == local {
			return cur
		}
		prev = cur
		cur = cur.Next
	}

	created := vm.newUpvalue(local)
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// slotIndex finds slot's position in the value stack by a linear walk,
// since Go slices don't expose the pointer arithmetic a raw stack array
// would. Open upvalues are kept in a linked list ordered by this index,
// closest to the top of stack first.
func (vm *VM) slotIndex(slot *value.Value) int {
	for i := range vm.stack {
		if &vm.stack[i] == slot {
			return i
		}
	}
	return -1
}

// closeUpvalues hoists every open upvalue pointing at a stack slot at or
// above last to the heap, detaching it from the stack before that region
// is popped or reused by a returning frame.
func (vm *VM) closeUpvalues(last *value.Value) {
	lastIdx := vm.slotIndex(last)
	for vm.openUpvalues != nil && vm.slotIndex(vm.openUpvalues.Location) >= lastIdx {
		u := vm.openUpvalues
		u.Close()
		vm.openUpvalues = u.Next
	}
}
