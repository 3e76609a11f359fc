package vm

import "github.com/loxvm/loxvm/lang/value"

// collectGarbage runs one stop-the-world tri-color mark-sweep cycle: mark
// every root, trace the gray worklist to black, sweep the intern table of
// anything left unmarked, then sweep the object list itself and grow the
// next collection threshold.
func (vm *VM) collectGarbage() {
	vm.markRoots()
	vm.traceReferences()
	value.RemoveWhite(&vm.strings)
	vm.sweep()

	vm.nextGC = vm.bytesAllocated * int64(vm.HeapGrowFactor)
	if vm.nextGC < 1<<20 {
		vm.nextGC = 1 << 20
	}
}

func (vm *VM) markRoots() {
	for i := 0; i < vm.stackTop; i++ {
		vm.markValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		vm.markObject(vm.frames[i].closure)
	}
	for u := vm.openUpvalues; u != nil; u = u.Next {
		vm.markObject(u)
	}
	vm.markTable(&vm.globals)
	if vm.initString != nil {
		vm.markObject(vm.initString)
	}
}

func (vm *VM) markValue(v value.Value) {
	if v.IsObj() {
		vm.markObject(v.AsObj())
	}
}

// markObject marks obj reachable and, unless it is a leaf type with no
// outgoing references (String, Native), pushes it onto the gray worklist
// to be blackened later. Strings and natives are darkened immediately.
func (vm *VM) markObject(obj value.Object) {
	if obj == nil || value.Marked(obj) {
		return
	}
	value.SetMarked(obj, true)

	switch obj.Type() {
	case value.TypeString, value.TypeNative:
		return
	default:
		vm.grayStack = append(vm.grayStack, obj)
	}
}

// markTable marks every entry's key and value.
func (vm *VM) markTable(t *value.Table) {
	t.Walk(func(k *value.ObjString, v value.Value) {
		vm.markObject(k)
		vm.markValue(v)
	})
}

func (vm *VM) traceReferences() {
	for len(vm.grayStack) > 0 {
		obj := vm.grayStack[len(vm.grayStack)-1]
		vm.grayStack = vm.grayStack[:len(vm.grayStack)-1]
		vm.blacken(obj)
	}
}

// blacken marks every object obj directly references.
func (vm *VM) blacken(obj value.Object) {
	switch o := obj.(type) {
	case *value.ObjFunction:
		if o.Name != nil {
			vm.markObject(o.Name)
		}
		for _, c := range o.Chunk.Constants {
			vm.markValue(c)
		}
	case *value.ObjClosure:
		vm.markObject(o.Function)
		for _, u := range o.Upvalues {
			// still nil mid-CLOSURE, while the captures are being filled in
			if u != nil {
				vm.markObject(u)
			}
		}
	case *value.ObjUpvalue:
		vm.markValue(o.Closed)
	case *value.ObjClass:
		vm.markObject(o.Name)
		vm.markTable(&o.Methods)
	case *value.ObjInstance:
		vm.markObject(o.Class)
		vm.markTable(&o.Fields)
	case *value.ObjBoundMethod:
		vm.markValue(o.Receiver)
		vm.markObject(o.Method)
	}
}

// sweep walks the intrusive all-objects list, freeing (by simply dropping
// the reference, since Go's own GC owns the actual memory) anything left
// unmarked and clearing the mark bit on survivors for the next cycle. Each
// freed object's recorded size is given back to the heap accounting.
func (vm *VM) sweep() {
	var prev value.Object
	obj := vm.objects
	for obj != nil {
		if value.Marked(obj) {
			value.SetMarked(obj, false)
			prev = obj
			obj = value.Next(obj)
			continue
		}
		vm.bytesAllocated -= value.Size(obj)
		obj = value.Next(obj)
		if prev == nil {
			vm.objects = obj
		} else {
			value.SetNext(prev, obj)
		}
	}
}
