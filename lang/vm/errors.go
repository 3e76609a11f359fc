package vm

import "fmt"

// printRuntimeError writes err's message followed by a stack trace,
// frame by frame from the point of failure outward: "[line L] in NAME()"
// or "in script" for each frame.
func (vm *VM) printRuntimeError(err error) {
	fmt.Fprintln(vm.Stderr, err)

	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		line := 0
		if frame.ip-1 >= 0 && frame.ip-1 < len(fn.Chunk.Lines) {
			line = fn.Chunk.Lines[frame.ip-1]
		}
		if fn.Name == nil {
			fmt.Fprintf(vm.Stderr, "[line %d] in script\n", line)
		} else {
			fmt.Fprintf(vm.Stderr, "[line %d] in %s()\n", line, fn.Name.Chars)
		}
	}
}
