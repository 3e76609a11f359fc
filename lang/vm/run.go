package vm

import (
	"fmt"

	"github.com/loxvm/loxvm/lang/opcode"
	"github.com/loxvm/loxvm/lang/value"
)

// run is the fetch-decode-execute loop: a plain switch on each opcode byte,
// no threaded or computed-goto dispatch.
func (vm *VM) run() (value.Value, error) {
	frame := &vm.frames[vm.frameCount-1]

	readByte := func() byte {
		b := frame.closure.Function.Chunk.Code[frame.ip]
		frame.ip++
		return b
	}
	readShort := func() int {
		hi := readByte()
		lo := readByte()
		return int(hi)<<8 | int(lo)
	}
	readConstant := func() value.Value {
		return frame.closure.Function.Chunk.Constants[readByte()]
	}
	readConstantLong := func() value.Value {
		a, b, c := readByte(), readByte(), readByte()
		idx := int(a) | int(b)<<8 | int(c)<<16
		return frame.closure.Function.Chunk.Constants[idx]
	}
	readString := func() *value.ObjString {
		return readConstant().AsObj().(*value.ObjString)
	}

	for {
		op := opcode.Code(readByte())
		switch op {
		case opcode.CONSTANT:
			vm.push(readConstant())
		case opcode.CONSTANT_LONG:
			vm.push(readConstantLong())
		case opcode.NIL:
			vm.push(value.Nil)
		case opcode.TRUE:
			vm.push(value.True)
		case opcode.FALSE:
			vm.push(value.False)
		case opcode.ZERO:
			vm.push(value.Number(0))
		case opcode.ONE:
			vm.push(value.Number(1))

		case opcode.POP:
			vm.pop()
		case opcode.POPN:
			n := readByte()
			vm.stackTop -= int(n)
		case opcode.PRINT:
			fmt.Fprintln(vm.Stdout, vm.pop().String())

		case opcode.GET_LOCAL:
			vm.push(vm.stack[frame.base+int(readByte())])
		case opcode.SET_LOCAL:
			vm.stack[frame.base+int(readByte())] = vm.peek(0)

		case opcode.GET_GLOBAL:
			name := readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return value.Nil, vm.runtimeErrorf("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)
		case opcode.SET_GLOBAL:
			name := readString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return value.Nil, vm.runtimeErrorf("Undefined variable '%s'.", name.Chars)
			}
		case opcode.DEFINE_GLOBAL:
			name := readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case opcode.GET_UPVALUE:
			vm.push(*frame.closure.Upvalues[readByte()].Location)
		case opcode.SET_UPVALUE:
			*frame.closure.Upvalues[readByte()].Location = vm.peek(0)

		case opcode.GET_PROPERTY:
			if !vm.peek(0).Is(value.TypeInstance) {
				return value.Nil, vm.runtimeErrorf("Only instances have properties.")
			}
			instance := vm.peek(0).AsObj().(*value.ObjInstance)
			name := readString()
			if v, ok := instance.Fields.Get(name); ok {
				vm.pop()
				vm.push(v)
				break
			}
			if err := vm.bindMethod(instance.Class, name); err != nil {
				return value.Nil, err
			}
		case opcode.SET_PROPERTY:
			if !vm.peek(1).Is(value.TypeInstance) {
				return value.Nil, vm.runtimeErrorf("Only instances have fields.")
			}
			instance := vm.peek(1).AsObj().(*value.ObjInstance)
			instance.Fields.Set(readString(), vm.peek(0))
			v := vm.pop()
			vm.pop()
			vm.push(v)

		case opcode.EQUAL:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case opcode.GREATER:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Bool(a > b) }); err != nil {
				return value.Nil, err
			}
		case opcode.LESS:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Bool(a < b) }); err != nil {
				return value.Nil, err
			}
		case opcode.NOT:
			vm.push(value.Bool(!vm.pop().Truth()))

		case opcode.ADD:
			if err := vm.add(); err != nil {
				return value.Nil, err
			}
		case opcode.SUBTRACT:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(a - b) }); err != nil {
				return value.Nil, err
			}
		case opcode.MULTIPLY:
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(a * b) }); err != nil {
				return value.Nil, err
			}
		case opcode.DIVIDE:
			if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
				return value.Nil, vm.runtimeErrorf("Operands must be numbers.")
			}
			if vm.peek(0).AsNumber() == 0 {
				return value.Nil, vm.runtimeErrorf("Divide by zero.")
			}
			if err := vm.numericBinary(func(a, b float64) value.Value { return value.Number(a / b) }); err != nil {
				return value.Nil, err
			}
		case opcode.NEGATE:
			if !vm.peek(0).IsNumber() {
				return value.Nil, vm.runtimeErrorf("Operand must be a number.")
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case opcode.JUMP:
			offset := readShort()
			frame.ip += offset
		case opcode.JUMP_IF_FALSE:
			offset := readShort()
			if !vm.peek(0).Truth() {
				frame.ip += offset
			}
		case opcode.LOOP:
			offset := readShort()
			frame.ip -= offset

		case opcode.CALL:
			argCount := int(readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return value.Nil, err
			}
			frame = &vm.frames[vm.frameCount-1]

		case opcode.CLOSURE:
			fn := readConstant().AsObj().(*value.ObjFunction)
			closure := vm.newClosure(fn)
			vm.push(value.FromObj(closure))
			for i := range closure.Upvalues {
				isLocal := readByte()
				index := readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(&vm.stack[frame.base+int(index)])
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
		case opcode.CLOSE_UPVALUE:
			vm.closeUpvalues(&vm.stack[vm.stackTop-1])
			vm.pop()

		case opcode.RETURN:
			result := vm.pop()
			if vm.frameCount == 1 {
				if !result.IsNil() && !result.IsBool() && !result.IsNumber() {
					return value.Nil, vm.runtimeErrorf("Invalid top-level return value of type %s.", result.TypeName())
				}
			}
			vm.closeUpvalues(&vm.stack[frame.base])
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.stackTop = frame.base // the outermost script closure itself, and any locals left above it
				return result, nil
			}
			vm.stackTop = frame.base
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		case opcode.CLASS:
			vm.push(value.FromObj(vm.newClass(readString())))
		case opcode.METHOD:
			vm.defineMethod(readString())

		default:
			return value.Nil, vm.runtimeErrorf("Unknown opcode %d.", byte(op))
		}
	}
}

func (vm *VM) numericBinary(fn func(a, b float64) value.Value) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(fn(a, b))
	return nil
}

// add implements ADD's polymorphism: number+number or interned
// string+string concatenation; any other mix of operands is a runtime
// error.
func (vm *VM) add() error {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case a.IsNumber() && b.IsNumber():
		bn, an := vm.pop().AsNumber(), vm.pop().AsNumber()
		vm.push(value.Number(an + bn))
	case a.Is(value.TypeString) && b.Is(value.TypeString):
		// keep both operands on the stack across the interning allocation
		as := a.AsObj().(*value.ObjString)
		bs := b.AsObj().(*value.ObjString)
		result := vm.InternString(as.Chars + bs.Chars)
		vm.pop()
		vm.pop()
		vm.push(value.FromObj(result))
	default:
		return vm.runtimeErrorf("Operands must be two numbers or two strings.")
	}
	return nil
}

// defineMethod takes [class, closure] off the top of the stack and
// installs the closure under name in the class's method table, leaving
// the class on the stack.
func (vm *VM) defineMethod(name *value.ObjString) {
	method := vm.peek(0)
	class := vm.peek(1).AsObj().(*value.ObjClass)
	class.Methods.Set(name, method)
	vm.pop()
}
