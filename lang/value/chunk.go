package value

import "github.com/loxvm/loxvm/lang/opcode"

// Chunk is a compiled function's bytecode: a growable byte buffer of
// instructions, one source line per instruction byte (wasteful but
// adequate), and an indexed constant pool. Chunk lives in this package
// rather than its own, because the constant pool it indexes is a []Value
// and ObjFunction holds a Chunk by value — keeping them apart would only
// buy a package boundary neither type can be used without crossing.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []Value
}

// Write appends a single instruction byte, emitted while compiling source
// line.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// AddConstant appends v to the constant pool and returns its index. The
// append itself cannot trigger a collection (only allocations made through
// the VM do), but callers still anchor v on the VM stack first if it was
// only reachable via a local variable, since their surrounding code path
// usually allocates again before v is rooted anywhere else.
func (c *Chunk) AddConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// WriteConstant emits a load of v, choosing the 1-byte CONSTANT form if the
// resulting constant-pool index fits in a byte, or the 3-byte
// CONSTANT_LONG form otherwise.
func (c *Chunk) WriteConstant(v Value, line int) {
	idx := c.AddConstant(v)
	if idx < 256 {
		c.Write(byte(opcode.CONSTANT), line)
		c.Write(byte(idx), line)
		return
	}
	c.Write(byte(opcode.CONSTANT_LONG), line)
	c.Write(byte(idx), line)
	c.Write(byte(idx>>8), line)
	c.Write(byte(idx>>16), line)
}

// PatchJump back-patches the 2-byte operand of the JUMP/JUMP_IF_FALSE
// instruction whose operand starts at offset, so that it jumps to the
// current end of the chunk. It reports an error if the resulting offset
// does not fit in 16 bits.
func (c *Chunk) PatchJump(offset int) error {
	jump := len(c.Code) - offset - 2
	if jump > 0xFFFF {
		return errJumpTooLarge
	}
	c.Code[offset] = byte(jump>>8) & 0xFF
	c.Code[offset+1] = byte(jump) & 0xFF
	return nil
}
