package value

import (
	"fmt"
	"io"

	"github.com/loxvm/loxvm/lang/opcode"
)

// Disassemble writes a human-readable listing of chunk to w, labeled name.
// It is a developer aid only, not exercised by any VM code path.
func Disassemble(w io.Writer, chunk *Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = DisassembleInstruction(w, chunk, offset)
	}
}

// DisassembleInstruction writes the single instruction at offset to w and
// returns the offset of the instruction that follows it.
func DisassembleInstruction(w io.Writer, chunk *Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", chunk.Lines[offset])
	}

	op := opcode.Code(chunk.Code[offset])
	switch op {
	case opcode.CONSTANT, opcode.GET_GLOBAL, opcode.SET_GLOBAL, opcode.DEFINE_GLOBAL,
		opcode.GET_PROPERTY, opcode.SET_PROPERTY, opcode.CLASS, opcode.METHOD:
		return constantInstruction(w, op, chunk, offset)
	case opcode.CONSTANT_LONG:
		return constantLongInstruction(w, op, chunk, offset)
	case opcode.GET_LOCAL, opcode.SET_LOCAL, opcode.GET_UPVALUE, opcode.SET_UPVALUE, opcode.CALL, opcode.POPN:
		return byteInstruction(w, op, chunk, offset)
	case opcode.JUMP, opcode.JUMP_IF_FALSE, opcode.LOOP:
		return jumpInstruction(w, op, chunk, offset)
	case opcode.CLOSURE:
		return closureInstruction(w, chunk, offset)
	default:
		return simpleInstruction(w, op, offset)
	}
}

func simpleInstruction(w io.Writer, op opcode.Code, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func byteInstruction(w io.Writer, op opcode.Code, chunk *Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

func constantInstruction(w io.Writer, op opcode.Code, chunk *Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, chunk.Constants[idx])
	return offset + 2
}

func constantLongInstruction(w io.Writer, op opcode.Code, chunk *Chunk, offset int) int {
	lo, mid, hi := chunk.Code[offset+1], chunk.Code[offset+2], chunk.Code[offset+3]
	idx := int(lo) | int(mid)<<8 | int(hi)<<16
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, chunk.Constants[idx])
	return offset + 4
}

func jumpInstruction(w io.Writer, op opcode.Code, chunk *Chunk, offset int) int {
	hi, lo := chunk.Code[offset+1], chunk.Code[offset+2]
	jump := int(hi)<<8 | int(lo)
	sign := 1
	if op == opcode.LOOP {
		sign = -1
	}
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, offset+3+sign*jump)
	return offset + 3
}

func closureInstruction(w io.Writer, chunk *Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", opcode.CLOSURE, idx, chunk.Constants[idx])
	offset += 2

	fn, ok := chunk.Constants[idx].obj.(*ObjFunction)
	if !ok {
		return offset
	}
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[offset]
		index := chunk.Code[offset+1]
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", offset, kind, index)
		offset += 2
	}
	return offset
}
