package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxvm/loxvm/lang/opcode"
	"github.com/loxvm/loxvm/lang/value"
)

func TestChunkWriteConstant(t *testing.T) {
	var chunk value.Chunk
	for i := 0; i < 255; i++ {
		chunk.AddConstant(value.Number(float64(i)))
	}

	before := len(chunk.Code)
	chunk.WriteConstant(value.Number(255), 1) // index 255: still fits in the short form
	assert.Equal(t, byte(opcode.CONSTANT), chunk.Code[before])
	assert.Equal(t, byte(255), chunk.Code[before+1])
	assert.Len(t, chunk.Code, before+2)

	before = len(chunk.Code)
	chunk.WriteConstant(value.Number(256), 1) // index 256: must use the long form
	assert.Equal(t, byte(opcode.CONSTANT_LONG), chunk.Code[before])
	assert.Len(t, chunk.Code, before+4)

	assert.Equal(t, value.Number(256), chunk.Constants[256])
}

func TestChunkPatchJumpBoundary(t *testing.T) {
	var chunk value.Chunk
	chunk.Write(byte(opcode.JUMP), 1)
	offset := len(chunk.Code)
	chunk.Write(0xff, 1)
	chunk.Write(0xff, 1)

	// Pad the chunk out so the jump distance lands exactly on the 16-bit
	// boundary: 65,535 must succeed.
	for len(chunk.Code)-offset-2 < 0xFFFF {
		chunk.Write(byte(opcode.NIL), 1)
	}
	require.NoError(t, chunk.PatchJump(offset))

	chunk.Write(byte(opcode.NIL), 1) // one more byte pushes the distance to 65,536
	assert.Error(t, chunk.PatchJump(offset))
}
