package value_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxvm/loxvm/lang/opcode"
	"github.com/loxvm/loxvm/lang/value"
)

func TestDisassemble(t *testing.T) {
	var chunk value.Chunk
	idx := chunk.AddConstant(value.Number(1.2))
	chunk.Write(byte(opcode.CONSTANT), 123)
	chunk.Write(byte(idx), 123)
	chunk.Write(byte(opcode.RETURN), 123)

	var buf strings.Builder
	value.Disassemble(&buf, &chunk, "test chunk")

	out := buf.String()
	assert.Contains(t, out, "== test chunk ==")
	assert.Contains(t, out, "CONSTANT")
	assert.Contains(t, out, "1.2")
	assert.Contains(t, out, "RETURN")
}
