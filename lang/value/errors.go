package value

import "errors"

// errJumpTooLarge is returned by Chunk.PatchJump when a forward jump would
// need an offset wider than the 16-bit operand the JUMP/JUMP_IF_FALSE
// instructions encode.
var errJumpTooLarge = errors.New("too much code to jump over")
