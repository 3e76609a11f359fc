// Package opcode defines the bytecode instruction set shared by the
// compiler (which emits it) and the virtual machine (which decodes and
// executes it), following the naming and "stack picture" documentation
// convention used throughout this codebase's instruction tables.
package opcode

import "fmt"

// Code is a single bytecode instruction. One byte per opcode; any operands
// follow inline in the Chunk's code stream.
type Code uint8

// "x OP x x" is a stack picture: the left side is the operand-stack state
// before the instruction runs, the right side after. <k>/<s> suffixes below
// name an inline operand: k indexes the constant pool, s a stack slot (for
// GET_UPVALUE/SET_UPVALUE, an index into the current closure's upvalues).
const ( //nolint:revive
	// Constants and literals
	CONSTANT      Code = iota // - CONSTANT<k>         value      (1-byte index)
	CONSTANT_LONG             // - CONSTANT_LONG<k>    value      (3-byte index)
	NIL                       // - NIL                 nil
	TRUE                      // - TRUE                true
	FALSE                     // - FALSE               false
	ZERO                      // - ZERO                0            (fast literal)
	ONE                       // - ONE                 1            (fast literal)

	// Stack and I/O
	POP   //  x POP       -
	POPN  //  x1..xn POPN<n> -        (1-byte inline count)
	PRINT //  x PRINT     -           (writes textual form + newline to stdout)

	// Variables
	GET_LOCAL         //          - GET_LOCAL<s>          value
	SET_LOCAL         //      value SET_LOCAL<s>          value
	GET_GLOBAL        //          - GET_GLOBAL<k>         value
	SET_GLOBAL        //      value SET_GLOBAL<k>         value
	DEFINE_GLOBAL     //      value DEFINE_GLOBAL<k>      -
	GET_UPVALUE       //          - GET_UPVALUE<s>        value
	SET_UPVALUE       //      value SET_UPVALUE<s>        value

	// Properties
	GET_PROPERTY //          x GET_PROPERTY<k>      value
	SET_PROPERTY //        x y SET_PROPERTY<k>      y

	// Equality and ordering
	EQUAL
	GREATER
	LESS
	NOT

	// Arithmetic
	ADD
	SUBTRACT
	MULTIPLY
	DIVIDE
	NEGATE

	// Control flow
	JUMP          //       - JUMP<off16>          -
	JUMP_IF_FALSE //    cond JUMP_IF_FALSE<off16> cond      (does not pop)
	LOOP          //       - LOOP<off16>          -          (subtracts)

	// Calls and closures
	CALL          // fn arg1..argn CALL<n>                  result
	CLOSURE       //             - CLOSURE<k>[(isLocal,index)]*n  closure
	CLOSE_UPVALUE //             x CLOSE_UPVALUE              -
	RETURN        //         value RETURN                    -

	// Classes
	CLASS  //   - CLASS<k>   class
	METHOD // class closure METHOD<k> class

	maxCode
)

var names = [...]string{
	CONSTANT:      "CONSTANT",
	CONSTANT_LONG: "CONSTANT_LONG",
	NIL:           "NIL",
	TRUE:          "TRUE",
	FALSE:         "FALSE",
	ZERO:          "ZERO",
	ONE:           "ONE",
	POP:           "POP",
	POPN:          "POPN",
	PRINT:         "PRINT",
	GET_LOCAL:     "GET_LOCAL",
	SET_LOCAL:     "SET_LOCAL",
	GET_GLOBAL:    "GET_GLOBAL",
	SET_GLOBAL:    "SET_GLOBAL",
	DEFINE_GLOBAL: "DEFINE_GLOBAL",
	GET_UPVALUE:   "GET_UPVALUE",
	SET_UPVALUE:   "SET_UPVALUE",
	GET_PROPERTY:  "GET_PROPERTY",
	SET_PROPERTY:  "SET_PROPERTY",
	EQUAL:         "EQUAL",
	GREATER:       "GREATER",
	LESS:          "LESS",
	NOT:           "NOT",
	ADD:           "ADD",
	SUBTRACT:      "SUBTRACT",
	MULTIPLY:      "MULTIPLY",
	DIVIDE:        "DIVIDE",
	NEGATE:        "NEGATE",
	JUMP:          "JUMP",
	JUMP_IF_FALSE: "JUMP_IF_FALSE",
	LOOP:          "LOOP",
	CALL:          "CALL",
	CLOSURE:       "CLOSURE",
	CLOSE_UPVALUE: "CLOSE_UPVALUE",
	RETURN:        "RETURN",
	CLASS:         "CLASS",
	METHOD:        "METHOD",
}

func (c Code) String() string {
	if c < maxCode {
		if s := names[c]; s != "" {
			return s
		}
	}
	return fmt.Sprintf("illegal opcode (%d)", c)
}
