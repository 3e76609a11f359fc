// Package compiler implements the single-pass Pratt compiler: it consumes
// the token.Token stream produced by lang/scanner and emits bytecode
// directly into a lang/value.Chunk, with no intermediate AST.
package compiler

import (
	"fmt"

	"github.com/loxvm/loxvm/lang/opcode"
	"github.com/loxvm/loxvm/lang/scanner"
	"github.com/loxvm/loxvm/lang/token"
	"github.com/loxvm/loxvm/lang/value"
)

const maxLocals = 256
const maxConstants = 256

// FuncType says which kind of function body a Compiler is assembling,
// since a script's implicit top-level function, a plain function and a
// method all reserve stack slot 0 slightly differently.
type FuncType int

const (
	TypeScript FuncType = iota
	TypeFunction
	TypeMethod
	TypeInitializer
)

// local is a variable declared in some lexical scope of the function
// currently being compiled. depth is -1 while its initializer is still
// being compiled, so that `var a = a;` resolves "a" to an enclosing scope
// instead of itself.
type local struct {
	name       string
	depth      int
	isCaptured bool
}

// upvalueRef records, for one Compiler, how to reach a variable captured
// from an enclosing function: either directly from that function's own
// locals (isLocal) or by forwarding one of its own upvalues.
type upvalueRef struct {
	index   uint8
	isLocal bool
}

// classState tracks the class whose body is currently being compiled, so
// that a `this` reference inside a method resolves correctly. Chained
// through enclosing the way Compiler is, since method bodies are
// themselves nested Compilers.
type classState struct {
	enclosing *classState
}

// Compiler holds the state for one function body being compiled: the
// ObjFunction under construction, its declared locals and captured
// upvalues, and the lexical scope depth. Compilers link through enclosing
// to mirror the nesting of function declarations, since a closure's
// upvalue resolution walks outward through exactly this chain.
type Compiler struct {
	enclosing *Compiler
	function  *value.ObjFunction
	funcType  FuncType

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
}

// loopState tracks the innermost loop being compiled, so that `break` knows
// where to patch its forward jump once the loop's end is known. scopeDepth
// is the scope depth in effect when the loop body starts, so `break` can
// tell which locals on p.cur.locals were declared inside the body (and so
// need unwinding on the break path) from those declared by an enclosing
// for-loop clause (which the loop's own endScope already unwinds).
type loopState struct {
	enclosing  *loopState
	scopeDepth int
	breakJumps []int
}

// parser is the compiler's process state: the token stream, error
// accumulation, the chain of Compilers (one per nested function), the
// innermost class and loop, and the Allocator used for any value that must
// be allocated on the heap while compiling (interned strings, nested
// ObjFunctions).
type parser struct {
	scanner scanner.Scanner
	alloc   value.Allocator

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool
	errors    CompileErrors

	cur   *Compiler
	class *classState
	loop  *loopState
}

// Compile compiles source into a top-level ObjFunction (the implicit
// script function run by the outermost frame), or returns the
// CompileErrors accumulated across the whole source file.
func Compile(source string, alloc value.Allocator) (*value.ObjFunction, error) {
	p := &parser{alloc: alloc}
	p.scanner.Init(source)

	p.cur = p.newCompiler(nil, TypeScript)

	p.advance()
	for !p.match(token.EOF) {
		p.declaration()
	}
	fn := p.endCompiler()

	if p.hadError {
		return nil, p.errors
	}
	return fn, nil
}

func (p *parser) newCompiler(enclosing *Compiler, ft FuncType) *Compiler {
	c := &Compiler{
		enclosing: enclosing,
		function:  p.alloc.NewFunction(),
		funcType:  ft,
	}
	// The function under construction is reachable only through the
	// Compiler chain, which the collector cannot see. Anchoring it on the
	// VM stack for the whole of its compilation keeps it — and everything
	// in its constant pool — rooted across any allocation the compile
	// performs; endCompiler pops the anchor.
	p.alloc.Push(value.FromObj(c.function))
	// Slot 0 of every call frame is reserved: the function/closure itself
	// for a plain function or the top-level script, "this" for a method.
	slotName := ""
	if ft == TypeMethod || ft == TypeInitializer {
		slotName = "this"
	}
	c.locals = append(c.locals, local{name: slotName, depth: 0})
	return c
}

func (p *parser) currentChunk() *value.Chunk { return &p.cur.function.Chunk }

// --- token stream plumbing ---

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.scanner.Scan()
		if p.current.Kind != token.ERROR {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *parser) check(k token.Kind) bool { return p.current.Kind == k }

func (p *parser) match(k token.Kind) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(k token.Kind, message string) {
	if p.current.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

// --- error reporting ---

func (p *parser) errorAtCurrent(message string) { p.errorAt(p.current, message) }
func (p *parser) error(message string)          { p.errorAt(p.previous, message) }

func (p *parser) errorAt(t token.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	where := ""
	switch t.Kind {
	case token.EOF:
		where = "at end"
	case token.ERROR:
		// the lexeme already is the message
	default:
		where = fmt.Sprintf("at '%s'", t.Lexeme)
	}
	p.errors = append(p.errors, &CompileError{Line: t.Line, Where: where, Message: message})
}

func (p *parser) synchronize() {
	p.panicMode = false
	for p.current.Kind != token.EOF {
		if p.previous.Kind == token.SEMI {
			return
		}
		switch p.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// --- bytecode emission ---

func (p *parser) emitByte(b byte)                   { p.currentChunk().Write(b, p.previous.Line) }
func (p *parser) emitOp(op opcode.Code)             { p.emitByte(byte(op)) }
func (p *parser) emitBytes(a, b byte)               { p.emitByte(a); p.emitByte(b) }
func (p *parser) emitOpByte(op opcode.Code, b byte) { p.emitBytes(byte(op), b) }

func (p *parser) emitConstantIndex(v value.Value) int {
	return p.currentChunk().AddConstant(v)
}

// emitConstant emits a load of a literal value, anchoring it on the VM
// stack via the Allocator before the constant-pool append in case adding it
// triggers an allocation of its own.
func (p *parser) emitConstant(v value.Value) {
	if v.IsObj() {
		p.alloc.Push(v)
		defer p.alloc.Pop()
	}
	p.currentChunk().WriteConstant(v, p.previous.Line)
}

// identifierConstant interns name and stores it in the constant pool,
// returning its index for use as a GET_GLOBAL/SET_GLOBAL/GET_PROPERTY/...
// operand. Those opcodes only carry a 1-byte index (see DESIGN.md for why
// named constants are capped at 256 per chunk instead of growing a long
// form for every one of them), so an overflow here is reported as a
// compile error rather than silently wrapping.
func (p *parser) identifierConstant(name string) byte {
	str := p.alloc.InternString(name)
	p.alloc.Push(value.FromObj(str))
	defer p.alloc.Pop()
	idx := p.emitConstantIndex(value.FromObj(str))
	if idx >= maxConstants {
		p.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *parser) emitJump(op opcode.Code) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return len(p.currentChunk().Code) - 2
}

func (p *parser) patchJump(offset int) {
	if err := p.currentChunk().PatchJump(offset); err != nil {
		p.error(err.Error())
	}
}

func (p *parser) emitLoop(loopStart int) {
	p.emitOp(opcode.LOOP)
	offset := len(p.currentChunk().Code) - loopStart + 2
	if offset > 0xFFFF {
		p.error("Loop body too large.")
	}
	p.emitByte(byte(offset>>8) & 0xFF)
	p.emitByte(byte(offset) & 0xFF)
}

func (p *parser) emitReturn() {
	if p.cur.funcType == TypeInitializer {
		// `return;` inside init() yields the instance (slot 0), not nil.
		p.emitOpByte(opcode.GET_LOCAL, 0)
	} else {
		p.emitOp(opcode.NIL)
	}
	p.emitOp(opcode.RETURN)
}

func (p *parser) endCompiler() *value.ObjFunction {
	p.emitReturn()
	fn := p.cur.function
	p.cur = p.cur.enclosing
	p.alloc.Pop() // the anchor pushed by newCompiler
	return fn
}
