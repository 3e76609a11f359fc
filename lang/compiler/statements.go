package compiler

import (
	"github.com/loxvm/loxvm/lang/opcode"
	"github.com/loxvm/loxvm/lang/token"
	"github.com/loxvm/loxvm/lang/value"
)

func (p *parser) declaration() {
	switch {
	case p.match(token.VAR):
		p.varDeclaration()
	case p.match(token.FUN):
		p.funDeclaration()
	case p.match(token.CLASS):
		p.classDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) varDeclaration() {
	global := p.parseVariable("Expected variable name.")

	if p.match(token.EQ) {
		p.expression()
	} else {
		p.emitOp(opcode.NIL)
	}
	p.consume(token.SEMI, "Expected ';' after variable declaration.")
	p.defineVariable(global)
}

// parseVariable consumes an identifier token and declares it, returning
// the constant-pool index to use with DEFINE_GLOBAL if it turns out to be
// a global (the return value is meaningless, by convention 0, for a
// local).
func (p *parser) parseVariable(message string) byte {
	p.consume(token.IDENTIFIER, message)
	name := p.previous.Lexeme

	p.declareVariable(name)
	if p.cur.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(name)
}

func (p *parser) defineVariable(global byte) {
	if p.cur.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOpByte(opcode.DEFINE_GLOBAL, global)
}

func (p *parser) funDeclaration() {
	global := p.parseVariable("Expected function name.")
	p.markInitialized()
	p.function(TypeFunction)
	p.defineVariable(global)
}

// function compiles one function body (shared by plain function
// declarations and methods): a new Compiler is pushed, parameters become
// its first locals, the body is compiled as a block, and the finished
// ObjFunction is turned into a closure at the enclosing Compiler's call
// site via CLOSURE plus one (isLocal, index) pair per upvalue.
func (p *parser) function(ft FuncType) {
	enclosing := p.cur
	p.cur = p.newCompiler(enclosing, ft)
	p.cur.function.Name = p.alloc.InternString(p.previous.Lexeme)

	p.beginScope()
	p.consume(token.LPAREN, "Expected '(' after function name.")
	if !p.check(token.RPAREN) {
		for {
			p.cur.function.Arity++
			if p.cur.function.Arity > 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramConst := p.parseVariable("Expected parameter name.")
			p.defineVariable(paramConst)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expected ')' after parameters.")
	p.consume(token.LBRACE, "Expected '{' before function body.")
	p.block()

	callee := p.cur
	fn := p.endCompiler()
	p.emitClosure(fn, callee.upvalues)
}

func (p *parser) emitClosure(fn *value.ObjFunction, ups []upvalueRef) {
	p.alloc.Push(value.FromObj(fn))
	idx := p.emitConstantIndex(value.FromObj(fn))
	p.alloc.Pop()
	if idx >= maxConstants {
		p.error("Too many constants in one chunk.")
		return
	}

	p.emitOpByte(opcode.CLOSURE, byte(idx))
	for _, u := range ups {
		isLocal := byte(0)
		if u.isLocal {
			isLocal = 1
		}
		p.emitByte(isLocal)
		p.emitByte(u.index)
	}
}

func (p *parser) classDeclaration() {
	p.consume(token.IDENTIFIER, "Expected class name.")
	className := p.previous.Lexeme
	nameConst := p.identifierConstant(className)
	p.declareVariable(className)

	p.emitOpByte(opcode.CLASS, nameConst)
	p.defineVariable(nameConst)

	p.class = &classState{enclosing: p.class}
	defer func() { p.class = p.class.enclosing }()

	p.namedVariable(className, false) // re-push the class for METHOD/POP below
	p.consume(token.LBRACE, "Expected '{' before class body.")
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.method()
	}
	p.consume(token.RBRACE, "Expected '}' after class body.")
	p.emitOp(opcode.POP)
}

func (p *parser) method() {
	p.consume(token.IDENTIFIER, "Expected method name.")
	name := p.previous.Lexeme
	nameConst := p.identifierConstant(name)

	ft := TypeMethod
	if name == "init" {
		ft = TypeInitializer
	}
	p.function(ft)
	p.emitOpByte(opcode.METHOD, nameConst)
}

func (p *parser) statement() {
	switch {
	case p.match(token.PRINT):
		p.printStatement()
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.FOR):
		p.forStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.BREAK):
		p.breakStatement()
	case p.match(token.LBRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *parser) block() {
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RBRACE, "Expected '}' after block.")
}

func (p *parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMI, "Expected ';' after expression.")
	p.emitOp(opcode.POP)
}

func (p *parser) printStatement() {
	p.expression()
	p.consume(token.SEMI, "Expected ';' after value.")
	p.emitOp(opcode.PRINT)
}

func (p *parser) ifStatement() {
	p.consume(token.LPAREN, "Expected '(' after 'if'.")
	p.expression()
	p.consume(token.RPAREN, "Expected ')' after condition.")

	thenJump := p.emitJump(opcode.JUMP_IF_FALSE)
	p.emitOp(opcode.POP)
	p.statement()

	elseJump := p.emitJump(opcode.JUMP)
	p.patchJump(thenJump)
	p.emitOp(opcode.POP)

	if p.match(token.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *parser) whileStatement() {
	loopStart := len(p.currentChunk().Code)

	p.consume(token.LPAREN, "Expected '(' after 'while'.")
	p.expression()
	p.consume(token.RPAREN, "Expected ')' after condition.")

	exitJump := p.emitJump(opcode.JUMP_IF_FALSE)
	p.emitOp(opcode.POP)

	p.loop = &loopState{enclosing: p.loop, scopeDepth: p.cur.scopeDepth}
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(opcode.POP)
	p.patchLoopBreaks()
}

// forStatement desugars `for (init; cond; inc) body` into the while-loop
// shape the single-pass compiler can emit without backpatching the
// increment's position relative to the body: the increment is compiled
// right after the condition, jumped over to reach the body, and the body
// loops back into the increment instead of the condition.
func (p *parser) forStatement() {
	p.beginScope()
	p.consume(token.LPAREN, "Expected '(' after 'for'.")

	switch {
	case p.match(token.SEMI):
		// no initializer
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.currentChunk().Code)
	exitJump := -1
	if !p.match(token.SEMI) {
		p.expression()
		p.consume(token.SEMI, "Expected ';' after loop condition.")
		exitJump = p.emitJump(opcode.JUMP_IF_FALSE)
		p.emitOp(opcode.POP)
	}

	if !p.check(token.RPAREN) {
		bodyJump := p.emitJump(opcode.JUMP)
		incrementStart := len(p.currentChunk().Code)
		p.expression()
		p.emitOp(opcode.POP)
		p.consume(token.RPAREN, "Expected ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	} else {
		p.consume(token.RPAREN, "Expected ')' after for clauses.")
	}

	p.loop = &loopState{enclosing: p.loop, scopeDepth: p.cur.scopeDepth}
	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(opcode.POP)
	}
	p.patchLoopBreaks()
	p.endScope()
}

// breakStatement jumps out of the innermost loop. Before the jump it emits
// the same POP/POPN/CLOSE_UPVALUE unwind endScope would emit for every
// local declared since the loop body started, since the jump skips
// whatever endScope calls would otherwise reach on the way out — but
// p.cur.locals itself is left untouched, since the scope is still open
// for the code compiled after this break on the non-break path.
func (p *parser) breakStatement() {
	if p.loop == nil {
		p.error("Can't use 'break' outside of a loop.")
		p.consume(token.SEMI, "Expected ';' after 'break'.")
		return
	}
	p.consume(token.SEMI, "Expected ';' after 'break'.")
	p.emitDiscardLocalsAbove(p.loop.scopeDepth)
	jump := p.emitJump(opcode.JUMP)
	p.loop.breakJumps = append(p.loop.breakJumps, jump)
}

// emitDiscardLocalsAbove emits the unwind for every local in the current
// Compiler deeper than depth, coalescing runs of plain pops into POPN the
// way endScope does, without removing them from p.cur.locals.
func (p *parser) emitDiscardLocalsAbove(depth int) {
	c := p.cur
	run := 0
	flush := func() {
		switch run {
		case 0:
		case 1:
			p.emitOp(opcode.POP)
		default:
			p.emitOpByte(opcode.POPN, byte(run))
		}
		run = 0
	}
	for i := len(c.locals) - 1; i >= 0 && c.locals[i].depth > depth; i-- {
		if c.locals[i].isCaptured {
			flush()
			p.emitOp(opcode.CLOSE_UPVALUE)
		} else {
			run++
		}
	}
	flush()
}

func (p *parser) patchLoopBreaks() {
	l := p.loop
	p.loop = l.enclosing
	for _, j := range l.breakJumps {
		p.patchJump(j)
	}
}

// returnStatement compiles `return;` or `return EXPR;`. A return is
// allowed from the top-level script: the outermost RETURN's value sets the
// process exit code, so the script body is just another function as far as
// RETURN is concerned.
func (p *parser) returnStatement() {
	if p.match(token.SEMI) {
		p.emitReturn()
		return
	}
	if p.cur.funcType == TypeInitializer {
		p.error("Can't return a value from an initializer.")
	}
	p.expression()
	p.consume(token.SEMI, "Expected ';' after return value.")
	p.emitOp(opcode.RETURN)
}
