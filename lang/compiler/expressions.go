package compiler

import (
	"strconv"

	"github.com/loxvm/loxvm/lang/opcode"
	"github.com/loxvm/loxvm/lang/token"
	"github.com/loxvm/loxvm/lang/value"
)

func grouping(p *parser, _ bool) {
	p.expression()
	p.consume(token.RPAREN, "Expected ')' after expression.")
}

func unary(p *parser, _ bool) {
	opTok := p.previous.Kind
	p.parsePrecedence(precUnary)
	switch opTok {
	case token.BANG:
		p.emitOp(opcode.NOT)
	case token.MINUS:
		p.emitOp(opcode.NEGATE)
	}
}

func binary(p *parser, _ bool) {
	opTok := p.previous.Kind
	rule := getRule(opTok)
	p.parsePrecedence(rule.precedence + 1) // +1: left-associative

	switch opTok {
	case token.BANG_EQ:
		p.emitOp(opcode.EQUAL)
		p.emitOp(opcode.NOT)
	case token.EQ_EQ:
		p.emitOp(opcode.EQUAL)
	case token.GT:
		p.emitOp(opcode.GREATER)
	case token.GT_EQ:
		p.emitOp(opcode.LESS)
		p.emitOp(opcode.NOT)
	case token.LT:
		p.emitOp(opcode.LESS)
	case token.LT_EQ:
		p.emitOp(opcode.GREATER)
		p.emitOp(opcode.NOT)
	case token.PLUS:
		p.emitOp(opcode.ADD)
	case token.MINUS:
		p.emitOp(opcode.SUBTRACT)
	case token.STAR:
		p.emitOp(opcode.MULTIPLY)
	case token.SLASH:
		p.emitOp(opcode.DIVIDE)
	}
}

// ternary compiles `cond ? then : else`, desugared into the same
// conditional-jump shape as an if/else expression.
func ternary(p *parser, _ bool) {
	thenJump := p.emitJump(opcode.JUMP_IF_FALSE)
	p.emitOp(opcode.POP)
	p.parsePrecedence(precAssignment)
	elseJump := p.emitJump(opcode.JUMP)

	p.patchJump(thenJump)
	p.emitOp(opcode.POP)
	p.consume(token.COLON, "Expected ':' after then-branch of conditional expression.")
	p.parsePrecedence(precTernary)

	p.patchJump(elseJump)
}

func number(p *parser, _ bool) {
	n, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("Invalid number literal.")
		return
	}
	switch n {
	case 0:
		p.emitOp(opcode.ZERO)
	case 1:
		p.emitOp(opcode.ONE)
	default:
		p.emitConstant(value.Number(n))
	}
}

func stringLit(p *parser, _ bool) {
	lexeme := p.previous.Lexeme
	chars := lexeme[1 : len(lexeme)-1] // trim surrounding quotes
	str := p.alloc.InternString(chars)
	p.emitConstant(value.FromObj(str))
}

func literal(p *parser, _ bool) {
	switch p.previous.Kind {
	case token.FALSE:
		p.emitOp(opcode.FALSE)
	case token.TRUE:
		p.emitOp(opcode.TRUE)
	case token.NIL:
		p.emitOp(opcode.NIL)
	}
}

func and_(p *parser, _ bool) {
	endJump := p.emitJump(opcode.JUMP_IF_FALSE)
	p.emitOp(opcode.POP)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func or_(p *parser, _ bool) {
	elseJump := p.emitJump(opcode.JUMP_IF_FALSE)
	endJump := p.emitJump(opcode.JUMP)

	p.patchJump(elseJump)
	p.emitOp(opcode.POP)
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func variable(p *parser, canAssign bool) {
	p.namedVariable(p.previous.Lexeme, canAssign)
}

func this(p *parser, _ bool) {
	if p.class == nil {
		p.error("Can't use 'this' outside of a class method.")
		return
	}
	p.namedVariable("this", false)
}

func (p *parser) namedVariable(name string, canAssign bool) {
	var getOp, setOp opcode.Code
	arg := resolveLocal(p, p.cur, name)
	if arg != -1 {
		getOp, setOp = opcode.GET_LOCAL, opcode.SET_LOCAL
	} else if arg = resolveUpvalue(p, p.cur, name); arg != -1 {
		getOp, setOp = opcode.GET_UPVALUE, opcode.SET_UPVALUE
	} else {
		arg = int(p.identifierConstant(name))
		getOp, setOp = opcode.GET_GLOBAL, opcode.SET_GLOBAL
	}

	if canAssign && p.match(token.EQ) {
		p.expression()
		p.emitOpByte(setOp, byte(arg))
	} else {
		p.emitOpByte(getOp, byte(arg))
	}
}

// call compiles the `(args...)` that follows a callee expression already
// on the stack, as the CALL instruction's infix rule.
func call(p *parser, _ bool) {
	argCount := p.argumentList()
	p.emitOpByte(opcode.CALL, argCount)
}

func (p *parser) argumentList() byte {
	count := 0
	if !p.check(token.RPAREN) {
		for {
			p.expression()
			if count == 255 {
				p.error("Can't have more than 255 arguments.")
			}
			count++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expected ')' after arguments.")
	return byte(count)
}

// dot compiles `.name`: a property write when canAssign and an `=`
// follows, a property read otherwise. A method call like a.b(c) needs no
// case of its own here: the read leaves a bound method on the stack and
// the Pratt loop's call rule for the following '(' takes it from there.
func dot(p *parser, canAssign bool) {
	p.consume(token.IDENTIFIER, "Expected property name after '.'.")
	name := p.identifierConstant(p.previous.Lexeme)

	if canAssign && p.match(token.EQ) {
		p.expression()
		p.emitOpByte(opcode.SET_PROPERTY, name)
		return
	}
	p.emitOpByte(opcode.GET_PROPERTY, name)
}
