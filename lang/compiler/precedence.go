package compiler

import "github.com/loxvm/loxvm/lang/token"

// Precedence levels, lowest to highest. The ordering matters: binary
// parses its right operand at "one higher, for left associativity".
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precTernary               // ?:
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(p *parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LPAREN:     {prefix: grouping, infix: call, precedence: precCall},
		token.DOT:        {infix: dot, precedence: precCall},
		token.MINUS:      {prefix: unary, infix: binary, precedence: precTerm},
		token.PLUS:       {infix: binary, precedence: precTerm},
		token.SLASH:      {infix: binary, precedence: precFactor},
		token.STAR:       {infix: binary, precedence: precFactor},
		token.BANG:       {prefix: unary},
		token.BANG_EQ:    {infix: binary, precedence: precEquality},
		token.EQ_EQ:      {infix: binary, precedence: precEquality},
		token.GT:         {infix: binary, precedence: precComparison},
		token.GT_EQ:      {infix: binary, precedence: precComparison},
		token.LT:         {infix: binary, precedence: precComparison},
		token.LT_EQ:      {infix: binary, precedence: precComparison},
		token.QUESTION:   {infix: ternary, precedence: precTernary},
		token.IDENTIFIER: {prefix: variable},
		token.STRING:     {prefix: stringLit},
		token.NUMBER:     {prefix: number},
		token.AND:        {infix: and_, precedence: precAnd},
		token.OR:         {infix: or_, precedence: precOr},
		token.FALSE:      {prefix: literal},
		token.NIL:        {prefix: literal},
		token.TRUE:       {prefix: literal},
		token.THIS:       {prefix: this},
	}
}

func getRule(k token.Kind) parseRule { return rules[k] }

func (p *parser) expression() { p.parsePrecedence(precAssignment) }

func (p *parser) parsePrecedence(prec precedence) {
	p.advance()
	rule := getRule(p.previous.Kind)
	if rule.prefix == nil {
		p.error("Expected expression.")
		return
	}
	canAssign := prec <= precAssignment
	rule.prefix(p, canAssign)

	for prec <= getRule(p.current.Kind).precedence {
		p.advance()
		infix := getRule(p.previous.Kind).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.EQ) {
		p.error("Invalid assignment target.")
	}
}
