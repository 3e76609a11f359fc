package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxvm/loxvm/lang/scanner"
	"github.com/loxvm/loxvm/lang/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	var s scanner.Scanner
	s.Init(src)

	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, `(){},.;+-*/?: ! != = == > >= < <=`)
	want := []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA,
		token.DOT, token.SEMI, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.QUESTION, token.COLON,
		token.BANG, token.BANG_EQ, token.EQ, token.EQ_EQ,
		token.GT, token.GT_EQ, token.LT, token.LT_EQ,
		token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestScanLiterals(t *testing.T) {
	toks := scanAll(t, `foo "a string" 123 1.5`)
	require.Len(t, toks, 5)

	assert.Equal(t, token.IDENTIFIER, toks[0].Kind)
	assert.Equal(t, "foo", toks[0].Lexeme)

	assert.Equal(t, token.STRING, toks[1].Kind)
	assert.Equal(t, `"a string"`, toks[1].Lexeme, "quotes are kept in the lexeme")

	assert.Equal(t, token.NUMBER, toks[2].Kind)
	assert.Equal(t, "123", toks[2].Lexeme)

	assert.Equal(t, token.NUMBER, toks[3].Kind)
	assert.Equal(t, "1.5", toks[3].Lexeme)
}

func TestScanKeywords(t *testing.T) {
	toks := scanAll(t, "and break class else false for fun if nil or print return super this true var while")
	want := []token.Kind{
		token.AND, token.BREAK, token.CLASS, token.ELSE, token.FALSE, token.FOR,
		token.FUN, token.IF, token.NIL, token.OR, token.PRINT, token.RETURN,
		token.SUPER, token.THIS, token.TRUE, token.VAR, token.WHILE, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestScanSkipsCommentsAndTracksLines(t *testing.T) {
	toks := scanAll(t, "var a = 1; // trailing comment\nvar b = 2;")
	var lines []int
	for _, tok := range toks {
		if tok.Kind != token.EOF {
			lines = append(lines, tok.Line)
		}
	}
	assert.Equal(t, []int{1, 1, 1, 1, 1, 2, 2, 2, 2, 2}, lines)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"oops`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.ERROR, toks[0].Kind)
	assert.Contains(t, toks[0].Lexeme, "Unterminated string")
}

func TestScanUnexpectedCharacter(t *testing.T) {
	toks := scanAll(t, "@")
	require.Len(t, toks, 2)
	assert.Equal(t, token.ERROR, toks[0].Kind)
	assert.Contains(t, toks[0].Lexeme, "Unexpected character")
}

func TestScanEOFIsSticky(t *testing.T) {
	var s scanner.Scanner
	s.Init("")
	first := s.Scan()
	second := s.Scan()
	assert.Equal(t, token.EOF, first.Kind)
	assert.Equal(t, token.EOF, second.Kind)
}
