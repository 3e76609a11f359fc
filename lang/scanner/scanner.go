// Package scanner implements the lexer for the language: a single pass over
// the source text producing the token.Token stream consumed by the
// compiler. It is a thin collaborator of the compiler, not a core subsystem:
// it looks at most two bytes ahead (peek and peekNext) and carries no state
// the compiler needs to inspect.
package scanner

import (
	"github.com/loxvm/loxvm/lang/token"
)

// Scanner tokenizes a single source string. The zero value is not usable;
// call Init first.
type Scanner struct {
	src            string
	start, current int
	line           int
}

// Init prepares s to scan src from the beginning.
func (s *Scanner) Init(src string) {
	s.src = src
	s.start = 0
	s.current = 0
	s.line = 1
}

// Scan returns the next token in the source. Once it returns a token.EOF
// token, every subsequent call also returns token.EOF.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespace()
	s.start = s.current
	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LPAREN)
	case ')':
		return s.make(token.RPAREN)
	case '{':
		return s.make(token.LBRACE)
	case '}':
		return s.make(token.RBRACE)
	case ';':
		return s.make(token.SEMI)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case '/':
		return s.make(token.SLASH)
	case '*':
		return s.make(token.STAR)
	case '?':
		return s.make(token.QUESTION)
	case ':':
		return s.make(token.COLON)
	case '!':
		return s.make(s.selectKind('=', token.BANG_EQ, token.BANG))
	case '=':
		return s.make(s.selectKind('=', token.EQ_EQ, token.EQ))
	case '<':
		return s.make(s.selectKind('=', token.LT_EQ, token.LT))
	case '>':
		return s.make(s.selectKind('=', token.GT_EQ, token.GT))
	case '"':
		return s.string()
	}
	return s.errorf("Unexpected character.")
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

// match advances and returns true only if the current byte is expected.
func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.src[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) selectKind(expected byte, ifMatch, otherwise token.Kind) token.Kind {
	if s.match(expected) {
		return ifMatch
	}
	return otherwise
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case '\n':
			s.line++
			s.advance()
		case ' ', '\r', '\t':
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.make(token.NUMBER)
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		return s.errorf("Unterminated string.")
	}
	s.advance() // closing quote
	return s.make(token.STRING)
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	lit := s.src[s.start:s.current]
	return s.makeLexeme(token.Lookup(lit), lit)
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return s.makeLexeme(kind, s.src[s.start:s.current])
}

func (s *Scanner) makeLexeme(kind token.Kind, lexeme string) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: s.line}
}

func (s *Scanner) errorf(msg string) token.Token {
	return token.Token{Kind: token.ERROR, Lexeme: msg, Line: s.line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
