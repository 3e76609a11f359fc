package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := Kind(0); k < maxKind; k++ {
		assert.NotEqual(t, "unknown token", k.String(), "kind %d missing a name", k)
	}
	assert.Equal(t, "unknown token", maxKind.String())
}

func TestLookup(t *testing.T) {
	tests := []struct {
		lexeme string
		want   Kind
	}{
		{"and", AND},
		{"break", BREAK},
		{"class", CLASS},
		{"fun", FUN},
		{"this", THIS},
		{"while", WHILE},
		{"andrew", IDENTIFIER}, // shares a prefix with a keyword, must not match
		{"", IDENTIFIER},
		{"Fun", IDENTIFIER}, // keywords are case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			require.Equal(t, tt.want, Lookup(tt.lexeme))
		})
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		desc string
		in   Token
		want string
	}{
		{"punctuation", Token{Kind: PLUS}, "+"},
		{"keyword", Token{Kind: WHILE}, "while"},
		{"identifier carries its lexeme", Token{Kind: IDENTIFIER, Lexeme: "count"}, "identifier count"},
		{"string carries its lexeme", Token{Kind: STRING, Lexeme: `"hi"`}, `string "hi"`},
		{"number carries its lexeme", Token{Kind: NUMBER, Lexeme: "1.5"}, "number 1.5"},
		{"error carries its message", Token{Kind: ERROR, Lexeme: "Unexpected character."}, "error Unexpected character."},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}
