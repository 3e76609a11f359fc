package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF checks that the grammar in grammar.ebnf is syntactically valid
// and self-contained: every production it references is itself defined.
// It does not parse any source program, only the grammar description.
func TestEBNF(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Program"); err != nil {
		t.Fatal(err)
	}
}
