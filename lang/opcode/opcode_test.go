package opcode

import (
	"strings"
	"testing"
)

func TestCodeString(t *testing.T) {
	for c := Code(0); c < maxCode; c++ {
		if names[c] == "" {
			t.Errorf("missing string representation of opcode %d", c)
		}
		if s := c.String(); strings.Contains(s, "illegal") {
			t.Errorf("invalid string representation of opcode %d", c)
		}
	}
	if s := maxCode.String(); !strings.Contains(s, "illegal") {
		t.Errorf("expected an out-of-range opcode to report as illegal, got %q", s)
	}
}
