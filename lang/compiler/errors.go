package compiler

import (
	"fmt"
	"strings"
)

// CompileError is a single error reported while compiling, anchored to the
// source line of the offending token.
type CompileError struct {
	Line    int
	Where   string // "" (scan error), "at end", or "at '<lexeme>'"
	Message string
}

func (e *CompileError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] %s: %s", e.Line, e.Where, e.Message)
}

// CompileErrors collects every error found during a compile. The compiler
// does not stop at the first error: panic-mode recovery keeps it parsing
// so that a single source file can report all of its mistakes at once, but
// only this one aggregate value is ever returned to the caller.
type CompileErrors []*CompileError

// Error joins every collected error's message, one per line.
func (e CompileErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ce := range e {
		msgs[i] = ce.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual errors, so callers can use errors.Is/As or
// range over them directly with errors.Join-style inspection.
func (e CompileErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, ce := range e {
		errs[i] = ce
	}
	return errs
}
