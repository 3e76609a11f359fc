package compiler_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxvm/loxvm/lang/compiler"
	"github.com/loxvm/loxvm/lang/vm"
)

// TestCompileSuccess exercises the compiler end to end (it needs a real
// value.Allocator, which *vm.VM implements) over programs that should
// produce a usable top-level function with no error.
func TestCompileSuccess(t *testing.T) {
	tests := []struct {
		desc string
		src  string
	}{
		{"empty program", ``},
		{"arithmetic precedence", `print 1 + 2 * 3;`},
		{"string concatenation", `var a = "hi"; var b = " there"; print a + b;`},
		{"recursive function", `fun fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); } print fib(10);`},
		{"class with method", `class Greeter { greet(who) { print "hello " + who; } }`},
		{"closures", `fun outer() { var x = 1; fun inner() { x = x + 1; return x; } return inner; }`},
		{"for loop", `for (var i = 0; i < 10; i = i + 1) { print i; }`},
		{"while with break", `while (true) { break; }`},
		{"ternary", `print true ? 1 : 2;`},
		{"logical operators", `print true and false or true;`},
		{"top-level return", `return 1;`},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			machine := &vm.VM{}
			fn, err := machine.Compile(tt.src)
			require.NoError(t, err)
			assert.NotNil(t, fn)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		desc string
		src  string
		want string
	}{
		{"missing semicolon", `print 1`, "Expected ';' after value."},
		{"invalid assignment target", `1 = 2;`, "Invalid assignment target."},
		{"unexpected token", `print ;`, "Expected expression."},
		{"self-referential initializer", `{ var a = a; }`, "Can't read local variable in its own initializer."},
		{"duplicate local", `{ var a = 1; var a = 2; }`, "Already a variable with this name in this scope."},
		{"break outside loop", `break;`, "Can't use 'break' outside of a loop."},
		{"this outside method", `print this;`, "Can't use 'this' outside of a class method."},
		{"unterminated string", `print "oops;`, "Unterminated string."},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			machine := &vm.VM{}
			_, err := machine.Compile(tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCompileErrorsAggregatesMultiple(t *testing.T) {
	machine := &vm.VM{}
	_, err := machine.Compile("print 1\nprint 2\n")

	errs, ok := err.(compiler.CompileErrors)
	require.True(t, ok, "expected a compiler.CompileErrors, got %T", err)
	assert.Len(t, errs, 2, "both missing semicolons should be reported")
}

func TestCompileTooManyLocals(t *testing.T) {
	var src string
	src += "{\n"
	for i := 0; i < 257; i++ {
		src += "var v" + strconv.Itoa(i) + " = 0;\n"
	}
	src += "}\n"

	machine := &vm.VM{}
	_, err := machine.Compile(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Too many local variables in function.")
}
