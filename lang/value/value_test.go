package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxvm/loxvm/lang/value"
)

func TestTruth(t *testing.T) {
	tests := []struct {
		desc string
		in   value.Value
		want bool
	}{
		{"nil is falsey", value.Nil, false},
		{"false is falsey", value.False, false},
		{"true is truthy", value.True, true},
		{"zero is truthy", value.Number(0), true},
		{"empty string is truthy", value.FromObj(value.NewString("")), true},
		{"any number is truthy", value.Number(-1), true},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Truth())
		})
	}
}

func TestEqual(t *testing.T) {
	str1 := value.NewString("hi")
	str2 := value.NewString("hi") // deliberately not interned: a distinct object

	tests := []struct {
		desc string
		a, b value.Value
		want bool
	}{
		{"nil equals nil", value.Nil, value.Nil, true},
		{"booleans compare by value", value.True, value.True, true},
		{"differing booleans", value.True, value.False, false},
		{"numbers compare by IEEE equality", value.Number(1), value.Number(1), true},
		{"NaN is never equal to itself", value.Number(math.NaN()), value.Number(math.NaN()), false},
		{"differing kinds never compare equal", value.Number(0), value.Nil, false},
		{"differing kinds never compare equal (bool/number)", value.Number(1), value.True, false},
		{"objects compare by identity, not content", value.FromObj(str1), value.FromObj(str2), false},
		{"same object equals itself", value.FromObj(str1), value.FromObj(str1), true},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, value.Equal(tt.a, tt.b))
		})
	}
}

func TestValueString(t *testing.T) {
	fn := value.NewFunction()
	named := value.NewFunction()
	named.Name = value.NewString("fib")
	native := value.NewNative("clock", func([]value.Value) (value.Value, error) { return value.Nil, nil })
	class := value.NewClass(value.NewString("Greeter"))
	inst := value.NewInstance(class)

	tests := []struct {
		desc string
		in   value.Value
		want string
	}{
		{"nil", value.Nil, "nil"},
		{"true", value.True, "true"},
		{"false", value.False, "false"},
		{"integral number", value.Number(3), "3"},
		{"fractional number", value.Number(2.5), "2.5"},
		{"string", value.FromObj(value.NewString("hi there")), "hi there"},
		{"unnamed function is the script", value.FromObj(fn), "<script>"},
		{"named function", value.FromObj(named), "<fn fib>"},
		{"native function", value.FromObj(native), "<native fn>"},
		{"class", value.FromObj(class), "Greeter"},
		{"instance", value.FromObj(inst), "Greeter instance"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "nil", value.Nil.TypeName())
	assert.Equal(t, "boolean", value.True.TypeName())
	assert.Equal(t, "number", value.Number(1).TypeName())
	assert.Equal(t, "string", value.FromObj(value.NewString("x")).TypeName())
}
