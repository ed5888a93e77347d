package sql

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueBindType(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		bind BindType
		arg  any
	}{
		{"int", Int(42), BindInt, int64(42)},
		{"bool", Bool(true), BindBool, true},
		{"null", Null(), BindNull, nil},
		{"zero", Value{}, BindNull, nil},
		{"text", Text("x"), BindString, "x"},
		{"float", Float(1.5), BindString, "1.5"},
		{"float whole", Float(3), BindString, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.bind, tt.v.BindType())
			assert.Equal(t, tt.arg, tt.v.Arg())
		})
	}
	assert.Equal(t, "INTEGER", BindInt.String())
	assert.Equal(t, "STRING", BindString.String())
}

func TestValueOf(t *testing.T) {
	s := "abc"
	var nilInt *int64
	tests := []struct {
		in   any
		want Value
	}{
		{nil, Null()},
		{7, Int(7)},
		{uint8(3), Int(3)},
		{float32(0.5), Float(0.5)},
		{false, Bool(false)},
		{"s", Text("s")},
		{[]byte("b"), Text("b")},
		{&s, Text("abc")},
		{nilInt, Null()},
		{Int(1), Int(1)},
	}
	for _, tt := range tests {
		got, err := Of(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Of(%#v)", tt.in)
	}
	_, err := Of(struct{}{})
	require.Error(t, err)
	_, err = Of(uint64(math.MaxUint64))
	require.Error(t, err)
}

func TestValueInterface(t *testing.T) {
	assert.Equal(t, 2.25, Float(2.25).Interface())
	assert.Equal(t, int64(2), Int(2).Interface())
	assert.Nil(t, Null().Interface())
	assert.Equal(t, `"a"`, Text("a").String())
	assert.Equal(t, "NULL", Null().String())
}

func TestParams(t *testing.T) {
	p := Positional(Int(1), Text("a"))
	assert.Equal(t, Params{"0": Int(1), "1": Text("a")}, p)

	merged := p.Merge(Params{"1": Text("b"), "x": Null()})
	assert.Equal(t, Text("b"), merged["1"])
	assert.Equal(t, Text("a"), p["1"], "merge must not modify the receiver")
	assert.Len(t, merged, 3)

	n, ok := position("0")
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	_, ok = position("w_id")
	assert.False(t, ok)
	_, ok = position("")
	assert.False(t, ok)
}
