package sql

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// BindType is the parameter type a Value is bound with.
type BindType uint8

// Bind types.
const (
	BindNull BindType = iota
	BindInt
	BindBool
	BindString
)

// String returns the bind type name.
func (b BindType) String() string {
	switch b {
	case BindNull:
		return "NULL"
	case BindInt:
		return "INTEGER"
	case BindBool:
		return "BOOLEAN"
	default:
		return "STRING"
	}
}

// Value is a scalar statement parameter: an int, float, bool, text or NULL.
// The zero Value is NULL.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// Int returns an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a float Value. Floats are bound as strings.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Text returns a string Value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Null returns the NULL Value.
func Null() Value { return Value{} }

// IntPtr returns Int(*v), or Null when v is nil.
func IntPtr(v *int64) Value {
	if v == nil {
		return Null()
	}
	return Int(*v)
}

// FloatPtr returns Float(*v), or Null when v is nil.
func FloatPtr(v *float64) Value {
	if v == nil {
		return Null()
	}
	return Float(*v)
}

// BoolPtr returns Bool(*v), or Null when v is nil.
func BoolPtr(v *bool) Value {
	if v == nil {
		return Null()
	}
	return Bool(*v)
}

// TextPtr returns Text(*v), or Null when v is nil.
func TextPtr(v *string) Value {
	if v == nil {
		return Null()
	}
	return Text(*v)
}

// Of converts a Go scalar into a Value.
func Of(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return ofUint(uint64(v))
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return ofUint(v)
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case bool:
		return Bool(v), nil
	case string:
		return Text(v), nil
	case []byte:
		return Text(string(v)), nil
	case *int64:
		return IntPtr(v), nil
	case *float64:
		return FloatPtr(v), nil
	case *bool:
		return BoolPtr(v), nil
	case *string:
		return TextPtr(v), nil
	default:
		return Value{}, fmt.Errorf("dialect/sql: unsupported parameter type %T", v)
	}
}

func ofUint(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return Value{}, fmt.Errorf("dialect/sql: unsigned value %d overflows int64", v)
	}
	return Int(int64(v)), nil
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// BindType returns the type v is bound with. Only ints, bools and NULL
// get their own bind type; floats and text bind as STRING.
func (v Value) BindType() BindType {
	switch v.kind {
	case KindInt:
		return BindInt
	case KindBool:
		return BindBool
	case KindNull:
		return BindNull
	default:
		return BindString
	}
}

// Arg returns the driver argument for v according to its bind type.
func (v Value) Arg() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindBool:
		return v.b
	case KindNull:
		return nil
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return v.s
	}
}

// Interface returns the Go value held by v: int64, float64, bool, string or nil.
func (v Value) Interface() any {
	if v.kind == KindFloat {
		return v.f
	}
	return v.Arg()
}

// String formats v for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindText:
		return strconv.Quote(v.s)
	default:
		return fmt.Sprint(v.Arg())
	}
}

// Params maps placeholder names to values. Keys made only of digits are
// positional: key "0" binds the first ? placeholder. Other keys name a
// :placeholder; the leading colon is optional.
type Params map[string]Value

// Positional returns Params binding vals to ? placeholders in order.
func Positional(vals ...Value) Params {
	p := make(Params, len(vals))
	for i, v := range vals {
		p[strconv.Itoa(i)] = v
	}
	return p
}

// Merge returns a new Params holding p and then other; keys in other win.
func (p Params) Merge(other Params) Params {
	out := make(Params, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// position returns the 1-based placeholder position for a positional key.
func position(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return n + 1, true
}
