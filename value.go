package xflow // import "github.com/orkestr8/xflow"

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Kind is the type tag of a Value and the declared type of a Port.
type Kind uint8

const (
	// Any is only meaningful as a port type: it accepts every kind.
	Any Kind = iota
	Empty
	Bool
	Integer
	Float
	String
	Bytes
	Array
	Object

	maxKind
)

var kindNames = [maxKind]string{
	Any:     "any",
	Empty:   "empty",
	Bool:    "bool",
	Integer: "integer",
	Float:   "float",
	String:  "string",
	Bytes:   "bytes",
	Array:   "array",
	Object:  "object",
}

func (k Kind) String() string {
	if k < maxKind {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return Any, fmt.Errorf("Unknown kind: %q", s)
}

// Compatible reports whether packages produced on a port of kind out may be
// delivered to a port of kind in.
func Compatible(out, in Kind) bool {
	return out == in || out == Any || in == Any
}

// Value is an immutable typed datum carried by a Package.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	raw  []byte
	list []Value
	obj  map[string]Value
}

func EmptyValue() Value { return Value{kind: Empty} }
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }
func Int(i int64) Value { return Value{kind: Integer, i: i} }
func Float64(f float64) Value { return Value{kind: Float, f: f} }
func Str(s string) Value { return Value{kind: String, s: s} }

// Blob copies b into a Bytes value.
func Blob(b []byte) Value {
	return Value{kind: Bytes, raw: append([]byte(nil), b...)}
}

// List builds an Array value.
func List(values ...Value) Value {
	return Value{kind: Array, list: append([]Value(nil), values...)}
}

// ObjectOf builds an Object value from a copy of m.
func ObjectOf(m map[string]Value) Value {
	obj := make(map[string]Value, len(m))
	for k, v := range m {
		obj[k] = v
	}
	return Value{kind: Object, obj: obj}
}

// Kind returns the type tag. The zero Value is Empty.
func (v Value) Kind() Kind {
	if v.kind == Any {
		return Empty
	}
	return v.kind
}

func (v Value) IsEmpty() bool { return v.Kind() == Empty }

func (v Value) AsBool() (bool, error) {
	if v.kind != Bool {
		return false, ErrValueKind{Want: Bool, Got: v.Kind()}
	}
	return v.b, nil
}

func (v Value) AsInt() (int64, error) {
	if v.kind != Integer {
		return 0, ErrValueKind{Want: Integer, Got: v.Kind()}
	}
	return v.i, nil
}

func (v Value) AsFloat() (float64, error) {
	if v.kind != Float {
		return 0, ErrValueKind{Want: Float, Got: v.Kind()}
	}
	return v.f, nil
}

// AsNumber accepts both Integer and Float values.
func (v Value) AsNumber() (float64, error) {
	switch v.kind {
	case Integer:
		return float64(v.i), nil
	case Float:
		return v.f, nil
	}
	return 0, ErrValueKind{Want: Float, Got: v.Kind()}
}

func (v Value) AsString() (string, error) {
	if v.kind != String {
		return "", ErrValueKind{Want: String, Got: v.Kind()}
	}
	return v.s, nil
}

// AsBytes returns a copy of the blob.
func (v Value) AsBytes() ([]byte, error) {
	if v.kind != Bytes {
		return nil, ErrValueKind{Want: Bytes, Got: v.Kind()}
	}
	return append([]byte(nil), v.raw...), nil
}

func (v Value) AsList() ([]Value, error) {
	if v.kind != Array {
		return nil, ErrValueKind{Want: Array, Got: v.Kind()}
	}
	return append([]Value(nil), v.list...), nil
}

func (v Value) AsObject() (map[string]Value, error) {
	if v.kind != Object {
		return nil, ErrValueKind{Want: Object, Got: v.Kind()}
	}
	out := make(map[string]Value, len(v.obj))
	for k, e := range v.obj {
		out[k] = e
	}
	return out, nil
}

// Equal compares two values structurally.
func (v Value) Equal(o Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case Empty:
		return true
	case Bool:
		return v.b == o.b
	case Integer:
		return v.i == o.i
	case Float:
		return v.f == o.f
	case String:
		return v.s == o.s
	case Bytes:
		return string(v.raw) == string(o.raw)
	case Array:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, e := range v.obj {
			other, has := o.obj[k]
			if !has || !e.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.Kind() {
	case Bool:
		return strconv.FormatBool(v.b)
	case Integer:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case String:
		return v.s
	case Bytes:
		return fmt.Sprintf("bytes[%d]", len(v.raw))
	case Array:
		parts := make([]string, len(v.list))
		for i := range v.list {
			parts[i] = v.list[i].String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case Object:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ":" + v.obj[k].String()
		}
		return "{" + strings.Join(parts, " ") + "}"
	}
	return "<empty>"
}

// Interface returns the plain Go rendering of the value: nil, bool, int64,
// float64, string, []byte, []interface{} or map[string]interface{}.
func (v Value) Interface() interface{} {
	switch v.Kind() {
	case Bool:
		return v.b
	case Integer:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	case Bytes:
		return append([]byte(nil), v.raw...)
	case Array:
		out := make([]interface{}, len(v.list))
		for i := range v.list {
			out[i] = v.list[i].Interface()
		}
		return out
	case Object:
		out := make(map[string]interface{}, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.Interface()
		}
		return out
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// ValueOf converts a Go value into a Value. Structs and other types not
// handled directly go through their JSON encoding.
func ValueOf(x interface{}) (Value, error) {
	switch t := x.(type) {
	case nil:
		return EmptyValue(), nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return Str(t), nil
	case []byte:
		return Blob(t), nil
	case float32:
		return Float64(float64(t)), nil
	case float64:
		return Float64(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float64(f), nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, fmt.Errorf("ValueOf: %d overflows an Integer", u)
		}
		return Int(int64(u)), nil
	case reflect.Slice, reflect.Array:
		list := make([]Value, rv.Len())
		for i := range list {
			e, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			list[i] = e
		}
		return Value{kind: Array, list: list}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			obj := make(map[string]Value, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				e, err := ValueOf(iter.Value().Interface())
				if err != nil {
					return Value{}, err
				}
				obj[iter.Key().String()] = e
			}
			return Value{kind: Object, obj: obj}, nil
		}
	case reflect.Ptr:
		if rv.IsNil() {
			return EmptyValue(), nil
		}
	}

	// just use json serialization to deal with everything else
	encoded, err := json.Marshal(x)
	if err != nil {
		return Value{}, err
	}
	dec := json.NewDecoder(strings.NewReader(string(encoded)))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return Value{}, err
	}
	return ValueOf(generic)
}
