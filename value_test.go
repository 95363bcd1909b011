package xflow // import "github.com/orkestr8/xflow"

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {

	for k := Any; k < maxKind; k++ {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, parsed)
	}
	_, err := ParseKind("decimal")
	require.Error(t, err)

	require.True(t, Compatible(Integer, Integer))
	require.True(t, Compatible(Any, String))
	require.True(t, Compatible(Bytes, Any))
	require.False(t, Compatible(Integer, Float))
	require.False(t, Compatible(Empty, Bool))
}

func TestValueAccessors(t *testing.T) {

	var zero Value
	require.Equal(t, Empty, zero.Kind())
	require.True(t, zero.IsEmpty())
	require.True(t, zero.Equal(EmptyValue()))

	i, err := Int(3).AsInt()
	require.NoError(t, err)
	require.Equal(t, int64(3), i)

	_, err = Int(3).AsString()
	require.Equal(t, ErrValueKind{Want: String, Got: Integer}, err)

	n, err := Int(3).AsNumber()
	require.NoError(t, err)
	require.Equal(t, 3.0, n)
	n, err = Float64(0.5).AsNumber()
	require.NoError(t, err)
	require.Equal(t, 0.5, n)
	_, err = Str("3").AsNumber()
	require.Error(t, err)

	b, err := BoolValue(true).AsBool()
	require.NoError(t, err)
	require.True(t, b)

	raw := []byte("abc")
	blob := Blob(raw)
	raw[0] = 'x'
	got, err := blob.AsBytes()
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)

	list, err := List(Int(1), Str("a")).AsList()
	require.NoError(t, err)
	require.Len(t, list, 2)

	src := map[string]Value{"a": Int(1)}
	obj := ObjectOf(src)
	src["b"] = Int(2)
	m, err := obj.AsObject()
	require.NoError(t, err)
	require.Len(t, m, 1)

	_, err = obj.AsList()
	require.Error(t, err)
}

func TestValueEqualAndString(t *testing.T) {

	a := ObjectOf(map[string]Value{"x": List(Int(1), Float64(2.5)), "y": Str("s")})
	b := ObjectOf(map[string]Value{"y": Str("s"), "x": List(Int(1), Float64(2.5))})
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(ObjectOf(map[string]Value{"x": List(Int(1))})))
	require.False(t, Int(1).Equal(Float64(1)))

	require.Equal(t, "{x:[1 2.5] y:s}", a.String())
	require.Equal(t, "<empty>", EmptyValue().String())
	require.Equal(t, "bytes[3]", Blob([]byte("abc")).String())

	encoded, err := json.Marshal(a)
	require.NoError(t, err)
	require.JSONEq(t, `{"x":[1,2.5],"y":"s"}`, string(encoded))
}

func TestValueOf(t *testing.T) {

	type point struct {
		X int    `json:"x"`
		Y int    `json:"y"`
		L string `json:"label"`
	}

	for _, tc := range []struct {
		in   interface{}
		want Value
	}{
		{nil, EmptyValue()},
		{true, BoolValue(true)},
		{7, Int(7)},
		{uint8(7), Int(7)},
		{2.5, Float64(2.5)},
		{"s", Str("s")},
		{[]byte("b"), Blob([]byte("b"))},
		{[]int{1, 2}, List(Int(1), Int(2))},
		{map[string]interface{}{"a": "b"}, ObjectOf(map[string]Value{"a": Str("b")})},
		{json.Number("12"), Int(12)},
		{json.Number("1.5"), Float64(1.5)},
		{point{X: 1, Y: 2, L: "p"}, ObjectOf(map[string]Value{"x": Int(1), "y": Int(2), "label": Str("p")})},
		{(*point)(nil), EmptyValue()},
		{Int(5), Int(5)},
	} {
		v, err := ValueOf(tc.in)
		require.NoError(t, err)
		require.True(t, tc.want.Equal(v), "%v: want %v, got %v", tc.in, tc.want, v)
	}

	_, err := ValueOf(make(chan int))
	require.Error(t, err)

	v, err := ValueOf(uint64(math.MaxInt64))
	require.NoError(t, err)
	require.True(t, Int(math.MaxInt64).Equal(v))

	_, err = ValueOf(uint64(math.MaxUint64))
	require.Error(t, err)
	_, err = ValueOf([]uint64{1, math.MaxUint64})
	require.Error(t, err)
}
