package flowfile // import "github.com/orkestr8/xflow/flowfile"

import (
	"testing"

	"github.com/orkestr8/xflow"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestToValue(t *testing.T) {

	v, err := ToValue(cty.ObjectVal(map[string]cty.Value{
		"name":  cty.StringVal("x"),
		"count": cty.NumberIntVal(3),
		"ratio": cty.NumberFloatVal(0.25),
		"on":    cty.True,
		"tags":  cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
		"mixed": cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("two")}),
		"none":  cty.NullVal(cty.String),
	}))
	require.NoError(t, err)

	want := xflow.ObjectOf(map[string]xflow.Value{
		"name":  xflow.Str("x"),
		"count": xflow.Int(3),
		"ratio": xflow.Float64(0.25),
		"on":    xflow.BoolValue(true),
		"tags":  xflow.List(xflow.Str("a"), xflow.Str("b")),
		"mixed": xflow.List(xflow.Int(1), xflow.Str("two")),
		"none":  xflow.EmptyValue(),
	})
	require.True(t, want.Equal(v), "%v", v)

	_, err = ToValue(cty.UnknownVal(cty.String))
	require.Error(t, err)
}

func TestToValues(t *testing.T) {

	values, err := toValues(cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("a")}))
	require.NoError(t, err)
	require.Equal(t, []xflow.Value{xflow.Int(1), xflow.Str("a")}, values)

	values, err = toValues(cty.StringVal("single"))
	require.NoError(t, err)
	require.Equal(t, []xflow.Value{xflow.Str("single")}, values)

	config, err := toConfig(nil)
	require.NoError(t, err)
	require.Empty(t, config)

	text := cty.StringVal("text")
	_, err = toConfig(&text)
	require.Error(t, err)
}
