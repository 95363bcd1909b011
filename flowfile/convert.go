package flowfile // import "github.com/orkestr8/xflow/flowfile"

import (
	"fmt"

	"github.com/orkestr8/xflow"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ToValue converts a cty value from a flow file into a package value. Whole
// numbers that fit an int64 become Integer, other numbers Float.
func ToValue(v cty.Value) (xflow.Value, error) {
	if v.IsNull() {
		return xflow.EmptyValue(), nil
	}
	if !v.IsWhollyKnown() {
		return xflow.Value{}, fmt.Errorf("value is not known")
	}

	t := v.Type()
	switch {
	case t == cty.String:
		return xflow.Str(v.AsString()), nil

	case t == cty.Bool:
		return xflow.BoolValue(v.True()), nil

	case t == cty.Number:
		var i int64
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return xflow.Int(i), nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return xflow.Value{}, err
		}
		return xflow.Float64(f), nil

	case t.IsListType() || t.IsTupleType() || t.IsSetType():
		list := []xflow.Value{}
		for it := v.ElementIterator(); it.Next(); {
			_, e := it.Element()
			ev, err := ToValue(e)
			if err != nil {
				return xflow.Value{}, err
			}
			list = append(list, ev)
		}
		return xflow.List(list...), nil

	case t.IsObjectType() || t.IsMapType():
		obj := map[string]xflow.Value{}
		for it := v.ElementIterator(); it.Next(); {
			k, e := it.Element()
			ev, err := ToValue(e)
			if err != nil {
				return xflow.Value{}, fmt.Errorf("%s: %w", k.AsString(), err)
			}
			obj[k.AsString()] = ev
		}
		return xflow.ObjectOf(obj), nil
	}
	return xflow.Value{}, fmt.Errorf("unsupported type %s", t.FriendlyName())
}

// toConfig converts a component's config object into its key/value map.
func toConfig(v *cty.Value) (map[string]xflow.Value, error) {
	if v == nil || v.IsNull() {
		return map[string]xflow.Value{}, nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("config must be an object, got %s", v.Type().FriendlyName())
	}
	converted, err := ToValue(*v)
	if err != nil {
		return nil, err
	}
	return converted.AsObject()
}

// toValues converts a seed's values, a list or tuple, into a slice.
func toValues(v cty.Value) ([]xflow.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	t := v.Type()
	if !t.IsListType() && !t.IsTupleType() && !t.IsSetType() {
		one, err := ToValue(v)
		if err != nil {
			return nil, err
		}
		return []xflow.Value{one}, nil
	}
	converted, err := ToValue(v)
	if err != nil {
		return nil, err
	}
	return converted.AsList()
}
