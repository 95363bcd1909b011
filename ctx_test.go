package xflow // import "github.com/orkestr8/xflow"

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvokeLineage(t *testing.T) {

	upstream := Ref(7, "out")
	parent := Package{Value: Int(1), Origin: upstream, Generation: 3}

	c := Func{
		In: Ports{NewPort("in", Integer)},
		Out: Ports{
			NewPort("fresh", Integer),
			NewPort("same", Integer),
			NewPort("derived", String),
		},
		Fn: func(ctx *Ctx) (Next, error) {
			p, has := ctx.First("in")
			require.True(t, has)
			require.NoError(t, ctx.Emit("fresh", Int(10)))
			require.NoError(t, ctx.Forward("same", p))
			require.NoError(t, ctx.Derive("derived", p, Str("one")))
			return Break, nil
		},
	}

	out, next, err := Invoke(context.Background(), Invocation{
		ID:        2,
		Name:      "c",
		Component: c,
		Inputs:    Inputs{"in": {parent}},
	})
	require.NoError(t, err)
	require.Equal(t, Break, next)

	// a fresh origin, but the generation of the batch is kept
	require.Equal(t, []Package{{Value: Int(10), Origin: Ref(2, "fresh"), Generation: 3}}, out["fresh"])
	require.Equal(t, []Package{parent}, out["same"])
	require.Equal(t, []Package{{Value: Str("one"), Origin: upstream, Generation: 3}}, out["derived"])
}

type testKey struct{}

func TestInvokeCtx(t *testing.T) {

	g := NewGlobal()
	ctx := context.WithValue(context.Background(), testKey{}, "v")

	c := Func{
		In: Ports{NewPort("a", Integer), OptionalPort("b", Integer)},
		Fn: func(c *Ctx) (Next, error) {
			require.Equal(t, "v", c.Context().Value(testKey{}))
			require.Equal(t, ComponentID(4), c.ID())
			require.Equal(t, "summer", c.Name())
			require.Equal(t, 12, c.Cycle())
			require.Same(t, g, c.Global())

			in, out := c.Ports()
			require.Equal(t, []string{"a", "b"}, in.Names())
			require.Empty(t, out)

			require.Equal(t, []Value{Int(1), Int(2)}, c.Values("a"))
			require.Empty(t, c.Receive("b"))
			_, has := c.First("b")
			require.False(t, has)
			require.Equal(t, 2, c.Received())
			return Continue, nil
		},
	}

	_, next, err := Invoke(ctx, Invocation{
		ID:        4,
		Name:      "summer",
		Cycle:     12,
		Component: c,
		Global:    g,
		Inputs: Inputs{"a": {
			NewPackage(External, Int(1)),
			NewPackage(External, Int(2)),
		}},
	})
	require.NoError(t, err)
	require.Equal(t, Continue, next)
}

func TestInvokeEmitErrors(t *testing.T) {

	emit := func(port string, v Value) Func {
		return Func{
			Out: Ports{NewPort("n", Integer), NewPort("any", Any)},
			Fn: func(ctx *Ctx) (Next, error) {
				return Continue, ctx.Emit(port, v)
			},
		}
	}

	_, _, err := Invoke(context.Background(), Invocation{Name: "e", Component: emit("nope", Int(1))})
	require.True(t, errors.Is(err, ErrNoSuchPort{Component: "e", Port: "nope", Context: "output"}))

	_, _, err = Invoke(context.Background(), Invocation{Name: "e", Component: emit("n", Str("x"))})
	require.True(t, errors.Is(err, ErrValueType{Component: "e", Port: "n", Want: Integer, Got: String}))

	out, _, err := Invoke(context.Background(), Invocation{Name: "e", Component: emit("any", Str("x"))})
	require.NoError(t, err)
	require.Equal(t, []Value{Str("x")}, out.Values("any"))

	// Inputs must name declared ports.
	_, _, err = Invoke(context.Background(), Invocation{
		Name:      "e",
		Component: emit("n", Int(1)),
		Inputs:    Inputs{"ghost": {NewPackage(External, Int(1))}},
	})
	require.Equal(t, ErrNoSuchPort{Component: "e", Port: "ghost", Context: "input"}, err)

	_, _, err = Invoke(context.Background(), Invocation{})
	require.Error(t, err)
}

func TestInvokeFailure(t *testing.T) {

	cause := fmt.Errorf("boom")
	c := Func{
		Out: Ports{NewPort("out", Integer)},
		Fn: func(ctx *Ctx) (Next, error) {
			require.NoError(t, ctx.Emit("out", Int(1)))
			return Break, cause
		},
	}

	out, next, err := Invoke(context.Background(), Invocation{ID: 1, Name: "f", Cycle: 3, Component: c})
	require.Nil(t, out)
	require.Equal(t, Continue, next)

	var failure ErrComponentFailure
	require.True(t, errors.As(err, &failure))
	require.Equal(t, "f", failure.Component)
	require.Equal(t, ComponentID(1), failure.ID)
	require.Equal(t, 3, failure.Cycle)
	require.True(t, errors.Is(err, cause))
	require.Equal(t, "Component f failed in cycle 3: boom", err.Error())
}

func TestInvokePanic(t *testing.T) {

	c := Func{Fn: func(ctx *Ctx) (Next, error) {
		panic("no")
	}}

	out, _, err := Invoke(context.Background(), Invocation{Name: "p", Component: c})
	require.Nil(t, out)

	var failure ErrComponentFailure
	require.True(t, errors.As(err, &failure))
	require.Contains(t, failure.Err.Error(), "panic: no")
}

func TestInvokeGlobalTypeMismatch(t *testing.T) {

	g := NewGlobal()
	Insert(g, "count", 1)

	c := Func{Fn: func(ctx *Ctx) (Next, error) {
		_, _, err := Get[string](ctx.Global(), "count")
		return Continue, err
	}}

	_, _, err := Invoke(context.Background(), Invocation{Name: "g", Component: c, Global: g})

	var mismatch ErrGlobalTypeMismatch
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, "count", mismatch.Key)
	require.Equal(t, "int", mismatch.Stored.String())
	require.Equal(t, "string", mismatch.Requested.String())
}

func TestInvokeDefaultsGlobalAndName(t *testing.T) {

	var seen *Global
	c := Func{Fn: func(ctx *Ctx) (Next, error) {
		seen = ctx.Global()
		require.Equal(t, "xflow.Func", ctx.Name())
		return Continue, nil
	}}

	_, _, err := Invoke(context.Background(), Invocation{Component: c})
	require.NoError(t, err)
	require.NotNil(t, seen)
	require.Equal(t, 0, seen.Len())
}
