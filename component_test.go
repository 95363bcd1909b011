package xflow // import "github.com/orkestr8/xflow"

// source emits the given values on "out" every time it runs.
func source(kind Kind, values ...Value) Func {
	return Func{
		Out: Ports{NewPort("out", kind)},
		Fn: func(ctx *Ctx) (Next, error) {
			for _, v := range values {
				if err := ctx.Emit("out", v); err != nil {
					return Continue, err
				}
			}
			return Continue, nil
		},
	}
}

// pipe forwards everything on "in" to "out".
func pipe(kind Kind) Func {
	return Func{
		In:  Ports{NewPort("in", kind)},
		Out: Ports{NewPort("out", kind)},
		Fn: func(ctx *Ctx) (Next, error) {
			for _, p := range ctx.Receive("in") {
				if err := ctx.Forward("out", p); err != nil {
					return Continue, err
				}
			}
			return Continue, nil
		},
	}
}

func sink(kind Kind) Func {
	return Func{In: Ports{NewPort("in", kind)}}
}
