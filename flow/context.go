package flow // import "github.com/orkestr8/xflow/flow"

import (
	"context"

	"github.com/google/uuid"
)

type contextKeyType int

const (
	runIDContextKey contextKeyType = iota
	loggerContextKey
)

func setLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, l)
}

func setRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDContextKey, id)
}

// RunIDFrom returns the id of the flow run executing under ctx. Components
// reach it through Ctx.Context.
func RunIDFrom(ctx context.Context) (uuid.UUID, bool) {
	v, is := ctx.Value(runIDContextKey).(uuid.UUID)
	return v, is
}

// LoggerFrom returns the run's logger, tagged with the run id.
func LoggerFrom(ctx context.Context) Logger {
	v, is := ctx.Value(loggerContextKey).(Logger)
	if is {
		return v
	}
	return nologging{}
}

// WithLogger returns a context carrying l, for code that runs outside a flow
// run, such as loading a flow file.
func WithLogger(ctx context.Context, l Logger) context.Context {
	if l == nil {
		return ctx
	}
	return setLogger(ctx, l)
}
