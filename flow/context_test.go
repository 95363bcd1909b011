package flow // import "github.com/orkestr8/xflow/flow"

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestContextRunID(t *testing.T) {

	_, has := RunIDFrom(context.Background())
	require.False(t, has)

	ctx := context.Background()
	id := uuid.New()
	ctx = setRunID(ctx, id)
	got, has := RunIDFrom(ctx)
	require.True(t, has)
	require.Equal(t, id, got)
}

func TestContextLogger(t *testing.T) {

	require.Equal(t, nologging{}, LoggerFrom(context.Background()))

	l := &recorder{}
	ctx := setLogger(context.Background(), l)
	require.Same(t, l, LoggerFrom(ctx))
}

func TestWithLogger(t *testing.T) {

	ctx := context.Background()
	require.Equal(t, ctx, WithLogger(ctx, nil))

	l := &recorder{}
	require.Same(t, l, LoggerFrom(WithLogger(ctx, l)))
}
