package latch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/elements/pkg/loop"
)

func TestThenWaitsForOpen(t *testing.T) {
	l := loop.New()
	g := New(l)
	var order []int

	g.Then(func() { order = append(order, 1) })
	g.Then(func() { order = append(order, 2) })
	l.Drain()
	require.Empty(t, order, "waiters must not run while closed")

	require.True(t, g.Open())
	require.Empty(t, order, "waiters run after the opening segment")

	l.Drain()
	require.Equal(t, []int{1, 2}, order)
}

func TestOpenIsIdempotent(t *testing.T) {
	l := loop.New()
	g := New(l)
	runs := 0
	g.Then(func() { runs++ })

	require.True(t, g.Open())
	require.False(t, g.Open())
	require.True(t, g.IsOpen())

	l.Drain()
	require.Equal(t, 1, runs)
}

func TestThenAfterOpenIsDeferred(t *testing.T) {
	l := loop.New()
	g := New(l)
	g.Open()

	ran := false
	g.Then(func() { ran = true })
	require.False(t, ran)

	l.Drain()
	require.True(t, ran)
}

func TestWait(t *testing.T) {
	g := New(loop.New())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)

	go g.Open()
	require.NoError(t, g.Wait(context.Background()))

	select {
	case <-g.Done():
	default:
		t.Fatal("Done channel should be closed")
	}
}
