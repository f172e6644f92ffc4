package core

import (
	"bytes"
	stderrors "errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/elements/pkg/log"
)

func TestInitialUpdateWaitsForConnect(t *testing.T) {
	w, h := newWidget(t)

	require.True(t, w.UpdatePending(), "construction requests an update")
	h.pump()
	require.Empty(t, h.renders, "no render before the first connect")
	require.Equal(t, Pending, w.UpdateState())

	w.ConnectedCallback()
	require.Empty(t, h.renders, "render is deferred past the connecting segment")

	h.pump()
	require.Len(t, h.renders, 1)
	require.Equal(t, Idle, w.UpdateState())
}

func TestWritesBeforeConnectCoalesceIntoFirstRender(t *testing.T) {
	w, h := newWidget(t)

	countProp.Set(w, 1)
	h.pump()
	countProp.Set(w, 2)
	h.pump()
	require.Empty(t, h.renders)

	w.ConnectedCallback()
	h.pump()

	require.Len(t, h.renders, 1)
	require.Equal(t, 2, h.renders[0].(snapshot).Count)
}

func TestSameValueDoesNotRender(t *testing.T) {
	w, h := connectedWidget(t)
	countProp.Set(w, 5)
	h.pump()
	require.Len(t, h.renders, 1)

	countProp.Set(w, 5)
	require.Equal(t, Idle, w.UpdateState())
	require.False(t, h.loop.Pending(), "no render pass scheduled")
	h.pump()
	require.Len(t, h.renders, 1)
}

func TestForcedRefreshTwiceRendersOnce(t *testing.T) {
	w, h := connectedWidget(t)

	w.RequestUpdate()
	w.RequestUpdate()
	h.pump()

	require.Len(t, h.renders, 1)
}

func TestWritesInOneSegmentCoalesce(t *testing.T) {
	w, h := connectedWidget(t)

	h.loop.Post(func() {
		countProp.Set(w, 1)
		fooBarProp.Set(w, "a")
		countProp.Set(w, 2)
		fooBarProp.Set(w, "b")
		countProp.Set(w, 3)
	})
	h.pump()

	require.Len(t, h.renders, 1)
	require.Equal(t, snapshot{Count: 3, FooBar: "b"}, h.renders[0])
}

func TestSeparateSegmentsRenderInOrder(t *testing.T) {
	w, h := connectedWidget(t)

	h.loop.Post(func() { countProp.Set(w, 1) })
	h.loop.Post(func() { countProp.Set(w, 2) })
	h.pump()

	require.Len(t, h.renders, 2)
	require.Equal(t, 1, h.renders[0].(snapshot).Count)
	require.Equal(t, 2, h.renders[1].(snapshot).Count)
}

func TestRequestDuringPendingIsAbsorbed(t *testing.T) {
	w, h := connectedWidget(t)

	countProp.Set(w, 1)
	require.True(t, w.UpdatePending())
	// A request arriving from deferred work before the pass runs joins it.
	h.loop.Defer(func() { countProp.Set(w, 9) })
	h.pump()

	require.Len(t, h.renders, 1)
	require.Equal(t, 9, h.renders[0].(snapshot).Count)
}

func TestNaNWritesDoNotRender(t *testing.T) {
	w, h := connectedWidget(t)

	ratioProp.Set(w, nan)
	h.pump()
	require.Len(t, h.renders, 1, "nil to NaN is a change")

	ratioProp.Set(w, nan)
	require.False(t, w.UpdatePending())
	h.pump()
	require.Len(t, h.renders, 1, "NaN to NaN is not a change")

	ratioProp.Set(w, 1.5)
	h.pump()
	require.Len(t, h.renders, 2, "NaN to a number is a change")
}

func TestDisconnectDoesNotCancelPendingRender(t *testing.T) {
	w, h := connectedWidget(t)

	countProp.Set(w, 4)
	w.DisconnectedCallback()
	h.pump()

	require.Len(t, h.renders, 1)
	require.False(t, w.IsConnected())
}

func TestRenderWhileDisconnectedAfterFirstAttach(t *testing.T) {
	w, h := connectedWidget(t)
	w.DisconnectedCallback()

	countProp.Set(w, 8)
	h.pump()

	require.Len(t, h.renders, 1, "the gate stays open after detach")
}

func TestMissingRootLogsAndReturnsToIdle(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	h := newTestHost()
	h.nilRoot = true
	w := widgetType.New(h).(*widget)

	w.ConnectedCallback()
	h.pump()

	require.Empty(t, h.renders)
	require.Equal(t, Idle, w.UpdateState())
	require.Contains(t, buf.String(), "no rendering root")

	w.DisconnectedCallback()
	w.ConnectedCallback()
	require.Equal(t, 1, h.roots, "a host that returned no root is not asked again")
}

func TestRenderErrorReturnsToIdle(t *testing.T) {
	sink := captureErrors(t)
	w, h := connectedWidget(t)

	h.renderErr = stderrors.New("commit failed")
	countProp.Set(w, 1)
	h.pump()

	require.Len(t, sink.renders, 1)
	require.ErrorIs(t, sink.renders[0], h.renderErr)
	require.Equal(t, widgetType.Tag(), sink.renders[0].Tag)
	require.Equal(t, w.ID(), sink.renders[0].ID)
	require.Equal(t, Idle, w.UpdateState())

	h.renderErr = nil
	countProp.Set(w, 2)
	h.pump()
	require.Len(t, h.renders, 1, "the next legitimate request renders")
}

func TestRenderPanicIsRecovered(t *testing.T) {
	sink := captureErrors(t)
	w, h := connectedWidget(t)

	w.panicOnRender = true
	w.RequestUpdate()
	h.pump()

	require.Len(t, sink.renders, 1)
	require.Equal(t, "render exploded", sink.renders[0].Recovered)
	require.NotEmpty(t, sink.renders[0].StackTrace)
	require.Empty(t, sink.panics, "render panics do not escape to the loop")
	require.False(t, w.UpdatePending())
}

func TestRequestPropertyUpdateComparesCurrentValue(t *testing.T) {
	w, h := connectedWidget(t)
	countProp.Set(w, 3)
	h.pump()
	h.renders = nil

	w.RequestPropertyUpdate("count", 3)
	require.False(t, w.UpdatePending())

	w.RequestPropertyUpdate("count", 2)
	require.True(t, w.UpdatePending())
	h.pump()
	require.Len(t, h.renders, 1)
}

func TestUpdateStateString(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "pending", Pending.String())
}
