package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCreatedOnceAcrossReattach(t *testing.T) {
	w, h := newWidget(t)
	require.Nil(t, w.Root())

	for range 3 {
		w.ConnectedCallback()
		w.DisconnectedCallback()
	}
	w.ConnectedCallback()
	h.pump()

	require.Equal(t, 1, h.roots)
	require.Equal(t, "root-1", w.Root())
	require.Len(t, h.renders, 1)
}

func TestHooksAreCalled(t *testing.T) {
	w, h := newWidget(t)

	w.ConnectedCallback()
	require.Equal(t, 1, w.connects)
	require.Equal(t, "root-1", w.rootAtConnect, "root exists before Connect runs")
	require.True(t, w.IsConnected())
	require.True(t, w.Attached())

	w.DisconnectedCallback()
	require.Equal(t, 1, w.disconnects)
	require.False(t, w.IsConnected())
	require.True(t, w.Attached(), "detach does not close the gate")

	h.pump()
	w.AdoptedCallback()
	require.Equal(t, 1, w.adopts)
	require.False(t, h.loop.Pending(), "adoption schedules nothing")
	require.Len(t, h.renders, 1)
}

func TestMissingHooksAreNoOps(t *testing.T) {
	h := newTestHost()
	p := plainType.New(h).(*plain)

	require.NotPanics(t, func() {
		p.ConnectedCallback()
		p.AdoptedCallback()
		p.DisconnectedCallback()
	})
	h.pump()
	require.Equal(t, []Description{"plain"}, h.renders)
}

func TestAttributeBridgeCamelCases(t *testing.T) {
	w, h := connectedWidget(t)

	w.AttributeChangedCallback("foo-bar", "", "x")

	require.Equal(t, "x", fooBarProp.Get(w))
	v, ok := w.GetProperty("fooBar")
	require.True(t, ok)
	require.Equal(t, "x", v)

	h.pump()
	require.Len(t, h.renders, 1)
	require.Equal(t, "x", h.renders[0].(snapshot).FooBar)
}

func TestAttributeValueIsRawString(t *testing.T) {
	w, h := connectedWidget(t)

	w.AttributeChangedCallback("count", "", "5")
	h.pump()

	raw, _ := w.GetProperty("count")
	require.Equal(t, "5", raw, "no coercion without FromAttribute")
	_, ok := countProp.Lookup(w)
	require.False(t, ok)
	require.Equal(t, 0, countProp.Get(w))
	require.Equal(t, "5", h.renders[0].(snapshot).Count)
}

func TestAttributeRemovedAssignsNil(t *testing.T) {
	w, h := connectedWidget(t)
	w.AttributeChangedCallback("foo-bar", "", "x")
	h.pump()

	w.AttributeRemovedCallback("foo-bar", "x")
	h.pump()

	v, _ := w.GetProperty("fooBar")
	require.Nil(t, v)
	require.Len(t, h.renders, 2)
}

func TestUnknownAttributeIsReported(t *testing.T) {
	sink := captureErrors(t)
	w, h := connectedWidget(t)

	w.AttributeChangedCallback("nope", "", "1")
	h.pump()

	require.Len(t, sink.errs, 1)
	require.Empty(t, h.renders)
}

func TestYAMLAttributeCoercion(t *testing.T) {
	sink := captureErrors(t)
	w, h := connectedWidget(t)

	w.AttributeChangedCallback("size", "", "42")
	require.Equal(t, 42, sizeProp.Get(w))

	w.AttributeChangedCallback("size", "42", "not: [valid")
	require.Equal(t, 42, sizeProp.Get(w), "failed conversion leaves the property unchanged")
	require.Len(t, sink.errs, 1)

	h.pump()
	require.Len(t, h.renders, 1)
}

func TestReflectWritesAttribute(t *testing.T) {
	w, h := connectedWidget(t)

	titleProp.Set(w, "hello")
	require.Equal(t, "hello", h.attrs["title"])
	require.Equal(t, "hello", titleProp.Get(w))

	tagsProp.Set(w, []string{"a", "b"})
	require.Equal(t, "[a, b]", h.attrs["tags"])
	require.Equal(t, []string{"a", "b"}, tagsProp.Get(w), "the echoed attribute does not overwrite the property")

	tagsProp.Set(w, nil)
	_, ok := h.attrs["tags"]
	require.False(t, ok)

	h.pump()
	require.Len(t, h.renders, 1)
}

func TestAttributeWriteIsNotReflectedBack(t *testing.T) {
	w, h := connectedWidget(t)

	h.SetAttribute("tags", "[x,y]")

	require.Equal(t, []string{"x", "y"}, tagsProp.Get(w))
	require.Equal(t, "[x,y]", h.attrs["tags"], "host attribute keeps its original text")
}

// mirror derives a reflected upper-case copy of source in SetProperty.
type mirror struct {
	Base
}

var (
	mirrorType   = NewType(func() *mirror { return &mirror{} })
	mirrorSource = Declare[string](mirrorType, "source")
	mirrorUpper  = Declare[string](mirrorType, "upper", Reflect())
)

func (m *mirror) Render() Description { return nil }

func (m *mirror) SetProperty(name string, value any) error {
	if err := m.Base.SetProperty(name, value); err != nil {
		return err
	}
	if s, ok := value.(string); ok && name == "source" {
		mirrorUpper.Set(m, strings.ToUpper(s))
	}
	return nil
}

func TestAttributeWriteReflectsOtherProperties(t *testing.T) {
	h := newTestHost()
	m := mirrorType.New(h).(*mirror)
	h.el = &m.Base

	h.SetAttribute("upper", "direct")
	require.Equal(t, "direct", mirrorUpper.Get(m))

	h.SetAttribute("source", "abc")
	require.Equal(t, "abc", mirrorSource.Get(m))
	require.Equal(t, "ABC", mirrorUpper.Get(m))
	require.Equal(t, "ABC", h.attrs["upper"], "the derived property is reflected")

	h.SetAttribute("upper", "manual")
	require.Equal(t, "manual", mirrorUpper.Get(m), "attribute callbacks still reach the property afterwards")

	h.RemoveAttribute("source")
	_, ok := mirrorSource.Lookup(m)
	require.False(t, ok)
	require.Equal(t, "manual", h.attrs["upper"])
}
