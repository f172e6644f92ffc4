package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/elements/pkg/errors"
)

type scratch struct {
	Base
}

func (s *scratch) Render() Description { return nil }

func TestDeclareRegistersKebabAttributes(t *testing.T) {
	typ := NewType(func() *scratch { return &scratch{} })
	Declare[string](typ, "fooBar")
	Declare[int](typ, "count")
	Declare[bool](typ, "userDisplayName")

	want := []string{"foo-bar", "count", "user-display-name"}
	if diff := cmp.Diff(want, typ.ObservedAttributes()); diff != "" {
		t.Errorf("ObservedAttributes() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fooBar", "count", "userDisplayName"}, typ.Properties()); diff != "" {
		t.Errorf("Properties() mismatch (-want +got):\n%s", diff)
	}
	require.True(t, typ.Observes("foo-bar"))
	require.False(t, typ.Observes("fooBar"))
}

func TestObservedAttributesIsACopy(t *testing.T) {
	typ := NewType(func() *scratch { return &scratch{} })
	Declare[string](typ, "name")

	got := typ.ObservedAttributes()
	got[0] = "mutated"

	require.Equal(t, []string{"name"}, typ.ObservedAttributes())
}

func TestDuplicateDeclarationSharesSlot(t *testing.T) {
	typ := NewType(func() *scratch { return &scratch{} })
	first := Declare[string](typ, "label")
	second := Declare[string](typ, "label")

	require.Equal(t, []string{"label", "label"}, typ.ObservedAttributes(), "duplicates are kept")
	require.Equal(t, []string{"label"}, typ.Properties())

	h := newTestHost()
	s := typ.New(h).(*scratch)
	first.Set(s, "a")
	require.Equal(t, "a", second.Get(s))
}

func TestDeclareAfterInstantiatePanics(t *testing.T) {
	typ := NewType(func() *scratch { return &scratch{} })
	Declare[string](typ, "a")
	typ.New(newTestHost())

	require.Panics(t, func() { Declare[string](typ, "b") })
}

func TestPropertyOnWrongTypePanics(t *testing.T) {
	w, _ := newWidget(t)
	require.Panics(t, func() { plainName.Get(w) })
	require.Panics(t, func() { plainName.Set(&plain{}, "x") }, "unbound element")
}

func TestPropertyHandle(t *testing.T) {
	w, _ := newWidget(t)

	require.Equal(t, "fooBar", fooBarProp.Name())
	require.Equal(t, "foo-bar", fooBarProp.Attribute())

	_, ok := countProp.Lookup(w)
	require.False(t, ok, "slots start unset")
	require.Equal(t, 0, countProp.Get(w))

	countProp.Set(w, 7)
	v, ok := countProp.Lookup(w)
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func TestGetSetPropertyByName(t *testing.T) {
	w, h := connectedWidget(t)

	require.NoError(t, w.SetProperty("count", 3))
	v, ok := w.GetProperty("count")
	require.True(t, ok)
	require.Equal(t, 3, v)

	err := w.SetProperty("missing", 1)
	require.ErrorIs(t, err, errors.ErrUnknownProperty)
	_, ok = w.GetProperty("missing")
	require.False(t, ok)

	h.pump()
	require.Len(t, h.renders, 1)
}

// coercing overrides SetProperty to convert attribute strings itself.
type coercing struct {
	Base
}

func (c *coercing) Render() Description { return nil }

func (c *coercing) SetProperty(name string, value any) error {
	if s, ok := value.(string); ok && name == "enabled" {
		return c.Base.SetProperty(name, s != "" && s != "false")
	}
	return c.Base.SetProperty(name, value)
}

func TestAttributeBridgeUsesSetPropertyOverride(t *testing.T) {
	typ := NewType(func() *coercing { return &coercing{} })
	enabled := Declare[bool](typ, "enabled")
	c := typ.New(newTestHost()).(*coercing)

	c.AttributeChangedCallback("enabled", "", "true")
	require.True(t, enabled.Get(c))

	c.AttributeChangedCallback("enabled", "true", "false")
	require.False(t, enabled.Get(c))
	_, ok := enabled.Lookup(c)
	require.True(t, ok)
}

func TestNewAssignsUniqueIDs(t *testing.T) {
	a, _ := newWidget(t)
	b, _ := newWidget(t)
	require.NotEmpty(t, a.ID())
	require.NotEqual(t, a.ID(), b.ID())
	require.Same(t, widgetType, a.Type())
}
