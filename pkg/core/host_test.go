package core

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/go-drift/elements/pkg/errors"
	"github.com/go-drift/elements/pkg/loop"
)

// testHost is an in-memory Host that records render passes.
type testHost struct {
	loop    *loop.Loop
	el      *Base
	nilRoot bool

	roots     int
	renders   []Description
	renderErr error
	attrs     map[string]string
}

func newTestHost() *testHost {
	return &testHost{loop: loop.New(), attrs: make(map[string]string)}
}

func (h *testHost) Defer(fn func()) { h.loop.Defer(fn) }

func (h *testHost) AttachRoot() Root {
	h.roots++
	if h.nilRoot {
		return nil
	}
	return fmt.Sprintf("root-%d", h.roots)
}

func (h *testHost) Render(desc Description, root Root) error {
	if h.renderErr != nil {
		return h.renderErr
	}
	h.renders = append(h.renders, desc)
	return nil
}

func (h *testHost) SetAttribute(name, value string) {
	old := h.attrs[name]
	h.attrs[name] = value
	if h.el != nil && h.el.typ.Observes(name) {
		h.el.AttributeChangedCallback(name, old, value)
	}
}

func (h *testHost) RemoveAttribute(name string) {
	old, ok := h.attrs[name]
	if !ok {
		return
	}
	delete(h.attrs, name)
	if h.el != nil && h.el.typ.Observes(name) {
		h.el.AttributeRemovedCallback(name, old)
	}
}

func (h *testHost) pump() { h.loop.Drain() }

// widget is the element used across the core tests.
type widget struct {
	Base
	connects, disconnects, adopts int
	rootAtConnect                 Root
	panicOnRender                 bool
}

// snapshot is the render description of a widget.
type snapshot struct {
	Count  any
	FooBar any
	Ratio  any
}

func (w *widget) Render() Description {
	if w.panicOnRender {
		panic("render exploded")
	}
	count, _ := w.GetProperty("count")
	fooBar, _ := w.GetProperty("fooBar")
	ratio, _ := w.GetProperty("ratio")
	return snapshot{Count: count, FooBar: fooBar, Ratio: ratio}
}

func (w *widget) Connect() {
	w.connects++
	w.rootAtConnect = w.Root()
}

func (w *widget) Disconnect() { w.disconnects++ }

func (w *widget) Adopted() { w.adopts++ }

// plain implements no lifecycle hooks.
type plain struct {
	Base
}

func (p *plain) Render() Description { return "plain" }

var (
	widgetType = NewType(func() *widget { return &widget{} })
	countProp  = Declare[int](widgetType, "count")
	fooBarProp = Declare[string](widgetType, "fooBar")
	ratioProp  = Declare[float64](widgetType, "ratio")
	sizeProp   = Declare[int](widgetType, "size", YAMLAttribute[int]())
	titleProp  = Declare[string](widgetType, "title", Reflect())
	tagsProp   = Declare[[]string](widgetType, "tags", YAMLAttribute[[]string](), Reflect(), ToAttribute(formatTags))

	plainType = NewType(func() *plain { return &plain{} })
	plainName = Declare[string](plainType, "name")
)

var nan = math.NaN()

func formatTags(v any) (string, bool) {
	tags, _ := v.([]string)
	if len(tags) == 0 {
		return "", false
	}
	return "[" + strings.Join(tags, ", ") + "]", true
}

func newWidget(t *testing.T) (*widget, *testHost) {
	t.Helper()
	h := newTestHost()
	w := widgetType.New(h).(*widget)
	h.el = &w.Base
	return w, h
}

func connectedWidget(t *testing.T) (*widget, *testHost) {
	t.Helper()
	w, h := newWidget(t)
	w.ConnectedCallback()
	h.pump()
	if len(h.renders) != 1 {
		t.Fatalf("initial render count = %d, want 1", len(h.renders))
	}
	h.renders = nil
	return w, h
}

// errorSink collects reported errors for the duration of a test.
type errorSink struct {
	mu      sync.Mutex
	errs    []*errors.ElementError
	renders []*errors.RenderError
	panics  []*errors.PanicError
}

func captureErrors(t *testing.T) *errorSink {
	t.Helper()
	sink := &errorSink{}
	errors.SetHandler(sink)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return sink
}

func (s *errorSink) HandleError(err *errors.ElementError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *errorSink) HandlePanic(err *errors.PanicError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panics = append(s.panics, err)
}

func (s *errorSink) HandleRenderError(err *errors.RenderError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders = append(s.renders, err)
}
