package testing

import (
	"errors"
	"sync"
	"testing"

	"github.com/go-drift/elements/pkg/core"
	"github.com/go-drift/elements/pkg/dom"
	elerrors "github.com/go-drift/elements/pkg/errors"
	"github.com/go-drift/elements/pkg/loop"
	"github.com/go-drift/elements/pkg/render"
)

// MaxPumps bounds PumpAndSettle.
const MaxPumps = 100

// ErrSettleTimeout is returned when PumpAndSettle exceeds MaxPumps.
var ErrSettleTimeout = errors.New("PumpAndSettle: loop did not settle")

// ElementTester mounts elements into an isolated document and drives its loop
// by hand. Errors reported while the tester is active are recorded instead of
// logged.
type ElementTester struct {
	registry    *core.Registry
	loop        *loop.Loop
	doc         *dom.Document
	recorder    *recorder
	prevHandler elerrors.ErrorHandler
}

// NewElementTester creates a tester with an empty registry, using
// render.Commit as the document's renderer. Call Cleanup() when done, or use
// NewElementTesterWithT() instead.
func NewElementTester() *ElementTester {
	t := &ElementTester{
		registry:    core.NewRegistry(),
		loop:        loop.New(),
		recorder:    &recorder{},
		prevHandler: elerrors.Handler(),
	}
	t.doc = dom.NewDocument(t.loop, dom.WithRegistry(t.registry), dom.WithRenderer(render.Commit))
	elerrors.SetHandler(t.recorder)
	return t
}

// NewElementTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewElementTesterWithT(t *testing.T) *ElementTester {
	tester := NewElementTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup detaches mounted elements and restores the global error handler.
func (t *ElementTester) Cleanup() {
	for _, c := range t.doc.Body().Children() {
		c.Remove()
	}
	elerrors.SetHandler(t.prevHandler)
}

// Define registers typ under tag in the tester's registry.
func (t *ElementTester) Define(tag string, typ *core.Type) error {
	return t.registry.Define(tag, typ)
}

// MustDefine is like Define but panics on error.
func (t *ElementTester) MustDefine(tag string, typ *core.Type) {
	t.registry.MustDefine(tag, typ)
}

// Registry returns the tester's registry.
func (t *ElementTester) Registry() *core.Registry {
	return t.registry
}

// Loop returns the tester's event loop.
func (t *ElementTester) Loop() *loop.Loop {
	return t.loop
}

// Document returns the tester's document.
func (t *ElementTester) Document() *dom.Document {
	return t.doc
}

// Create creates a detached element and sets attrs, given as name/value
// pairs. A trailing unpaired name is set to "".
func (t *ElementTester) Create(tag string, attrs ...string) *dom.Element {
	el := t.doc.CreateElement(tag)
	for i := 0; i < len(attrs); i += 2 {
		value := ""
		if i+1 < len(attrs) {
			value = attrs[i+1]
		}
		el.SetAttribute(attrs[i], value)
	}
	return el
}

// Mount creates an element, appends it to the body and pumps the loop.
func (t *ElementTester) Mount(tag string, attrs ...string) *dom.Element {
	el := t.Create(tag, attrs...)
	t.doc.Body().AppendChild(el)
	t.Pump()
	return el
}

// Pump drains the loop and returns the number of tasks run.
func (t *ElementTester) Pump() int {
	return t.loop.Drain()
}

// PumpAndSettle pumps until the loop has no queued work. Returns
// ErrSettleTimeout if work is still queued after MaxPumps drains.
func (t *ElementTester) PumpAndSettle() error {
	for range MaxPumps {
		t.Pump()
		if !t.loop.Pending() {
			return nil
		}
	}
	return ErrSettleTimeout
}

// Segment runs fn as one loop segment and pumps until the deferred work it
// scheduled has run.
func (t *ElementTester) Segment(fn func()) {
	t.loop.Post(fn)
	t.Pump()
}

// Renders returns how many times el's shadow root was committed.
func (t *ElementTester) Renders(el *dom.Element) int {
	if sr := el.ShadowRoot(); sr != nil {
		return sr.Commits()
	}
	return 0
}

// Find evaluates a finder against the document body.
func (t *ElementTester) Find(finder Finder) FinderResult {
	return FinderResult{
		elements: finder.Evaluate(t.doc.Body()),
		finder:   finder,
	}
}

// Errors returns the errors reported since the tester was created or since
// the last ResetErrors.
func (t *ElementTester) Errors() []error {
	return t.recorder.all()
}

// ResetErrors discards recorded errors.
func (t *ElementTester) ResetErrors() {
	t.recorder.reset()
}

// recorder is an ErrorHandler that keeps every reported error.
type recorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *recorder) add(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) all() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = nil
}

func (r *recorder) HandleError(err *elerrors.ElementError)     { r.add(err) }
func (r *recorder) HandlePanic(err *elerrors.PanicError)       { r.add(err) }
func (r *recorder) HandleRenderError(err *elerrors.RenderError) { r.add(err) }
