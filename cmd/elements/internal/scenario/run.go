package scenario

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/go-drift/elements/pkg/core"
	"github.com/go-drift/elements/pkg/dom"
	elerrors "github.com/go-drift/elements/pkg/errors"
	"github.com/go-drift/elements/pkg/log"
	"github.com/go-drift/elements/pkg/loop"
	"github.com/go-drift/elements/pkg/render"
	"github.com/go-drift/elements/pkg/snapshot"
)

// Result is the document state after one top-level step.
type Result struct {
	Index    int
	Title    string
	Snapshot string  // body children, one per line
	Renders  int     // render passes committed during the step
	Errors   []error // errors reported during the step
}

// Runner runs scenarios against a registry.
type Runner struct {
	Registry *core.Registry
	Version  string
}

// Run executes s and returns one result per top-level step. It stops early
// if ctx is cancelled.
func (r *Runner) Run(ctx context.Context, s *Scenario) ([]Result, error) {
	if err := s.CheckVersion(r.Version); err != nil {
		return nil, err
	}

	rec := &recorder{}
	prev := elerrors.Handler()
	elerrors.SetHandler(rec)
	defer elerrors.SetHandler(prev)

	l := loop.New()
	st := &state{
		doc:      dom.NewDocument(l, dom.WithRegistry(r.Registry), dom.WithRenderer(render.Commit)),
		elements: make(map[string]*dom.Element),
	}
	st.other = dom.NewDocument(l, dom.WithRegistry(r.Registry), dom.WithRenderer(render.Commit))

	results := make([]Result, 0, len(s.Steps))
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		before := st.commits()
		l.Post(func() {
			if step.Group != nil {
				for _, sub := range step.Group {
					st.apply(sub)
				}
				return
			}
			st.apply(step)
		})
		l.Drain()

		results = append(results, Result{
			Index:    i + 1,
			Title:    step.Title(),
			Snapshot: snapshot.Capture(st.doc),
			Renders:  st.commits() - before,
			Errors:   rec.take(),
		})
		log.Debug(log.CatCLI, "step done", "scenario", s.Name, "step", i+1, "renders", results[i].Renders)
	}
	return results, nil
}

// state is the document a scenario runs in. other is the document elements
// move to on adopt.
type state struct {
	doc      *dom.Document
	other    *dom.Document
	elements map[string]*dom.Element
	order    []*dom.Element
}

func (st *state) apply(step Step) {
	switch {
	case step.Mount != nil:
		m := step.Mount
		el := st.doc.CreateElement(m.Tag)
		for _, name := range slices.Sorted(maps.Keys(m.Attrs)) {
			el.SetAttribute(name, m.Attrs[name])
		}
		st.elements[m.ID] = el
		st.order = append(st.order, el)
		if !m.Detached {
			st.doc.Body().AppendChild(el)
		}
	case step.Set != nil:
		el := st.elements[step.Set.ID]
		c := el.Component()
		if c == nil {
			elerrors.Report(&elerrors.ElementError{
				Op:   "scenario.set",
				Kind: elerrors.KindConfig,
				Tag:  el.Tag(),
				Err:  fmt.Errorf("<%s> is not a defined element", el.Tag()),
			})
			return
		}
		if err := c.SetProperty(step.Set.Property, step.Set.Value); err != nil {
			elerrors.Report(&elerrors.ElementError{Op: "scenario.set", Kind: elerrors.KindConfig, Tag: el.Tag(), Err: err})
		}
	case step.Attr != nil:
		st.elements[step.Attr.ID].SetAttribute(step.Attr.Name, step.Attr.Value)
	case step.RemoveAttr != nil:
		st.elements[step.RemoveAttr.ID].RemoveAttribute(step.RemoveAttr.Name)
	case step.Detach != "":
		st.elements[step.Detach].Remove()
	case step.Attach != "":
		st.doc.Body().AppendChild(st.elements[step.Attach])
	case step.Adopt != "":
		st.other.Adopt(st.elements[step.Adopt])
	}
}

func (st *state) commits() int {
	n := 0
	for _, el := range st.order {
		if sr := el.ShadowRoot(); sr != nil {
			n += sr.Commits()
		}
	}
	return n
}

// recorder is an ErrorHandler that buffers errors until the next take.
type recorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *recorder) add(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) take() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := r.errs
	r.errs = nil
	return errs
}

func (r *recorder) HandleError(err *elerrors.ElementError)     { r.add(err) }
func (r *recorder) HandlePanic(err *elerrors.PanicError)       { r.add(err) }
func (r *recorder) HandleRenderError(err *elerrors.RenderError) { r.add(err) }
