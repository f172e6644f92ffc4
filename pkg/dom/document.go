// Package dom is a minimal in-memory document that hosts custom elements.
//
// A Document owns a body element and an event loop. Creating an element whose
// tag is defined in the document's registry upgrades it: the element becomes
// the core.Host of a new component instance. Inserting it under the body
// connects it, and attribute changes are reported to the component when the
// attribute is observed. Each upgraded element renders into a closed shadow
// root whose content is produced by the document's Renderer.
//
// Documents are not thread-safe. Use them from the loop's goroutine only.
package dom

import (
	"fmt"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/go-drift/elements/pkg/core"
	"github.com/go-drift/elements/pkg/log"
	"github.com/go-drift/elements/pkg/loop"
)

// Renderer commits a render description into a shadow root.
type Renderer func(desc core.Description, root *ShadowRoot) error

// Option configures a Document.
type Option func(*Document)

// WithRegistry sets the registry used to upgrade elements. The default is
// core.DefaultRegistry.
func WithRegistry(r *core.Registry) Option {
	return func(d *Document) {
		d.registry = r
	}
}

// WithRenderer sets the renderer. The default commits descriptions as text.
func WithRenderer(fn Renderer) Option {
	return func(d *Document) {
		d.renderer = fn
	}
}

// Document is a tree of elements rooted at a connected body.
type Document struct {
	loop     *loop.Loop
	registry *core.Registry
	renderer Renderer
	body     *Element
}

// NewDocument creates a document whose elements schedule work on l.
func NewDocument(l *loop.Loop, opts ...Option) *Document {
	d := &Document{
		loop:     l,
		registry: core.DefaultRegistry,
		renderer: textRenderer,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.body = &Element{doc: d, tag: "body", connected: true}
	return d
}

// Loop returns the document's event loop.
func (d *Document) Loop() *loop.Loop {
	return d.loop
}

// Registry returns the registry used to upgrade elements.
func (d *Document) Registry() *core.Registry {
	return d.registry
}

// Body returns the document's body element. It is always connected.
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement creates a detached element. If tag is defined in the
// document's registry the element is upgraded immediately.
func (d *Document) CreateElement(tag string) *Element {
	e := &Element{doc: d, tag: strings.ToLower(tag)}
	if typ, ok := d.registry.Lookup(e.tag); ok {
		e.upgrade(typ)
	}
	return e
}

// Adopt moves e, and its subtree, into d. e is removed from its current
// parent first. Upgraded elements receive AdoptedCallback.
func (d *Document) Adopt(e *Element) {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
	if e.doc == d {
		return
	}
	e.walk(func(n *Element) {
		n.doc = d
		if n.callbacks != nil {
			log.Debug(log.CatDOM, "element adopted", "tag", n.tag)
			n.callbacks.AdoptedCallback()
		}
	})
}

// QuerySelectorAll returns the elements under the body, in document order,
// whose tag matches. Shadow roots are not searched.
func (d *Document) QuerySelectorAll(tag string) []*Element {
	tag = strings.ToLower(tag)
	var found []*Element
	for _, c := range d.body.children {
		c.walk(func(n *Element) {
			if n.tag == tag {
				found = append(found, n)
			}
		})
	}
	return found
}

// QuerySelector returns the first element matching tag, or nil.
func (d *Document) QuerySelector(tag string) *Element {
	if all := d.QuerySelectorAll(tag); len(all) > 0 {
		return all[0]
	}
	return nil
}

// textRenderer commits descriptions as a single text node.
func textRenderer(desc core.Description, root *ShadowRoot) error {
	if desc == nil {
		root.Replace(nil)
		return nil
	}
	root.Replace([]*xhtml.Node{{Type: xhtml.TextNode, Data: fmt.Sprint(desc)}})
	return nil
}
