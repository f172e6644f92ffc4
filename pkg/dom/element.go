package dom

import (
	"fmt"
	"slices"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/go-drift/elements/pkg/core"
	"github.com/go-drift/elements/pkg/errors"
	"github.com/go-drift/elements/pkg/log"
)

// callbacks are the lifecycle entry points an upgraded component gets from
// embedding core.Base.
type callbacks interface {
	Type() *core.Type
	ConnectedCallback()
	DisconnectedCallback()
	AdoptedCallback()
	AttributeChangedCallback(name, oldValue, newValue string)
	AttributeRemovedCallback(name, oldValue string)
}

// Element is a node in a Document. Upgraded elements are the host of a
// component and implement core.Host.
type Element struct {
	doc       *Document
	tag       string
	attrs     []xhtml.Attribute
	parent    *Element
	children  []*Element
	connected bool

	component core.Component
	callbacks callbacks
	shadow    *ShadowRoot
}

var _ core.Host = (*Element)(nil)

func (e *Element) upgrade(typ *core.Type) {
	c := typ.New(e)
	cb, ok := c.(callbacks)
	if !ok {
		// Only possible when a type shadows a Base callback with another
		// signature.
		errors.Report(&errors.ElementError{
			Op:   "dom.CreateElement",
			Kind: errors.KindPlatform,
			Tag:  e.tag,
			Err:  fmt.Errorf("%s hides the lifecycle callbacks of core.Base", typ.Name()),
		})
		return
	}
	e.component = c
	e.callbacks = cb
	log.Debug(log.CatDOM, "element upgraded", "tag", e.tag, "type", typ.Name())
}

// Tag returns the lowercase tag name.
func (e *Element) Tag() string {
	return e.tag
}

// Document returns the element's owner document.
func (e *Element) Document() *Document {
	return e.doc
}

// Component returns the component the element hosts, or nil if the element
// was not upgraded.
func (e *Element) Component() core.Component {
	return e.component
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// IsConnected reports whether the element is in its document's body.
func (e *Element) IsConnected() bool {
	return e.connected
}

// ShadowRoot returns the element's rendering root, or nil before the hosted
// component is first connected.
func (e *Element) ShadowRoot() *ShadowRoot {
	return e.shadow
}

// GetAttribute returns the attribute value and whether it is present.
func (e *Element) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.attrs {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

// Attributes returns a copy of the attributes in insertion order.
func (e *Element) Attributes() []xhtml.Attribute {
	return slices.Clone(e.attrs)
}

// SetAttribute sets an attribute. Observed attributes are reported to the
// hosted component, even when the value does not change.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	old := ""
	if i := e.attrIndex(name); i >= 0 {
		old = e.attrs[i].Val
		e.attrs[i].Val = value
	} else {
		e.attrs = append(e.attrs, xhtml.Attribute{Key: name, Val: value})
	}
	if e.observes(name) {
		e.callbacks.AttributeChangedCallback(name, old, value)
	}
}

// RemoveAttribute removes an attribute. Removing an absent attribute does
// nothing.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	i := e.attrIndex(name)
	if i < 0 {
		return
	}
	old := e.attrs[i].Val
	e.attrs = slices.Delete(e.attrs, i, i+1)
	if e.observes(name) {
		e.callbacks.AttributeRemovedCallback(name, old)
	}
}

func (e *Element) attrIndex(name string) int {
	return slices.IndexFunc(e.attrs, func(a xhtml.Attribute) bool { return a.Key == name })
}

func (e *Element) observes(name string) bool {
	return e.callbacks != nil && e.callbacks.Type().Observes(name)
}

// AppendChild appends child, first removing it from its current parent. If e
// is connected, child's subtree is connected in tree order.
func (e *Element) AppendChild(child *Element) {
	if child == e || child.contains(e) {
		panic("dom: AppendChild would create a cycle")
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	if child.doc != e.doc {
		e.doc.Adopt(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	if e.connected {
		child.walk(func(n *Element) {
			n.connected = true
			if n.callbacks != nil {
				log.Debug(log.CatDOM, "element connected", "tag", n.tag)
				n.callbacks.ConnectedCallback()
			}
		})
	}
}

// RemoveChild removes child from e. It does nothing if child is not a child of
// e. A connected subtree is disconnected in tree order.
func (e *Element) RemoveChild(child *Element) {
	i := slices.Index(e.children, child)
	if i < 0 {
		return
	}
	e.children = slices.Delete(e.children, i, i+1)
	child.parent = nil
	if child.connected {
		child.walk(func(n *Element) {
			n.connected = false
			if n.callbacks != nil {
				log.Debug(log.CatDOM, "element disconnected", "tag", n.tag)
				n.callbacks.DisconnectedCallback()
			}
		})
	}
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// walk visits e and its descendants in tree order.
func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range slices.Clone(e.children) {
		c.walk(fn)
	}
}

func (e *Element) contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Defer implements core.Host.
func (e *Element) Defer(fn func()) {
	e.doc.loop.Defer(fn)
}

// AttachRoot implements core.Host by attaching a closed shadow root.
func (e *Element) AttachRoot() core.Root {
	if e.shadow == nil {
		e.shadow = &ShadowRoot{host: e, mode: "closed"}
	}
	return e.shadow
}

// Render implements core.Host by passing desc to the document's renderer.
func (e *Element) Render(desc core.Description, root core.Root) error {
	sr, ok := root.(*ShadowRoot)
	if !ok || sr == nil {
		return &errors.ElementError{
			Op:   "dom.Render",
			Kind: errors.KindPlatform,
			Tag:  e.tag,
			Err:  fmt.Errorf("root is %T, want *dom.ShadowRoot", root),
		}
	}
	return e.doc.renderer(desc, sr)
}
