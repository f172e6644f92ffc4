package core

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-drift/elements/pkg/errors"
	"github.com/go-drift/elements/pkg/latch"
	"github.com/go-drift/elements/pkg/log"
)

// Base carries the per-instance state of an element: property storage, the
// rendering root and the update scheduler. Embed it in element structs.
//
// Base is NOT thread-safe. All calls must happen on the host's loop.
type Base struct {
	typ  *Type
	self Component
	host Host
	id   string

	slots []any

	root         Root
	rootAttached bool
	connected    bool
	gate         *latch.Gate
	pending      bool

	// syncing is the declaration whose value is moving between property and
	// attribute. Only its own echo is suppressed.
	syncing *declaration
}

func (b *Base) element() *Base { return b }

func (b *Base) bind(t *Type, self Component, host Host) {
	b.typ = t
	b.self = self
	b.host = host
	b.id = uuid.NewString()
	b.slots = make([]any, len(t.props))
	b.gate = latch.New(host)
}

// ID returns a unique identifier for this instance.
func (b *Base) ID() string {
	return b.id
}

// Type returns the element's type.
func (b *Base) Type() *Type {
	return b.typ
}

// Root returns the rendering root, or nil before the first connect.
func (b *Base) Root() Root {
	return b.root
}

// IsConnected reports whether the element is currently in a document.
func (b *Base) IsConnected() bool {
	return b.connected
}

// Attached reports whether the element has ever been connected, which is
// when its render passes are allowed to run.
func (b *Base) Attached() bool {
	return b.gate != nil && b.gate.IsOpen()
}

// GetProperty returns the current value of a declared property.
func (b *Base) GetProperty(name string) (any, bool) {
	d, ok := b.typ.byName[name]
	if !ok {
		return nil, false
	}
	return b.slots[d.slot], true
}

// SetProperty writes a declared property and requests an update.
// Returns ErrUnknownProperty if name was not declared on the element's type.
func (b *Base) SetProperty(name string, value any) error {
	d, ok := b.typ.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s has no property %q", errors.ErrUnknownProperty, b.typ.name, name)
	}
	b.set(d, value)
	return nil
}

// set is the property setter: store, request an update, then reflect.
func (b *Base) set(d *declaration, value any) {
	old := b.slots[d.slot]
	b.slots[d.slot] = value
	b.RequestPropertyUpdate(d.name, old)
	if d.reflect && b.syncing != d && Changed(old, value) {
		b.reflect(d, value)
	}
}

func (b *Base) reflect(d *declaration, value any) {
	defer b.sync(d)()

	if value == nil {
		b.host.RemoveAttribute(d.attribute)
		return
	}
	s, ok := d.format(value)
	if !ok {
		b.host.RemoveAttribute(d.attribute)
		return
	}
	b.host.SetAttribute(d.attribute, s)
}

// ConnectedCallback is called by the host when the element is inserted into a
// document. The first call creates the rendering root and releases pending
// render passes.
func (b *Base) ConnectedCallback() {
	if !b.rootAttached {
		b.root = b.host.AttachRoot()
		b.rootAttached = true
	}
	b.connected = true
	if b.gate.Open() {
		log.Debug(log.CatLifecycle, "update gate opened", "tag", b.typ.tag, "id", b.id)
	}
	if h, ok := b.self.(Connector); ok {
		h.Connect()
	}
}

// DisconnectedCallback is called by the host when the element is removed from
// its document. The rendering root is kept; a pending render still runs.
func (b *Base) DisconnectedCallback() {
	b.connected = false
	if h, ok := b.self.(Disconnector); ok {
		h.Disconnect()
	}
}

// AdoptedCallback is called by the host when the element moves to another
// document.
func (b *Base) AdoptedCallback() {
	if h, ok := b.self.(Adopter); ok {
		h.Adopted()
	}
}

// AttributeChangedCallback is called by the host when an observed attribute is
// set. The raw value is assigned to the matching property, converted first
// only if the property was declared with FromAttribute.
func (b *Base) AttributeChangedCallback(name, oldValue, newValue string) {
	if b.echoing(name) {
		return
	}
	d := b.attributeProperty(name)
	if d == nil {
		return
	}

	var value any = newValue
	if d.fromAttribute != nil {
		converted, err := d.fromAttribute(newValue)
		if err != nil {
			errors.Report(&errors.ElementError{
				Op:   "core.AttributeChangedCallback",
				Kind: errors.KindAttribute,
				Tag:  b.typ.tag,
				Err: &errors.AttributeError{
					Attribute: name,
					Property:  d.name,
					Raw:       newValue,
					Err:       err,
				},
			})
			return
		}
		value = converted
	}
	b.assign(d, value)
}

// AttributeRemovedCallback is called by the host when an observed attribute is
// removed. The matching property is set to nil.
func (b *Base) AttributeRemovedCallback(name, oldValue string) {
	if b.echoing(name) {
		return
	}
	if d := b.attributeProperty(name); d != nil {
		b.assign(d, nil)
	}
}

// sync marks d as syncing and returns a func restoring the previous mark.
// Syncs nest when a SetProperty override writes another reflected property.
func (b *Base) sync(d *declaration) func() {
	prev := b.syncing
	b.syncing = d
	return func() { b.syncing = prev }
}

// echoing reports whether an attribute callback is the echo of the
// declaration currently syncing.
func (b *Base) echoing(attr string) bool {
	return b.syncing != nil && b.syncing.attribute == attr
}

func (b *Base) attributeProperty(name string) *declaration {
	d := b.typ.propertyForAttribute(name)
	if d == nil {
		errors.Report(&errors.ElementError{
			Op:   "core.AttributeChangedCallback",
			Kind: errors.KindAttribute,
			Tag:  b.typ.tag,
			Err:  fmt.Errorf("%w: no property for attribute %q", errors.ErrUnknownProperty, name),
		})
	}
	return d
}

// assign routes through the element's SetProperty so element types can
// override it to coerce values.
func (b *Base) assign(d *declaration, value any) {
	defer b.sync(d)()
	if err := b.self.SetProperty(d.name, value); err != nil {
		errors.Report(&errors.ElementError{
			Op:   "core.SetProperty",
			Kind: errors.KindAttribute,
			Tag:  b.typ.tag,
			Err:  err,
		})
	}
}
