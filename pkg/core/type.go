package core

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/go-drift/elements/pkg/casing"
	"github.com/go-drift/elements/pkg/log"
)

// Description is the opaque value returned by an element's Render method.
// Only the host's render function interprets it.
type Description = any

// Root is an opaque handle to the subtree an element renders into.
type Root any

// Host is the platform side of a single element instance.
type Host interface {
	// Defer schedules fn to run after the current loop segment.
	Defer(fn func())
	// AttachRoot creates the element's rendering root. It is called at most once.
	AttachRoot() Root
	// Render commits desc into root before returning.
	Render(desc Description, root Root) error
	// SetAttribute sets an attribute on the host node.
	SetAttribute(name, value string)
	// RemoveAttribute removes an attribute from the host node.
	RemoveAttribute(name string)
}

// Component is implemented by every element. Embed Base to satisfy it.
type Component interface {
	// Render returns a description of the element's content. It must be a
	// pure function of the element's properties.
	Render() Description
	// GetProperty returns the current value of a declared property.
	GetProperty(name string) (any, bool)
	// SetProperty writes a declared property and requests an update.
	SetProperty(name string, value any) error

	element() *Base
}

// Type describes one kind of element. It is shared by all of its instances.
type Type struct {
	name     string
	tag      string
	factory  func() Component
	props    []*declaration
	byName   map[string]*declaration
	byAttr   map[string]*declaration
	observed []string
	sealed   bool
}

// NewType creates a type whose instances are built by factory.
func NewType[C Component](factory func() C) *Type {
	return &Type{
		name:    reflect.TypeFor[C]().String(),
		factory: func() Component { return factory() },
		byName:  make(map[string]*declaration),
		byAttr:  make(map[string]*declaration),
	}
}

// Name returns the Go type name of the type's instances.
func (t *Type) Name() string {
	return t.name
}

// Tag returns the tag the type was first defined under, or "" if it is not
// defined.
func (t *Type) Tag() string {
	return t.tag
}

// ObservedAttributes returns the attribute names the host should report for
// instances of this type, in declaration order.
func (t *Type) ObservedAttributes() []string {
	return slices.Clone(t.observed)
}

// Properties returns the declared property names in declaration order.
func (t *Type) Properties() []string {
	names := make([]string, len(t.props))
	for i, d := range t.props {
		names[i] = d.name
	}
	return names
}

// Observes reports whether the host should report changes to attr.
func (t *Type) Observes(attr string) bool {
	return slices.Contains(t.observed, attr)
}

// New constructs an instance bound to host. The instance requests its initial
// update immediately; the render waits until the instance is connected.
func (t *Type) New(host Host) Component {
	t.sealed = true
	c := t.factory()
	b := c.element()
	b.bind(t, c, host)
	log.Debug(log.CatCore, "element constructed", "type", t.name, "id", b.id)
	b.RequestUpdate()
	return c
}

// declare records a property. A second declaration of the same name appends
// the attribute again and shares the first declaration's slot.
func (t *Type) declare(name string, opts []Option) *declaration {
	if t.sealed {
		panic(fmt.Sprintf("core: property %q declared on %s after it was defined or instantiated", name, t.name))
	}
	attr := casing.Kebab(name)
	t.observed = append(t.observed, attr)

	if d, ok := t.byName[name]; ok {
		log.Debug(log.CatCore, "property declared twice", "type", t.name, "property", name)
		return d
	}

	d := &declaration{
		owner:     t,
		name:      name,
		attribute: attr,
		slot:      len(t.props),
	}
	for _, opt := range opts {
		opt(d)
	}
	t.props = append(t.props, d)
	t.byName[name] = d
	t.byAttr[attr] = d
	return d
}

// propertyForAttribute resolves an observed attribute to its declaration by
// camel-casing the attribute name, falling back to the declared attribute map
// for names that do not survive the round trip.
func (t *Type) propertyForAttribute(attr string) *declaration {
	if d, ok := t.byName[casing.Camel(attr)]; ok {
		return d
	}
	return t.byAttr[attr]
}
