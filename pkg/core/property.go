package core

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// declaration is one row of a type's property table.
type declaration struct {
	owner     *Type
	name      string
	attribute string
	slot      int

	reflect       bool
	fromAttribute func(raw string) (any, error)
	toAttribute   func(v any) (string, bool)
}

// Option configures a property declaration.
type Option func(*declaration)

// Reflect mirrors every write of the property back onto the host attribute.
// A nil value removes the attribute.
func Reflect() Option {
	return func(d *declaration) {
		d.reflect = true
	}
}

// FromAttribute converts raw attribute values before they are assigned to the
// property. Without it the raw string is assigned unchanged.
func FromAttribute(fn func(raw string) (any, error)) Option {
	return func(d *declaration) {
		d.fromAttribute = fn
	}
}

// ToAttribute formats property values for Reflect. Returning false removes the
// attribute. The default formats strings as-is and everything else with fmt.
func ToAttribute(fn func(v any) (string, bool)) Option {
	return func(d *declaration) {
		d.toAttribute = fn
	}
}

// YAMLAttribute decodes raw attribute values as YAML scalars or flow
// collections into T, so "3" becomes 3 and "[a, b]" becomes []string{"a", "b"}.
func YAMLAttribute[T any]() Option {
	return FromAttribute(func(raw string) (any, error) {
		var v T
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, err
		}
		return v, nil
	})
}

func (d *declaration) format(v any) (string, bool) {
	if d.toAttribute != nil {
		return d.toAttribute(v)
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Property is a typed handle to a declared property.
type Property[T any] struct {
	d *declaration
}

// Declare adds a property to t and returns its typed handle. It must be called
// before t is defined or instantiated, typically in a package-level var block.
func Declare[T any](t *Type, name string, opts ...Option) Property[T] {
	return Property[T]{d: t.declare(name, opts)}
}

// Name returns the property name.
func (p Property[T]) Name() string {
	return p.d.name
}

// Attribute returns the observed attribute name.
func (p Property[T]) Attribute() string {
	return p.d.attribute
}

// Lookup returns the stored value and whether it holds a T.
func (p Property[T]) Lookup(c Component) (T, bool) {
	v, ok := p.base(c).slots[p.d.slot].(T)
	return v, ok
}

// Get returns the stored value, or the zero T if the slot is unset or holds
// another type (for example a raw attribute string).
func (p Property[T]) Get(c Component) T {
	v, _ := p.Lookup(c)
	return v
}

// Set writes the property and requests an update.
func (p Property[T]) Set(c Component, v T) {
	p.base(c).set(p.d, v)
}

func (p Property[T]) base(c Component) *Base {
	b := c.element()
	if b.typ == nil {
		panic(fmt.Sprintf("core: property %q used on an element not built by Type.New", p.d.name))
	}
	if b.typ != p.d.owner {
		panic(fmt.Sprintf("core: property %q of %s used on %s", p.d.name, p.d.owner.name, b.typ.name))
	}
	return b
}
