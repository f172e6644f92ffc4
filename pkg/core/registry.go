package core

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-drift/elements/pkg/errors"
	"github.com/go-drift/elements/pkg/log"
)

// Registry maps tag names to element types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
	tags  map[*Type]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Type),
		tags:  make(map[*Type]string),
	}
}

// DefaultRegistry is the registry used by Define and Lookup.
var DefaultRegistry = NewRegistry()

// Define registers t under tag in the default registry.
func Define(tag string, t *Type) error {
	return DefaultRegistry.Define(tag, t)
}

// MustDefine is like Define but panics on error. Use it from init functions.
func MustDefine(tag string, t *Type) {
	DefaultRegistry.MustDefine(tag, t)
}

// Lookup returns the type registered under tag in the default registry.
func Lookup(tag string) (*Type, bool) {
	return DefaultRegistry.Lookup(tag)
}

// Define registers t under tag and seals t's property table. The tag must be a
// valid custom element name and neither tag nor t may already be defined in
// r. A type may be defined in several registries; Tag reports the first tag.
func (r *Registry) Define(tag string, t *Type) error {
	if err := ValidateTag(tag); err != nil {
		return &errors.ElementError{Op: "core.Define", Kind: errors.KindConfig, Tag: tag, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[tag]; exists {
		return &errors.ElementError{Op: "core.Define", Kind: errors.KindConfig, Tag: tag, Err: errors.ErrDuplicateTag}
	}
	if prev, ok := r.tags[t]; ok {
		return &errors.ElementError{
			Op:   "core.Define",
			Kind: errors.KindConfig,
			Tag:  tag,
			Err:  fmt.Errorf("%w: %s is defined as <%s>", errors.ErrTypeDefined, t.name, prev),
		}
	}

	if t.tag == "" {
		t.tag = tag
	}
	t.sealed = true
	r.types[tag] = t
	r.tags[t] = tag
	log.Debug(log.CatCore, "element defined", "tag", tag, "type", t.name, "observed", strings.Join(t.observed, ","))
	return nil
}

// MustDefine is like Define but panics on error.
func (r *Registry) MustDefine(tag string, t *Type) {
	if err := r.Define(tag, t); err != nil {
		panic(err)
	}
}

// Lookup returns the type registered under tag.
func (r *Registry) Lookup(tag string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[tag]
	return t, ok
}

// Tags returns the defined tag names in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

var reservedTags = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// ValidateTag checks that tag is a valid custom element name: it starts with
// a lowercase ASCII letter, contains a hyphen, has no uppercase letters and is
// not one of the reserved SVG/MathML names.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: empty", errors.ErrInvalidTag)
	}
	if tag[0] < 'a' || tag[0] > 'z' {
		return fmt.Errorf("%w: %q must start with a lowercase letter", errors.ErrInvalidTag, tag)
	}
	if !strings.Contains(tag, "-") {
		return fmt.Errorf("%w: %q must contain a hyphen", errors.ErrInvalidTag, tag)
	}
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-', r == '.', r == '_':
		case r >= 0x80:
		default:
			return fmt.Errorf("%w: %q contains %q", errors.ErrInvalidTag, tag, r)
		}
	}
	if reservedTags[tag] {
		return fmt.Errorf("%w: %q is reserved", errors.ErrInvalidTag, tag)
	}
	return nil
}
