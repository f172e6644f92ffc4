package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/elements/pkg/core"
	"github.com/go-drift/elements/pkg/dom"
)

// Finder locates elements in the document.
type Finder interface {
	// Evaluate returns all matching elements under root (depth-first pre-order).
	Evaluate(root *dom.Element) []*dom.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []*dom.Element
	finder   Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *dom.Element {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.describe()))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *dom.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *dom.Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), r.describe()))
	}
	return r.elements[index]
}

// All returns all matches in document order.
func (r FinderResult) All() []*dom.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

// Component returns the component hosted by the first match. Panics if no
// matches.
func (r FinderResult) Component() core.Component {
	return r.First().Component()
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

// tagFinder matches elements by tag name.
type tagFinder struct {
	tag string
}

func (f *tagFinder) Evaluate(root *dom.Element) []*dom.Element {
	return collectMatches(root, func(e *dom.Element) bool {
		return e.Tag() == f.tag
	})
}

func (f *tagFinder) Description() string {
	return fmt.Sprintf("ByTag(%s)", f.tag)
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &tagFinder{tag: strings.ToLower(tag)}
}

// typeFinder matches upgraded elements whose component is of the specified
// type.
type typeFinder struct {
	componentType reflect.Type
}

func (f *typeFinder) Evaluate(root *dom.Element) []*dom.Element {
	return collectMatches(root, func(e *dom.Element) bool {
		c := e.Component()
		return c != nil && reflect.TypeOf(c) == f.componentType
	})
}

func (f *typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.componentType)
}

// ByType returns a finder that matches elements hosting a component of type C.
func ByType[C core.Component]() Finder {
	return &typeFinder{componentType: reflect.TypeFor[C]()}
}

// attributeFinder matches elements by attribute value.
type attributeFinder struct {
	name  string
	value string
}

func (f *attributeFinder) Evaluate(root *dom.Element) []*dom.Element {
	return collectMatches(root, func(e *dom.Element) bool {
		v, ok := e.GetAttribute(f.name)
		return ok && v == f.value
	})
}

func (f *attributeFinder) Description() string {
	return fmt.Sprintf("ByAttribute(%s=%q)", f.name, f.value)
}

// ByAttribute returns a finder that matches elements whose attribute name
// equals value.
func ByAttribute(name, value string) Finder {
	return &attributeFinder{name: strings.ToLower(name), value: value}
}

// renderedFinder matches elements whose shadow root contains text.
type renderedFinder struct {
	substring string
}

func (f *renderedFinder) Evaluate(root *dom.Element) []*dom.Element {
	return collectMatches(root, func(e *dom.Element) bool {
		sr := e.ShadowRoot()
		return sr != nil && strings.Contains(sr.InnerHTML(), f.substring)
	})
}

func (f *renderedFinder) Description() string {
	return fmt.Sprintf("ByRenderedContaining(%q)", f.substring)
}

// ByRenderedContaining returns a finder that matches elements whose
// serialized shadow root contains substring.
func ByRenderedContaining(substring string) Finder {
	return &renderedFinder{substring: substring}
}

// predicateFinder matches elements satisfying a predicate.
type predicateFinder struct {
	fn   func(*dom.Element) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *dom.Element) []*dom.Element {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches elements satisfying fn.
func ByPredicate(fn func(*dom.Element) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds elements matching 'matching' that are descendants
// of elements matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *dom.Element) []*dom.Element {
	var result []*dom.Element
	seen := make(map[*dom.Element]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, c := range ancestor.Children() {
			for _, m := range f.matching.Evaluate(c) {
				if !seen[m] {
					seen[m] = true
					result = append(result, m)
				}
			}
		}
	}
	return result
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches elements satisfying 'matching'
// that are descendants of elements matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal of root's
// descendants, collecting elements that satisfy the predicate. root itself is
// included.
func collectMatches(root *dom.Element, predicate func(*dom.Element) bool) []*dom.Element {
	var result []*dom.Element
	var visit func(*dom.Element)
	visit = func(e *dom.Element) {
		if predicate(e) {
			result = append(result, e)
		}
		for _, c := range e.Children() {
			visit(c)
		}
	}
	visit(root)
	return result
}
