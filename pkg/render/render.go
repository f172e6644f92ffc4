// Package render turns element descriptions into markup and commits them into
// shadow roots.
//
// Render methods return a Template built with HTML or Text, a single
// *html.Node, a Nodes slice, a plain string (committed as text) or nil (which
// clears the root). Commit is the renderer installed on a dom.Document.
package render

import (
	"fmt"
	"html"
	"reflect"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-drift/elements/pkg/core"
	"github.com/go-drift/elements/pkg/dom"
	"github.com/go-drift/elements/pkg/errors"
	"github.com/go-drift/elements/pkg/log"
)

// Template is a fragment of HTML markup.
type Template struct {
	markup string
}

// HTML formats a template. The format string is trusted markup; arguments are
// escaped unless they are booleans or numbers.
func HTML(format string, args ...any) Template {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = escapeArg(a)
	}
	return Template{markup: fmt.Sprintf(format, escaped...)}
}

// Text returns a template holding s as escaped text.
func Text(s string) Template {
	return Template{markup: html.EscapeString(s)}
}

// Unsafe returns a template holding s as markup without escaping it.
func Unsafe(s string) Template {
	return Template{markup: s}
}

// String returns the template's markup.
func (t Template) String() string {
	return t.markup
}

// Nodes is a description made of already-parsed nodes. The nodes must not
// have a parent.
type Nodes []*xhtml.Node

func escapeArg(a any) any {
	switch v := a.(type) {
	case nil:
		return ""
	case string:
		return html.EscapeString(v)
	case Template:
		return v.markup
	case fmt.Stringer:
		return html.EscapeString(v.String())
	case error:
		return html.EscapeString(v.Error())
	}
	switch reflect.ValueOf(a).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return a
	default:
		return html.EscapeString(fmt.Sprint(a))
	}
}

// Parse parses markup as the content of a body element.
func Parse(markup string) ([]*xhtml.Node, error) {
	context := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	return xhtml.ParseFragment(strings.NewReader(markup), context)
}

// Commit replaces root's content with desc. It returns ErrUnsupportedDescription
// for description types it does not know.
func Commit(desc core.Description, root *dom.ShadowRoot) error {
	nodes, err := toNodes(desc)
	if err != nil {
		return err
	}
	root.Replace(nodes)
	log.Debug(log.CatRender, "committed", "host", root.Host().Tag(), "nodes", len(nodes))
	return nil
}

func toNodes(desc core.Description) ([]*xhtml.Node, error) {
	switch d := desc.(type) {
	case nil:
		return nil, nil
	case Template:
		return Parse(d.markup)
	case string:
		return []*xhtml.Node{{Type: xhtml.TextNode, Data: d}}, nil
	case *xhtml.Node:
		return []*xhtml.Node{d}, nil
	case Nodes:
		return d, nil
	case []*xhtml.Node:
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %T", errors.ErrUnsupportedDescription, desc)
	}
}
