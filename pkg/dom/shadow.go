package dom

import (
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ShadowRoot is the rendering root of an upgraded element. Its content is
// replaced wholesale on every render pass.
type ShadowRoot struct {
	host    *Element
	mode    string
	nodes   []*xhtml.Node
	commits int
}

// Host returns the element the root is attached to.
func (s *ShadowRoot) Host() *Element {
	return s.host
}

// Mode returns the shadow root mode.
func (s *ShadowRoot) Mode() string {
	return s.mode
}

// Replace sets the root's content. The nodes must not have a parent.
func (s *ShadowRoot) Replace(nodes []*xhtml.Node) {
	s.nodes = nodes
	s.commits++
}

// Nodes returns the root's top-level nodes.
func (s *ShadowRoot) Nodes() []*xhtml.Node {
	return s.nodes
}

// Commits returns how many times the content was replaced.
func (s *ShadowRoot) Commits() int {
	return s.commits
}

// InnerHTML serializes the root's content.
func (s *ShadowRoot) InnerHTML() string {
	var sb strings.Builder
	for _, n := range s.nodes {
		_ = xhtml.Render(&sb, n)
	}
	return sb.String()
}

// InnerHTML serializes the element's children. A shadow root is serialized
// first, as a declarative shadow DOM template.
func (e *Element) InnerHTML() string {
	n := e.node()
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = xhtml.Render(&sb, c)
	}
	return sb.String()
}

// OuterHTML serializes the element and its subtree.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	_ = xhtml.Render(&sb, e.node())
	return sb.String()
}

// node builds a detached html.Node tree for serialization.
func (e *Element) node() *xhtml.Node {
	n := &xhtml.Node{
		Type:     xhtml.ElementNode,
		Data:     e.tag,
		DataAtom: atom.Lookup([]byte(e.tag)),
		Attr:     e.Attributes(),
	}
	if e.shadow != nil {
		tmpl := &xhtml.Node{
			Type:     xhtml.ElementNode,
			Data:     "template",
			DataAtom: atom.Template,
			Attr:     []xhtml.Attribute{{Key: "shadowrootmode", Val: e.shadow.mode}},
		}
		for _, c := range e.shadow.nodes {
			tmpl.AppendChild(cloneNode(c))
		}
		n.AppendChild(tmpl)
	}
	for _, c := range e.children {
		n.AppendChild(c.node())
	}
	return n
}

func cloneNode(n *xhtml.Node) *xhtml.Node {
	c := &xhtml.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]xhtml.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(cloneNode(ch))
	}
	return c
}
