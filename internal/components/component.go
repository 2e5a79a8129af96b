package components

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-docsite/internal/markup"
)

// Component renders one markup element. children are already rendered and
// detached, so implementations may append them directly.
type Component interface {
	Render(node *markup.Node, children []*html.Node) []*html.Node
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(node *markup.Node, children []*html.Node) []*html.Node

// Render calls f.
func (f ComponentFunc) Render(node *markup.Node, children []*html.Node) []*html.Node {
	return f(node, children)
}

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "source": {}, "track": {}, "wbr": {},
}

// Plain renders a node as an HTML element named tag, copying its props.
// className becomes class.
func Plain(tag string) Component {
	return ComponentFunc(func(node *markup.Node, children []*html.Node) []*html.Node {
		el := NewElement(tag, htmlAttrs(node)...)
		if _, void := voidElements[tag]; !void {
			appendChildren(el, children)
		}
		return []*html.Node{el}
	})
}

// Admonition renders a callout box. The heading shows the title prop or the
// upper-cased admonition type.
func Admonition() Component {
	return ComponentFunc(func(node *markup.Node, children []*html.Node) []*html.Node {
		kind, _ := node.Attr("type")
		if kind == "" {
			kind = "note"
		}
		title, _ := node.Attr("title")
		if title == "" {
			title = strings.ToUpper(kind)
		}

		heading := NewElement("div", html.Attribute{Key: "class", Val: "admonition-heading"})
		heading.AppendChild(&html.Node{Type: html.TextNode, Data: title})

		content := NewElement("div", html.Attribute{Key: "class", Val: "admonition-content"})
		appendChildren(content, children)

		box := NewElement("div", html.Attribute{Key: "class", Val: "admonition admonition-" + kind})
		box.AppendChild(heading)
		box.AppendChild(content)
		return []*html.Node{box}
	})
}

// Article wraps a whole page in <article class="markdown">. It is meant for
// the wrapper slot.
func Article() Component {
	return ComponentFunc(func(_ *markup.Node, children []*html.Node) []*html.Node {
		el := NewElement("article", html.Attribute{Key: "class", Val: "markdown"})
		appendChildren(el, children)
		return []*html.Node{el}
	})
}

// NewElement builds a detached element node.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func appendChildren(parent *html.Node, children []*html.Node) {
	for _, child := range children {
		if child == nil {
			continue
		}
		if child.Parent != nil {
			child.Parent.RemoveChild(child)
		}
		parent.AppendChild(child)
	}
}

func htmlAttrs(node *markup.Node) []html.Attribute {
	if node == nil || len(node.Attrs) == 0 {
		return nil
	}
	out := make([]html.Attribute, 0, len(node.Attrs))
	for _, attr := range node.Attrs {
		key := attr.Key
		if key == "className" {
			key = "class"
		}
		out = append(out, html.Attribute{Key: key, Val: attr.Val})
	}
	return out
}
