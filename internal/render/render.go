package render

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-docsite/internal/components"
	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/markup"
)

// WrapperKind is the component slot that receives the whole page.
const WrapperKind = "wrapper"

var ErrNilDoc = errors.New("render: doc is nil")

// Nodes renders tree with comps. Element kinds missing from comps render as
// a plain element of the same tag.
func Nodes(tree *markup.Node, comps *components.Map) []*html.Node {
	if tree == nil {
		return nil
	}
	if comps == nil {
		comps = components.Empty()
	}
	switch tree.Type {
	case markup.TextNode:
		return []*html.Node{{Type: html.TextNode, Data: tree.Text}}
	case markup.RawNode:
		return []*html.Node{{Type: html.RawNode, Data: tree.Text}}
	case markup.FragmentNode:
		return children(tree, comps)
	}
	component, ok := comps.Get(tree.Kind)
	if !ok {
		component = components.Plain(tree.Kind)
	}
	return component.Render(tree, children(tree, comps))
}

func children(tree *markup.Node, comps *components.Map) []*html.Node {
	var out []*html.Node
	for _, child := range tree.Children {
		out = append(out, Nodes(child, comps)...)
	}
	return out
}

// Page renders doc's body under a document node. When comps has a wrapper
// component the rendered body is passed to it as children.
func Page(doc *content.Doc, comps *components.Map) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	if doc == nil {
		return root
	}
	rendered := Nodes(doc.Tree, comps)
	if wrapper, ok := comps.Get(WrapperKind); ok {
		rendered = wrapper.Render(markup.Element(WrapperKind, nil), rendered)
	}
	for _, node := range rendered {
		if node == nil {
			continue
		}
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
		root.AppendChild(node)
	}
	return root
}

// HTML renders doc's body to a string.
func HTML(doc *content.Doc, comps *components.Map) (string, error) {
	if doc == nil {
		return "", ErrNilDoc
	}
	var b strings.Builder
	if err := Write(&b, Page(doc, comps)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write serializes node and its children.
func Write(w io.Writer, node *html.Node) error {
	if node == nil {
		return nil
	}
	if node.Type != html.DocumentNode {
		return html.Render(w, node)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(w, child); err != nil {
			return err
		}
	}
	return nil
}
