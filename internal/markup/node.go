package markup

import "strings"

// NodeType identifies the shape of a Node.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	FragmentNode
	// RawNode carries trusted HTML copied from the source document.
	RawNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case FragmentNode:
		return "fragment"
	case RawNode:
		return "raw"
	default:
		return "unknown"
	}
}

// Attr is a single element prop. Order is preserved so serialization stays
// deterministic.
type Attr struct {
	Key string `json:"key"`
	Val string `json:"val"`
}

// Node is one entry of the markup tree.
type Node struct {
	Type     NodeType `json:"type"`
	Kind     string   `json:"kind,omitempty"`
	Attrs    []Attr   `json:"attrs,omitempty"`
	Text     string   `json:"text,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Element builds an element node of kind.
func Element(kind string, attrs []Attr, children ...*Node) *Node {
	return &Node{Type: ElementNode, Kind: kind, Attrs: attrs, Children: compact(children)}
}

// Text builds a text node.
func Text(value string) *Node {
	return &Node{Type: TextNode, Text: value}
}

// Raw builds a raw HTML node.
func Raw(value string) *Node {
	return &Node{Type: RawNode, Text: value}
}

// Fragment groups children without an enclosing element.
func Fragment(children ...*Node) *Node {
	return &Node{Type: FragmentNode, Children: compact(children)}
}

// Attr returns the value stored under key.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attrs {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// SetAttr replaces key in place or appends it.
func (n *Node) SetAttr(key, val string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// Append adds children, skipping nils.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, compact(children)...)
}

// IsElement reports whether n is an element of kind.
func (n *Node) IsElement(kind string) bool {
	return n != nil && n.Type == ElementNode && n.Kind == kind
}

// TextContent concatenates every descendant text node.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.Type == TextNode {
		b.WriteString(n.Text)
		return
	}
	for _, child := range n.Children {
		child.writeText(b)
	}
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type, Kind: n.Kind, Text: n.Text}
	if len(n.Attrs) > 0 {
		out.Attrs = append([]Attr(nil), n.Attrs...)
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the first descendant (or n itself) of kind.
func (n *Node) Find(kind string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.IsElement(kind) {
			found = node
			return false
		}
		return true
	})
	return found
}

func compact(nodes []*Node) []*Node {
	if len(nodes) == 0 {
		return nil
	}
	out := nodes[:0:0]
	for _, node := range nodes {
		if node != nil {
			out = append(out, node)
		}
	}
	return out
}

// mergeText joins adjacent text nodes.
func mergeText(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if node.Type == TextNode && len(out) > 0 && out[len(out)-1].Type == TextNode {
			out[len(out)-1] = Text(out[len(out)-1].Text + node.Text)
			continue
		}
		out = append(out, node)
	}
	return out
}
