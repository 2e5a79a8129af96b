package markup

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// FromMarkdown parses source with parser and converts the result into a
// markup fragment.
func FromMarkdown(parser interfaces.MarkdownParser, source []byte, opts interfaces.ParseOptions) (*Node, error) {
	if parser == nil {
		return nil, fmt.Errorf("markup: parser is nil")
	}
	prepared := PrepareSource(source)
	doc, err := parser.ParseWithOptions(prepared, opts)
	if err != nil {
		return nil, err
	}
	return Convert(doc, prepared, opts), nil
}

// Convert projects a goldmark document into a markup fragment. source must be
// the exact buffer the document was parsed from.
//
// The first top-level h1 is wrapped in a header element. Headings receive
// GitHub style anchors unless the source carries an explicit {#id}. Raw HTML
// is dropped when opts.SafeMode is set.
func Convert(doc ast.Node, source []byte, opts interfaces.ParseOptions) *Node {
	c := &converter{
		source:  source,
		opts:    opts,
		slugger: NewSlugger(),
	}
	if doc == nil {
		return Fragment()
	}
	return &Node{Type: FragmentNode, Children: joinLines(wrapInline(c.blocks(doc, true)))}
}

type converter struct {
	source     []byte
	opts       interfaces.ParseOptions
	slugger    *Slugger
	headerDone bool
}

func (c *converter) blocks(parent ast.Node, topLevel bool) []*Node {
	var out []*Node
	var stack []*Node

	push := func(node *Node) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, node)
			return
		}
		out = append(out, node)
	}
	pop := func() {
		top := stack[len(stack)-1]
		top.Children = joinLines(wrapInline(top.Children))
		stack = stack[:len(stack)-1]
	}

	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if para, ok := child.(*ast.Paragraph); ok {
			line := strings.TrimSpace(c.lines(para))
			if kind, title, ok := parseAdmonitionOpen(line); ok {
				attrs := []Attr{{Key: "type", Val: kind}}
				if title != "" {
					attrs = append(attrs, Attr{Key: "title", Val: title})
				}
				admonition := Element("admonition", attrs)
				push(admonition)
				stack = append(stack, admonition)
				continue
			}
			if len(stack) > 0 && isAdmonitionClose(line) {
				pop()
				continue
			}
		}

		node := c.block(child)
		if node == nil {
			continue
		}
		if topLevel && len(stack) == 0 && !c.headerDone && node.IsElement("h1") {
			node = Element("header", nil, node)
			c.headerDone = true
		}
		push(node)
	}

	for len(stack) > 0 {
		pop()
	}
	return out
}

func (c *converter) block(n ast.Node) *Node {
	switch n := n.(type) {
	case *ast.Heading:
		return c.heading(n)
	case *ast.Paragraph:
		children := c.inlines(n)
		if len(children) == 0 {
			return nil
		}
		return Element("p", nil, children...)
	case *ast.TextBlock:
		return Fragment(c.inlines(n)...)
	case *ast.ThematicBreak:
		return Element("hr", nil)
	case *ast.FencedCodeBlock:
		code := Element("code", nil, Text(c.lines(n)))
		if lang := strings.TrimSpace(string(n.Language(c.source))); lang != "" {
			code.Attrs = []Attr{{Key: "className", Val: "language-" + lang}}
		}
		return Element("pre", nil, code)
	case *ast.CodeBlock:
		return Element("pre", nil, Element("code", nil, Text(c.lines(n))))
	case *ast.Blockquote:
		return Element("blockquote", nil, surroundLines(wrapInline(c.blocks(n, false)))...)
	case *ast.List:
		return c.list(n)
	case *ast.ListItem:
		return c.listItem("li", n)
	case *ast.HTMLBlock:
		if c.opts.SafeMode {
			return nil
		}
		var b strings.Builder
		b.WriteString(c.lines(n))
		if n.HasClosure() {
			b.Write(n.ClosureLine.Value(c.source))
		}
		return Raw(b.String())
	case *extast.Table:
		return c.table(n)
	case *extast.DefinitionList:
		dl := Element("dl", nil)
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch item := child.(type) {
			case *extast.DefinitionTerm:
				dl.Append(Text("\n"), Element("dt", nil, c.inlines(item)...))
			case *extast.DefinitionDescription:
				dl.Append(Text("\n"), c.listItem("dd", item))
			}
		}
		dl.Append(Text("\n"))
		return dl
	case *extast.FootnoteList:
		list := Element("ol", nil)
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			note, ok := child.(*extast.Footnote)
			if !ok {
				continue
			}
			item := c.listItem("li", note)
			item.Attrs = []Attr{{Key: "id", Val: "fn-" + strconv.Itoa(note.Index)}}
			list.Append(Text("\n"), item)
		}
		list.Append(Text("\n"))
		return Element("section", []Attr{{Key: "className", Val: "footnotes"}}, Text("\n"), list, Text("\n"))
	default:
		blocks := wrapInline(c.blocks(n, false))
		if len(blocks) == 0 {
			return nil
		}
		return Element("div", nil, joinLines(blocks)...)
	}
}

func (c *converter) heading(n *ast.Heading) *Node {
	children := c.inlines(n)
	kind := "h" + strconv.Itoa(n.Level)

	var attrs []Attr
	id := ""
	if value, ok := n.AttributeString("id"); ok {
		id = strings.TrimSpace(attributeText(value))
	}
	if id != "" {
		c.slugger.Reserve(id)
	} else {
		id = c.slugger.Slug(Fragment(children...).TextContent())
	}
	attrs = append(attrs, Attr{Key: "id", Val: id})
	if value, ok := n.AttributeString("class"); ok {
		if class := strings.TrimSpace(attributeText(value)); class != "" {
			attrs = append(attrs, Attr{Key: "className", Val: class})
		}
	}
	return Element(kind, attrs, children...)
}

func (c *converter) list(n *ast.List) *Node {
	kind := "ul"
	var attrs []Attr
	if n.IsOrdered() {
		kind = "ol"
		if n.Start != 1 {
			attrs = append(attrs, Attr{Key: "start", Val: strconv.Itoa(n.Start)})
		}
	}
	var items []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		items = append(items, c.listItem("li", child))
	}
	return Element(kind, attrs, surroundLines(items)...)
}

// listItem keeps a leading text block inline and puts each following block on
// its own line, matching how tight and loose items read.
func (c *converter) listItem(kind string, n ast.Node) *Node {
	var out []*Node
	trailing := false
	for i, block := range c.blocks(n, false) {
		if block.Type == FragmentNode {
			if i > 0 {
				out = append(out, Text("\n"))
			}
			out = append(out, block.Children...)
			continue
		}
		out = append(out, Text("\n"), block)
		trailing = true
	}
	if trailing {
		out = append(out, Text("\n"))
	}
	return &Node{Type: ElementNode, Kind: kind, Children: out}
}

func (c *converter) table(n *extast.Table) *Node {
	table := Element("table", nil)
	var body []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			tr := Element("tr", nil, c.cells("th", row)...)
			table.Append(Element("thead", nil, Text("\n"), tr, Text("\n")))
		case *extast.TableRow:
			body = append(body, Element("tr", nil, c.cells("td", row)...))
		}
	}
	if len(body) > 0 {
		table.Append(Element("tbody", nil, surroundLines(body)...))
	}
	return table
}

func (c *converter) cells(kind string, row ast.Node) []*Node {
	var out []*Node
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*extast.TableCell)
		if !ok {
			continue
		}
		var attrs []Attr
		if cell.Alignment != extast.AlignNone {
			attrs = append(attrs, Attr{Key: "style", Val: "text-align:" + cell.Alignment.String()})
		}
		out = append(out, Element(kind, attrs, c.inlines(cell)...))
	}
	return out
}

func (c *converter) inlines(parent ast.Node) []*Node {
	var out []*Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.inline(child)...)
	}
	return mergeText(out)
}

func (c *converter) inline(n ast.Node) []*Node {
	switch n := n.(type) {
	case *ast.Text:
		out := []*Node{Text(string(n.Segment.Value(c.source)))}
		switch {
		case n.HardLineBreak() || (n.SoftLineBreak() && c.opts.HardWraps):
			out = append(out, Element("br", nil), Text("\n"))
		case n.SoftLineBreak():
			out = append(out, Text("\n"))
		}
		return out
	case *ast.String:
		return []*Node{Text(string(n.Value))}
	case *ast.CodeSpan:
		return []*Node{Element("code", nil, Text(c.rawText(n)))}
	case *ast.Emphasis:
		kind := "em"
		if n.Level >= 2 {
			kind = "strong"
		}
		return []*Node{Element(kind, nil, c.inlines(n)...)}
	case *ast.Link:
		attrs := []Attr{{Key: "href", Val: string(n.Destination)}}
		if len(n.Title) > 0 {
			attrs = append(attrs, Attr{Key: "title", Val: string(n.Title)})
		}
		return []*Node{Element("a", attrs, c.inlines(n)...)}
	case *ast.AutoLink:
		url := string(n.URL(c.source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		return []*Node{Element("a", []Attr{{Key: "href", Val: url}}, Text(string(n.Label(c.source))))}
	case *ast.Image:
		attrs := []Attr{
			{Key: "src", Val: string(n.Destination)},
			{Key: "alt", Val: Fragment(c.inlines(n)...).TextContent()},
		}
		if len(n.Title) > 0 {
			attrs = append(attrs, Attr{Key: "title", Val: string(n.Title)})
		}
		return []*Node{Element("img", attrs)}
	case *ast.RawHTML:
		if c.opts.SafeMode {
			return nil
		}
		var b bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			segment := n.Segments.At(i)
			b.Write(segment.Value(c.source))
		}
		return []*Node{Raw(b.String())}
	case *extast.Strikethrough:
		return []*Node{Element("del", nil, c.inlines(n)...)}
	case *extast.TaskCheckBox:
		attrs := []Attr{{Key: "type", Val: "checkbox"}, {Key: "disabled", Val: ""}}
		if n.IsChecked {
			attrs = append(attrs, Attr{Key: "checked", Val: ""})
		}
		return []*Node{Element("input", attrs), Text(" ")}
	case *extast.FootnoteLink:
		index := strconv.Itoa(n.Index)
		link := Element("a", []Attr{
			{Key: "href", Val: "#fn-" + index},
			{Key: "className", Val: "footnote-ref"},
		}, Text(index))
		return []*Node{Element("sup", []Attr{{Key: "id", Val: "fnref-" + index}}, link)}
	case *extast.FootnoteBacklink:
		return []*Node{Element("a", []Attr{
			{Key: "href", Val: "#fnref-" + strconv.Itoa(n.Index)},
			{Key: "className", Val: "footnote-backref"},
		}, Text("↩"))}
	default:
		return c.inlines(n)
	}
}

func (c *converter) lines(n ast.Node) string {
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	var b bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(c.source))
	}
	return b.String()
}

func (c *converter) rawText(n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(c.source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

func attributeText(value any) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// wrapInline turns stray inline runs into paragraphs outside list items.
func wrapInline(nodes []*Node) []*Node {
	for i, node := range nodes {
		if node.Type == FragmentNode {
			nodes[i] = &Node{Type: ElementNode, Kind: "p", Children: node.Children}
		}
	}
	return nodes
}

func joinLines(nodes []*Node) []*Node {
	if len(nodes) < 2 {
		return nodes
	}
	out := make([]*Node, 0, len(nodes)*2-1)
	for i, node := range nodes {
		if i > 0 {
			out = append(out, Text("\n"))
		}
		out = append(out, node)
	}
	return out
}

func surroundLines(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes)*2+1)
	out = append(out, Text("\n"))
	for _, node := range nodes {
		out = append(out, node, Text("\n"))
	}
	return out
}
