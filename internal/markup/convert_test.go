package markup

import (
	"strings"
	"testing"

	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const nullabilitySource = "# Nullability & Functional Programming\n\n" +
	"## Nullable types\n\n" +
	"- Make exceptions occur at compile time, rather than runtime.\n\n" +
	"```ts\nval s2: String? = null\n```\n\n" +
	"### Dealing with Nullable Types\n\n" +
	"is equivalent to\n\n" +
	"### Making Null Pointer Exception Explicit\n\n" +
	"- This basically means:\n  - If `s` is not null, give `s`\n  - Else throw\n\n" +
	":::tip\n\n- Don't use Null Pointer Exception excessively.\n- Don't use two NPEs within the same line.\n\n:::\n\n" +
	"## Nullable types under the hood\n"

func convert(t *testing.T, source string, opts interfaces.ParseOptions) *Node {
	t.Helper()
	tree, err := FromMarkdown(markdown.NewGoldmarkParser(interfaces.ParseOptions{}), []byte(source), opts)
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}
	return tree
}

func elements(n *Node) []*Node {
	var out []*Node
	for _, child := range n.Children {
		if child.Type == ElementNode {
			out = append(out, child)
		}
	}
	return out
}

func TestConvertWrapsFirstHeadingInHeader(t *testing.T) {
	tree := convert(t, "# Introduction\n\n## Introduction to Kotlin\n\n# Second\n", interfaces.ParseOptions{})

	if tree.Type != FragmentNode {
		t.Fatalf("expected fragment root, got %s", tree.Type)
	}
	blocks := elements(tree)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if !blocks[0].IsElement("header") || !blocks[0].Children[0].IsElement("h1") {
		t.Fatalf("expected header > h1, got %+v", blocks[0])
	}
	if id, _ := blocks[0].Children[0].Attr("id"); id != "introduction" {
		t.Fatalf("expected id introduction, got %q", id)
	}
	if !blocks[2].IsElement("h1") {
		t.Fatalf("only the first h1 is wrapped, got %s", blocks[2].Kind)
	}
	if tree.Children[1].Type != TextNode || tree.Children[1].Text != "\n" {
		t.Fatalf("expected newline separator between blocks")
	}
}

func TestConvertHeadingIDs(t *testing.T) {
	source := "# Nullability & Functional Programming\n\n## Setup\n\n## Setup\n\n## Custom {#my-anchor}\n\n## my-anchor\n"
	tree := convert(t, source, interfaces.ParseOptions{})

	var ids []string
	tree.Walk(func(n *Node) bool {
		if headingLevel(n) > 0 {
			id, _ := n.Attr("id")
			ids = append(ids, id)
		}
		return true
	})

	want := []string{"nullability--functional-programming", "setup", "setup-1", "my-anchor", "my-anchor-1"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("ids mismatch\nwant %v\n got %v", want, ids)
	}
}

func TestConvertFencedCode(t *testing.T) {
	tree := convert(t, "```ts\nval s: String?\n\ns?.length\n```\n", interfaces.ParseOptions{})

	pre := tree.Find("pre")
	if pre == nil || len(pre.Children) != 1 || !pre.Children[0].IsElement("code") {
		t.Fatalf("expected pre > code, got %+v", pre)
	}
	code := pre.Children[0]
	if class, _ := code.Attr("className"); class != "language-ts" {
		t.Fatalf("expected language-ts, got %q", class)
	}
	if code.TextContent() != "val s: String?\n\ns?.length\n" {
		t.Fatalf("unexpected code text %q", code.TextContent())
	}
}

func TestConvertAdmonition(t *testing.T) {
	tree := convert(t, nullabilitySource, interfaces.ParseOptions{})

	admonition := tree.Find("admonition")
	if admonition == nil {
		t.Fatalf("expected admonition element")
	}
	if kind, _ := admonition.Attr("type"); kind != "tip" {
		t.Fatalf("expected tip admonition, got %q", kind)
	}
	if len(admonition.Children) != 1 || !admonition.Children[0].IsElement("ul") {
		t.Fatalf("expected admonition to hold a single list, got %+v", admonition.Children)
	}
	if strings.Contains(tree.TextContent(), ":::") {
		t.Fatalf("directive markers must not leak into the tree")
	}
}

func TestConvertAdmonitionWithTitleAndInlineFences(t *testing.T) {
	tree := convert(t, ":::note Heads up\nRemember this.\n:::\n\nAfter.\n", interfaces.ParseOptions{})

	blocks := elements(tree)
	if len(blocks) != 2 {
		t.Fatalf("expected admonition and trailing paragraph, got %d blocks", len(blocks))
	}
	admonition := blocks[0]
	if title, _ := admonition.Attr("title"); title != "Heads up" {
		t.Fatalf("expected title Heads up, got %q", title)
	}
	if len(admonition.Children) != 1 || admonition.Children[0].TextContent() != "Remember this." {
		t.Fatalf("unexpected admonition body %+v", admonition.Children)
	}
	if blocks[1].TextContent() != "After." {
		t.Fatalf("expected paragraph after admonition, got %q", blocks[1].TextContent())
	}
}

func TestConvertUnterminatedAdmonitionClosesAtEnd(t *testing.T) {
	tree := convert(t, ":::warning\n\nCareful.\n", interfaces.ParseOptions{})

	blocks := elements(tree)
	if len(blocks) != 1 || !blocks[0].IsElement("admonition") {
		t.Fatalf("expected a single admonition, got %+v", blocks)
	}
	if blocks[0].TextContent() != "Careful." {
		t.Fatalf("unexpected body %q", blocks[0].TextContent())
	}
}

func TestConvertNestedListItem(t *testing.T) {
	tree := convert(t, nullabilitySource, interfaces.ParseOptions{})

	var item *Node
	tree.Walk(func(n *Node) bool {
		if item == nil && n.IsElement("li") && strings.HasPrefix(n.TextContent(), "This basically means:") {
			item = n
		}
		return item == nil
	})
	if item == nil {
		t.Fatalf("expected nested list item")
	}
	if len(item.Children) != 4 {
		t.Fatalf("expected text, newline, list, newline; got %d children", len(item.Children))
	}
	if item.Children[0].Text != "This basically means:" || item.Children[1].Text != "\n" {
		t.Fatalf("unexpected leading children %+v %+v", item.Children[0], item.Children[1])
	}
	nested := item.Children[2]
	if !nested.IsElement("ul") {
		t.Fatalf("expected nested ul, got %+v", nested)
	}
	first := elements(nested)[0]
	if len(first.Children) != 4 || !first.Children[1].IsElement("code") {
		t.Fatalf("expected inline code inside nested item, got %+v", first.Children)
	}
}

func TestConvertInlineMarkup(t *testing.T) {
	source := "Hello **bold** *em* ~~gone~~ [link](/docs/intro \"Intro\") ![alt](/img.png) end\nnext\n"
	tree := convert(t, source, interfaces.ParseOptions{})

	p := tree.Find("p")
	if p == nil {
		t.Fatalf("expected paragraph")
	}
	for _, kind := range []string{"strong", "em", "del", "a", "img"} {
		if p.Find(kind) == nil {
			t.Fatalf("expected %s inside paragraph", kind)
		}
	}
	if href, _ := p.Find("a").Attr("href"); href != "/docs/intro" {
		t.Fatalf("unexpected href %q", href)
	}
	if alt, _ := p.Find("img").Attr("alt"); alt != "alt" {
		t.Fatalf("unexpected alt %q", alt)
	}
	if !strings.Contains(p.TextContent(), "end\nnext") {
		t.Fatalf("soft break should become a newline, got %q", p.TextContent())
	}

	wrapped := convert(t, "one\ntwo\n", interfaces.ParseOptions{HardWraps: true})
	if wrapped.Find("br") == nil {
		t.Fatalf("expected br with hard wraps")
	}
}

func TestConvertSafeModeDropsRawHTML(t *testing.T) {
	source := "<div class=\"x\">block</div>\n\ninline <b>bold</b>\n"

	unsafe := convert(t, source, interfaces.ParseOptions{})
	raw := 0
	unsafe.Walk(func(n *Node) bool {
		if n.Type == RawNode {
			raw++
		}
		return true
	})
	if raw == 0 {
		t.Fatalf("expected raw nodes without safe mode")
	}

	safe := convert(t, source, interfaces.ParseOptions{SafeMode: true})
	safe.Walk(func(n *Node) bool {
		if n.Type == RawNode {
			t.Fatalf("raw html must be dropped in safe mode")
		}
		return true
	})
}

func TestConvertTable(t *testing.T) {
	tree := convert(t, "| a | b |\n|:--|--:|\n| 1 | 2 |\n", interfaces.ParseOptions{})

	table := tree.Find("table")
	if table == nil || table.Find("thead") == nil || table.Find("tbody") == nil {
		t.Fatalf("expected table with head and body, got %+v", table)
	}
	if style, _ := table.Find("th").Attr("style"); style != "text-align:left" {
		t.Fatalf("unexpected alignment %q", style)
	}
}

func TestPrepareSourceLeavesCodeFencesAlone(t *testing.T) {
	source := "```\n:::tip\n```\n:::tip\ntext\n"
	out := string(PrepareSource([]byte(source)))

	if !strings.HasPrefix(out, "```\n:::tip\n```\n") {
		t.Fatalf("fenced content changed: %q", out)
	}
	if !strings.Contains(out, "\n:::tip\n\ntext\n") {
		t.Fatalf("directive outside code should be isolated: %q", out)
	}
}
