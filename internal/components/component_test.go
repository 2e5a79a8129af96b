package components

import (
	"bytes"
	"testing"

	"golang.org/x/net/html"

	"github.com/goliatone/go-docsite/internal/markup"
)

func renderNodes(t *testing.T, nodes []*html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	for _, node := range nodes {
		if err := html.Render(&buf, node); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	return buf.String()
}

func text(value string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: value}
}

func TestPlainTranslatesClassName(t *testing.T) {
	node := markup.Element("code", []markup.Attr{{Key: "className", Val: "language-ts"}})
	got := renderNodes(t, Plain("code").Render(node, []*html.Node{text("val s = 1")}))

	if got != `<code class="language-ts">val s = 1</code>` {
		t.Fatalf("unexpected html %q", got)
	}
}

func TestPlainVoidElementDropsChildren(t *testing.T) {
	node := markup.Element("img", []markup.Attr{{Key: "src", Val: "/a.png"}, {Key: "alt", Val: "a"}})
	got := renderNodes(t, Plain("img").Render(node, []*html.Node{text("ignored")}))

	if got != `<img src="/a.png" alt="a"/>` {
		t.Fatalf("unexpected html %q", got)
	}
}

func TestAdmonition(t *testing.T) {
	tests := []struct {
		name  string
		attrs []markup.Attr
		want  string
	}{
		{
			name:  "type only",
			attrs: []markup.Attr{{Key: "type", Val: "tip"}},
			want:  `<div class="admonition admonition-tip"><div class="admonition-heading">TIP</div><div class="admonition-content">body</div></div>`,
		},
		{
			name:  "custom title",
			attrs: []markup.Attr{{Key: "type", Val: "warning"}, {Key: "title", Val: "Careful"}},
			want:  `<div class="admonition admonition-warning"><div class="admonition-heading">Careful</div><div class="admonition-content">body</div></div>`,
		},
		{
			name: "defaults to note",
			want: `<div class="admonition admonition-note"><div class="admonition-heading">NOTE</div><div class="admonition-content">body</div></div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := markup.Element("admonition", tt.attrs)
			got := renderNodes(t, Admonition().Render(node, []*html.Node{text("body")}))
			if got != tt.want {
				t.Fatalf("want %q\n got %q", tt.want, got)
			}
		})
	}
}

func TestDefaultsCoverConverterKinds(t *testing.T) {
	defaults := Defaults()
	for _, kind := range []string{"header", "h1", "h2", "h3", "p", "ul", "li", "pre", "code", "admonition"} {
		if _, ok := defaults.Get(kind); !ok {
			t.Fatalf("expected default component for %s", kind)
		}
	}
	if _, ok := defaults.Get("wrapper"); ok {
		t.Fatalf("defaults must not install a wrapper")
	}
}
