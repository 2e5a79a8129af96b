package markdown

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/docs/tutorial/properties-oop-conventions.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.SidebarPosition == nil || *fm.SidebarPosition != 3 {
		t.Fatalf("expected sidebar position 3, got %v", fm.SidebarPosition)
	}
	if fm.SidebarLabel != "Properties & OOP" {
		t.Fatalf("sidebar label mismatch, got %q", fm.SidebarLabel)
	}
	if !fm.DisablePaginationNext || fm.PaginationNext != nil {
		t.Fatalf("expected explicit null to disable next pagination: %+v", fm)
	}
	if fm.DisablePaginationPrev || fm.PaginationPrev != nil {
		t.Fatalf("expected prev pagination untouched: %+v", fm)
	}
	if fm.Custom["audience"] != "beginners" {
		t.Fatalf("expected custom key to be preserved: %#v", fm.Custom)
	}
	if _, ok := fm.Custom["sidebar_label"]; ok {
		t.Fatalf("known keys must not leak into custom: %#v", fm.Custom)
	}
	if _, ok := fm.Raw["pagination_next"]; !ok {
		t.Fatalf("raw front matter should keep every key: %#v", fm.Raw)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(body)), "# Properties, OOP, Conventions") {
		t.Fatalf("markdown body not returned correctly: %q", string(body))
	}
}

func TestParseFrontMatterWithoutBlock(t *testing.T) {
	source := []byte("# Plain\n\nNo metadata here.\n")

	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.SidebarPosition != nil || fm.Title != "" {
		t.Fatalf("expected empty front matter, got %+v", fm)
	}
	if string(body) != string(source) {
		t.Fatalf("expected body to equal the source, got %q", body)
	}
}

func TestParseFrontMatterRejectsInvalidTypes(t *testing.T) {
	cases := map[string]string{
		"position": "---\nsidebar_position: first\n---\n# Doc\n",
		"toc":      "---\ntoc_max_heading_level: 2.5\n---\n# Doc\n",
	}
	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := ParseFrontMatter([]byte(source)); err == nil {
				t.Fatalf("expected error for %q", source)
			}
		})
	}
}

func TestParseFrontMatterPaginationOverride(t *testing.T) {
	source := []byte("---\npagination_prev: intro\ntags: kotlin\n---\nbody\n")

	fm, _, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.PaginationPrev == nil || *fm.PaginationPrev != "intro" {
		t.Fatalf("expected pagination_prev intro, got %v", fm.PaginationPrev)
	}
	if len(fm.Tags) != 1 || fm.Tags[0] != "kotlin" {
		t.Fatalf("expected scalar tag to become a list, got %#v", fm.Tags)
	}
}

func TestBuildDocument(t *testing.T) {
	data := readFixture(t, "testdata/docs/intro.md")
	modified := time.Now().UTC()

	doc, err := BuildDocument("intro.md", data, modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	if doc.FilePath != "intro.md" {
		t.Fatalf("expected FilePath to be set, got %q", doc.FilePath)
	}
	if doc.LastModified != modified {
		t.Fatalf("expected LastModified to equal the provided timestamp")
	}
	if len(doc.Body) == 0 {
		t.Fatalf("expected Body to contain markdown content")
	}
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})
	source := []byte("# Heading {#custom}\n\nHello **world** ~~gone~~\n")

	node, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	heading, ok := node.FirstChild().(*ast.Heading)
	if !ok || heading.Level != 1 {
		t.Fatalf("expected level 1 heading, got %T", node.FirstChild())
	}
	id, ok := heading.AttributeString("id")
	if !ok {
		t.Fatalf("expected explicit id attribute")
	}
	if got, _ := id.([]byte); string(got) != "custom" {
		t.Fatalf("expected id custom, got %v", id)
	}

	var sawStrike bool
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == extast.KindStrikethrough {
			sawStrike = true
		}
		return ast.WalkContinue, nil
	})
	if !sawStrike {
		t.Fatalf("expected GFM strikethrough to be enabled by default")
	}
}

func TestGoldmarkParser_ParseWithOptionsHonoursExtensions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	node, err := parser.ParseWithOptions([]byte("~~kept~~\n"), interfaces.ParseOptions{
		Extensions: []string{"table", "unknown"},
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == extast.KindStrikethrough {
			t.Fatalf("strikethrough should be disabled when not requested")
		}
		return ast.WalkContinue, nil
	})
	if !KnownExtension("Footnote") || KnownExtension("unknown") {
		t.Fatalf("KnownExtension mismatch")
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
