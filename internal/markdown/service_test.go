package markdown

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

func TestServiceLoad(t *testing.T) {
	svc := newTestService(t, true)

	doc, err := svc.Load(context.Background(), "tutorial/nullability-functional-programming.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.FilePath != "tutorial/nullability-functional-programming.md" {
		t.Fatalf("unexpected file path %s", doc.FilePath)
	}
	if len(doc.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(doc.Checksum))
	}
	if doc.FrontMatter.SidebarPosition == nil || *doc.FrontMatter.SidebarPosition != 2 {
		t.Fatalf("expected sidebar position 2, got %v", doc.FrontMatter.SidebarPosition)
	}
}

func TestServiceLoadDirectory(t *testing.T) {
	svc := newTestService(t, true)

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	want := []string{
		"environment-setup.md",
		"intro.md",
		"tutorial/01-starting-up-with-kotlin.md",
		"tutorial/nullability-functional-programming.md",
		"tutorial/properties-oop-conventions.md",
	}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(docs))
	}
	for i, doc := range docs {
		if doc.FilePath != want[i] {
			t.Fatalf("document %d: expected %s, got %s", i, want[i], doc.FilePath)
		}
		if filepath.Ext(doc.FilePath) != ".md" {
			t.Fatalf("expected markdown file, got %s", doc.FilePath)
		}
	}
}

func TestServiceLoadDirectory_NonRecursiveOverride(t *testing.T) {
	svc := newTestService(t, true)

	no := false
	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{
		Recursive: &no,
	})
	if err != nil {
		t.Fatalf("LoadDirectory override: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 top level documents, got %d", len(docs))
	}
}

func TestServiceLoadDirectory_PatternOverride(t *testing.T) {
	svc, err := NewService(Config{
		Recursive: true,
		FS: fstest.MapFS{
			"a.md":      {Data: []byte("# A\n")},
			"b.mdx":     {Data: []byte("# B\n")},
			"deep/c.md": {Data: []byte("# C\n")},
		},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	docs, err := svc.LoadDirectory(context.Background(), "", interfaces.LoadOptions{Pattern: "*.mdx"})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 1 || docs[0].FilePath != "b.mdx" {
		t.Fatalf("expected only b.mdx, got %d docs", len(docs))
	}
}

func TestServiceLoadRejectsEscapingPaths(t *testing.T) {
	svc := newTestService(t, true)

	if _, err := svc.Load(context.Background(), "../parser_test.go", interfaces.LoadOptions{}); err == nil {
		t.Fatalf("expected error for path outside the docs root")
	}
}

func TestServiceParse(t *testing.T) {
	svc := newTestService(t, true)
	ctx := context.Background()

	doc, err := svc.Load(ctx, "intro.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	node, err := svc.Parse(ctx, doc, interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	headings := 0
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			headings++
		}
		return ast.WalkContinue, nil
	})
	if headings != 5 {
		t.Fatalf("expected 5 headings, got %d", headings)
	}

	if _, err := svc.Parse(ctx, nil, interfaces.ParseOptions{}); err != ErrNilDocument {
		t.Fatalf("expected ErrNilDocument, got %v", err)
	}
}

func TestNewServiceRequiresDirectory(t *testing.T) {
	if _, err := NewService(Config{BasePath: filepath.Join("testdata", "missing")}); err == nil {
		t.Fatalf("expected error for missing base path")
	}
}

func newTestService(tb testing.TB, recursive bool) *Service {
	tb.Helper()

	svc, err := NewService(Config{
		BasePath:  filepath.Join("testdata", "docs"),
		Recursive: recursive,
	})
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}
