package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-docsite/internal/markdown"
)

func TestLoadSiteMatchesManualAssembly(t *testing.T) {
	source, err := markdown.NewService(markdown.Config{BasePath: "../markdown/testdata/docs", Recursive: true})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	site, err := LoadSite(context.Background(), source, newBuilder(t), false)
	if err != nil {
		t.Fatalf("LoadSite: %v", err)
	}
	manual := buildFixtureSite(t)

	if site.Len() != manual.Len() {
		t.Fatalf("expected %d docs, got %d", manual.Len(), site.Len())
	}
	if site.Sidebar().Print() != manual.Sidebar().Print() {
		t.Fatalf("sidebar mismatch\nwant %s\n got %s", manual.Sidebar().Print(), site.Sidebar().Print())
	}
	if !strings.Contains(site.Sidebar().Print(), "Tutorial") {
		t.Fatalf("expected category label in sidebar")
	}
}

func TestLoadSiteRequiresDependencies(t *testing.T) {
	if _, err := LoadSite(context.Background(), nil, newBuilder(t), false); !errors.Is(err, errSourceRequired) {
		t.Fatalf("expected errSourceRequired, got %v", err)
	}
	source, err := markdown.NewService(markdown.Config{BasePath: "../markdown/testdata/docs"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := LoadSite(context.Background(), source, nil, false); !errors.Is(err, errBuilderRequired) {
		t.Fatalf("expected errBuilderRequired, got %v", err)
	}
}
