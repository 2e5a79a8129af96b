package sidebar

import (
	"strings"
	"testing"
	"testing/fstest"
)

func pos(v float64) *float64 { return &v }

func fixtureItems() []Item {
	return []Item{
		{DocID: "environment-setup", Label: "Environment Setup", Permalink: "/docs/environment-setup", Position: pos(2), Path: "environment-setup.md"},
		{DocID: "intro", Label: "Introduction", Permalink: "/docs/intro", Position: pos(1), Path: "intro.md"},
		{DocID: "tutorial/nullability", Label: "Nullability", Permalink: "/docs/tutorial/nullability", Position: pos(2), Path: "tutorial/nullability.md"},
		{DocID: "tutorial/starting-up", Label: "Starting up", Permalink: "/docs/tutorial/starting-up", Position: pos(1), Path: "tutorial/01-starting-up.md"},
		{DocID: "tutorial/appendix", Label: "Appendix", Permalink: "/docs/tutorial/appendix", Path: "tutorial/appendix.md"},
		{DocID: "tutorial/hidden", Label: "Hidden", Permalink: "/docs/tutorial/hidden", Path: "tutorial/hidden.md", Unlisted: true},
		{DocID: "zz-notes", Label: "Notes", Permalink: "/docs/zz-notes", Path: "zz-notes.md"},
	}
}

func docIDs(nodes []*Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.DocID)
	}
	return ids
}

func TestBuildOrdersByPositionThenName(t *testing.T) {
	sb := Build("tutorialSidebar", fixtureItems(), map[string]Category{
		"tutorial": {Label: "Tutorial", Position: pos(3)},
	})

	if sb.Name != "tutorialSidebar" {
		t.Fatalf("unexpected name %q", sb.Name)
	}
	labels := make([]string, 0, len(sb.Items))
	for _, node := range sb.Items {
		labels = append(labels, node.Label)
	}
	if strings.Join(labels, ",") != "Introduction,Environment Setup,Tutorial,Notes" {
		t.Fatalf("unexpected top level order %v", labels)
	}

	got := strings.Join(docIDs(sb.Flatten()), ",")
	want := "intro,environment-setup,tutorial/starting-up,tutorial/nullability,tutorial/appendix,zz-notes"
	if got != want {
		t.Fatalf("flatten mismatch\nwant %s\n got %s", want, got)
	}
}

func TestBuildCategoryDefaults(t *testing.T) {
	sb := Build("docs", []Item{
		{DocID: "getting-started/index", Label: "Overview", Permalink: "/docs/getting-started", Path: "02-getting-started/index.md", Index: true},
		{DocID: "getting-started/install", Label: "Install", Permalink: "/docs/getting-started/install", Path: "02-getting-started/install.md"},
		{DocID: "intro", Label: "Intro", Permalink: "/docs/intro", Path: "intro.md"},
	}, nil)

	if len(sb.Items) != 2 {
		t.Fatalf("expected category and intro, got %d items", len(sb.Items))
	}
	category := sb.Items[0]
	if category.Type != CategoryNode || category.Label != "Getting Started" {
		t.Fatalf("expected humanized category first, got %+v", category)
	}
	if category.Position == nil || *category.Position != 2 {
		t.Fatalf("expected position from number prefix, got %v", category.Position)
	}
	if category.DocID != "getting-started/index" || len(category.Items) != 1 {
		t.Fatalf("expected index doc to link the category, got %+v", category)
	}
	if !category.Collapsed {
		t.Fatalf("categories collapse by default")
	}

	got := strings.Join(docIDs(sb.Flatten()), ",")
	if got != "getting-started/index,getting-started/install,intro" {
		t.Fatalf("unexpected flatten order %s", got)
	}
}

func TestPrint(t *testing.T) {
	sb := Build("tutorialSidebar", fixtureItems(), map[string]Category{"tutorial": {Label: "Tutorial", Position: pos(3)}})

	out := sb.Print()
	if !strings.HasPrefix(out, "tutorialSidebar\n") {
		t.Fatalf("expected sidebar name as root, got %q", out)
	}
	for _, want := range []string{"Introduction (/docs/intro)", "Tutorial", "Nullability (/docs/tutorial/nullability)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "Hidden") {
		t.Fatalf("unlisted docs must not be printed")
	}
	if strings.Index(out, "Introduction") > strings.Index(out, "Environment Setup") {
		t.Fatalf("print must follow sidebar order:\n%s", out)
	}
}

func TestLoadCategories(t *testing.T) {
	fsys := fstest.MapFS{
		"tutorial/_category_.yml":         {Data: []byte("label: Tutorial\nposition: 3\ncollapsed: false\n")},
		"tutorial/basics/_category_.json": {Data: []byte(`{"label":"Basics","position":1}`)},
		"reference/page.md":               {Data: []byte("# Page\n")},
	}

	categories, err := LoadCategories(fsys)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	tutorial := categories["tutorial"]
	if tutorial.Label != "Tutorial" || tutorial.Position == nil || *tutorial.Position != 3 {
		t.Fatalf("unexpected tutorial category %+v", tutorial)
	}
	if tutorial.Collapsed == nil || *tutorial.Collapsed {
		t.Fatalf("expected collapsed false, got %v", tutorial.Collapsed)
	}
	if categories["tutorial/basics"].Label != "Basics" {
		t.Fatalf("expected json category, got %+v", categories["tutorial/basics"])
	}
}

func TestLoadCategoriesRejectsInvalidYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"broken/_category_.yml": {Data: []byte("label: [unterminated\n")},
	}
	if _, err := LoadCategories(fsys); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStripNumberPrefix(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		position float64
		hasPos   bool
	}{
		{in: "01-intro", name: "intro", position: 1, hasPos: true},
		{in: "10 - advanced", name: "advanced", position: 10, hasPos: true},
		{in: "2_setup", name: "setup", position: 2, hasPos: true},
		{in: "intro", name: "intro"},
		{in: "2024", name: "2024"},
		{in: "01-", name: "01-"},
	}
	for _, tt := range tests {
		name, position := StripNumberPrefix(tt.in)
		if name != tt.name {
			t.Fatalf("%q: expected name %q, got %q", tt.in, tt.name, name)
		}
		if tt.hasPos != (position != nil) || (position != nil && *position != tt.position) {
			t.Fatalf("%q: unexpected position %v", tt.in, position)
		}
	}
	if got := StripPathNumberPrefixes("01-guide/02-basics"); got != "guide/basics" {
		t.Fatalf("unexpected stripped path %q", got)
	}
}
