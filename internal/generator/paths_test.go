package generator

import (
	"strings"
	"testing"
	"time"
)

func TestBuildOutputPath(t *testing.T) {
	cases := []struct {
		permalink string
		base      string
		file      string
		want      string
	}{
		{"/kotlin-notes/docs/intro", "/kotlin-notes/", "", "docs/intro/index.html"},
		{"/kotlin-notes/docs/intro/", "/kotlin-notes/", "index.md", "docs/intro/index.md"},
		{"/docs/intro", "/", "", "docs/intro/index.html"},
		{"/kotlin-notes", "/kotlin-notes/", "", "index.html"},
		{"/kotlin-notesx/docs", "/kotlin-notes/", "", "kotlin-notesx/docs/index.html"},
		{"", "/", "", "index.html"},
	}
	for _, tc := range cases {
		if got := buildOutputPath(tc.permalink, tc.base, tc.file); got != tc.want {
			t.Fatalf("buildOutputPath(%q, %q, %q) = %q, want %q", tc.permalink, tc.base, tc.file, got, tc.want)
		}
	}
}

func TestManifestSkipDecision(t *testing.T) {
	manifest := newBuildManifest()
	manifest.setPage(manifestPage{DocID: "intro", Output: "build/docs/intro/index.html", Hash: "h1"})

	if !manifest.shouldSkipPage("intro", "h1", "build/docs/intro/index.html") {
		t.Fatalf("matching hash and output should skip")
	}
	if manifest.shouldSkipPage("intro", "h2", "build/docs/intro/index.html") {
		t.Fatalf("hash change must rebuild")
	}
	if manifest.shouldSkipPage("intro", "h1", "build/docs/moved/index.html") {
		t.Fatalf("output change must rebuild")
	}
	if manifest.shouldSkipPage("other", "h1", "x") {
		t.Fatalf("unknown doc must rebuild")
	}

	data, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := parseManifest(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.shouldSkipPage("intro", "h1", "build/docs/intro/index.html") {
		t.Fatalf("parsed manifest lost page entry")
	}
	if _, err := parseManifest([]byte("{")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestBuildRobotsWithoutSitemap(t *testing.T) {
	robots := buildRobots("", "/", false)
	if robots != "User-agent: *\nAllow: /\n" {
		t.Fatalf("unexpected robots %q", robots)
	}
	if got := buildRobots("https://example.com/", "/", true); !strings.HasSuffix(got, "Sitemap: https://example.com/sitemap.xml\n") {
		t.Fatalf("unexpected robots %q", got)
	}
}

func TestBuildSitemapFallbackLastMod(t *testing.T) {
	out := buildSitemap("", nil, time.Time{})
	if !strings.Contains(out, "<urlset") || strings.Contains(out, "<url>") {
		t.Fatalf("unexpected empty sitemap %q", out)
	}
}
