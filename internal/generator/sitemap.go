package generator

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-docsite/internal/content"
)

type sitemapEntry struct {
	Location string
	LastMod  time.Time
}

func buildSitemap(siteURL string, docs []*content.Doc, fallback time.Time) string {
	base := siteOrigin(siteURL)

	entries := make([]sitemapEntry, 0, len(docs))
	seen := map[string]struct{}{}
	for _, doc := range docs {
		route := strings.TrimSpace(doc.Metadata.Permalink)
		if route == "" {
			route = "/"
		}
		if !strings.HasPrefix(route, "/") {
			route = "/" + route
		}
		location := base + route
		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}
		lastMod := doc.LastModified
		if lastMod.IsZero() {
			lastMod = fallback
		}
		entries = append(entries, sitemapEntry{
			Location: location,
			LastMod:  lastMod,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Location < entries[j].Location
	})

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", html.EscapeString(entry.Location)))
		if !entry.LastMod.IsZero() {
			builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod.UTC().Format(time.RFC3339)))
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")
	return builder.String()
}

func buildRobots(siteURL string, baseURL string, includeSitemap bool) string {
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	if includeSitemap {
		location := siteOrigin(siteURL) + "/" + strings.Trim(baseURL, "/")
		location = strings.TrimRight(location, "/")
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf("Sitemap: %s/sitemap.xml\n", location))
	}
	return builder.String()
}

// buildSearchIndex serializes listed doc metadata in sidebar order.
func buildSearchIndex(docs []*content.Doc) ([]byte, error) {
	entries := make([]content.PageMetadata, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, doc.Metadata)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("generator: encode search index: %w", err)
	}
	return data, nil
}

func siteOrigin(siteURL string) string {
	base := strings.TrimRight(strings.TrimSpace(siteURL), "/")
	if base == "" {
		base = "http://localhost"
	}
	return base
}
