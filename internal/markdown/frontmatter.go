package markdown

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var knownFrontMatterKeys = map[string]struct{}{
	"id":                    {},
	"title":                 {},
	"description":           {},
	"slug":                  {},
	"sidebar_label":         {},
	"sidebar_position":      {},
	"tags":                  {},
	"draft":                 {},
	"unlisted":              {},
	"hide_title":            {},
	"toc_min_heading_level": {},
	"toc_max_heading_level": {},
	"pagination_prev":       {},
	"pagination_next":       {},
}

// ParseFrontMatter extracts metadata and the Markdown body from source. It
// returns the structured front matter, the body without delimiters, and any
// error encountered. Documents without a front matter block yield an empty
// FrontMatter and the full source as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	raw := map[string]any{}

	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	normalized, _ := normalizeValue(raw).(map[string]any)
	if normalized == nil {
		normalized = map[string]any{}
	}

	fm, err := frontMatterFromRaw(normalized)
	if err != nil {
		return interfaces.FrontMatter{}, nil, err
	}
	return fm, body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

func frontMatterFromRaw(raw map[string]any) (interfaces.FrontMatter, error) {
	fm := interfaces.FrontMatter{
		ID:           stringValue(raw["id"]),
		Title:        stringValue(raw["title"]),
		Description:  stringValue(raw["description"]),
		Slug:         stringValue(raw["slug"]),
		SidebarLabel: stringValue(raw["sidebar_label"]),
		Tags:         stringSlice(raw["tags"]),
		Draft:        boolValue(raw["draft"]),
		Unlisted:     boolValue(raw["unlisted"]),
		HideTitle:    boolValue(raw["hide_title"]),
		Custom:       map[string]any{},
		Raw:          raw,
	}

	if value, ok := raw["sidebar_position"]; ok && value != nil {
		position, ok := numberValue(value)
		if !ok {
			return interfaces.FrontMatter{}, fmt.Errorf("frontmatter: sidebar_position must be a number, got %T", value)
		}
		fm.SidebarPosition = &position
	}

	for key, target := range map[string]*int{
		"toc_min_heading_level": &fm.TOCMinHeadingLevel,
		"toc_max_heading_level": &fm.TOCMaxHeadingLevel,
	} {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		level, ok := numberValue(value)
		if !ok || level != math.Trunc(level) {
			return interfaces.FrontMatter{}, fmt.Errorf("frontmatter: %s must be an integer, got %v", key, value)
		}
		*target = int(level)
	}

	fm.PaginationPrev, fm.DisablePaginationPrev = paginationValue(raw, "pagination_prev")
	fm.PaginationNext, fm.DisablePaginationNext = paginationValue(raw, "pagination_next")

	for key, value := range raw {
		if _, known := knownFrontMatterKeys[key]; known {
			continue
		}
		fm.Custom[key] = value
	}
	return fm, nil
}

// paginationValue distinguishes an absent key (no override) from an explicit
// null (pagination disabled).
func paginationValue(raw map[string]any, key string) (*string, bool) {
	value, ok := raw[key]
	if !ok {
		return nil, false
	}
	if value == nil {
		return nil, true
	}
	id := strings.TrimSpace(stringValue(value))
	if id == "" {
		return nil, true
	}
	return &id, false
}

// normalizeValue converts YAML decoded values into JSON compatible shapes so
// the raw front matter can be serialized and schema validated.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func boolValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	default:
		return false
	}
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func stringSlice(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	}
	return nil
}
