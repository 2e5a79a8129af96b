package content

import (
	"net/url"
	"path"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-docsite/internal/markup"
	"github.com/goliatone/go-docsite/internal/sidebar"
)

// docPath holds the identifiers derived from a source path.
type docPath struct {
	rel           string
	sourceDirName string
	dir           string
	baseID        string
	id            string
	slug          string
	position      *float64
	categoryIndex bool
}

// resolvePath derives ids and slugs from rel, a slash separated path relative
// to the docs root. Ordering prefixes are stripped from every segment; an
// explicit id or slug replaces the file based value.
func resolvePath(rel, frontMatterID, frontMatterSlug string) docPath {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	sourceDir := path.Dir(rel)
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	unprefixed, position := sidebar.StripNumberPrefix(name)

	p := docPath{
		rel:           rel,
		sourceDirName: sourceDir,
		dir:           sidebar.StripPathNumberPrefixes(sourceDir),
		baseID:        unprefixed,
		position:      position,
	}
	if id := strings.TrimSpace(frontMatterID); id != "" {
		p.baseID = id
	}
	p.id = joinID(p.dir, p.baseID)
	p.categoryIndex = isCategoryIndex(unprefixed, p.dir)

	switch slugValue := strings.TrimSpace(frontMatterSlug); {
	case strings.HasPrefix(slugValue, "/"):
		p.slug = path.Clean(slugValue)
	case slugValue != "":
		p.slug = path.Join("/", p.dir, slugValue)
	case p.categoryIndex && strings.TrimSpace(frontMatterID) == "":
		p.slug = path.Join("/", p.dir)
	default:
		p.slug = path.Join("/", p.dir, p.baseID)
	}
	return p
}

func joinID(dir, baseID string) string {
	if dir == "." || dir == "" {
		return baseID
	}
	return dir + "/" + baseID
}

// isCategoryIndex reports whether a doc named name links its directory:
// index and readme files, or a file named after its directory.
func isCategoryIndex(name, dir string) bool {
	lower := strings.ToLower(name)
	if lower == "index" || lower == "readme" {
		return true
	}
	return dir != "." && strings.EqualFold(name, path.Base(dir))
}

// permalink joins the site base, the docs route and a slug. Permalinks carry
// no trailing slash; the site root is "/".
func permalink(baseURL, routeBasePath, slugValue string) string {
	return path.Join("/", baseURL, routeBasePath, slugValue)
}

func editURL(base, docsPath, rel string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", nil
	}
	return url.JoinPath(base, docsPath, rel)
}

func sourceAlias(docsPath, rel string) string {
	return "@site/" + path.Join(docsPath, rel)
}

// tagSlug normalizes a tag label for its listing URL.
func tagSlug(label string) string {
	normalized, err := slug.Normalize(label)
	if err != nil || normalized == "" {
		return markup.Slugify(label)
	}
	return normalized
}
