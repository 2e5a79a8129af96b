package generator

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/goliatone/go-docsite/internal/content"
)

const (
	manifestFileName    = ".docsite-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support incremental runs.
type buildManifest struct {
	Version     int                     `json:"version"`
	GeneratedAt time.Time               `json:"generated_at"`
	SiteHash    string                  `json:"site_hash"`
	BuildID     string                  `json:"build_id,omitempty"`
	Pages       map[string]manifestPage `json:"pages"`
}

type manifestPage struct {
	DocID        string    `json:"doc_id"`
	Permalink    string    `json:"permalink"`
	Output       string    `json:"output"`
	Hash         string    `json:"hash"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
	RenderedAt   time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version: manifestFileVersion,
		Pages:   map[string]manifestPage{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var ordered struct {
		Version     int            `json:"version"`
		GeneratedAt time.Time      `json:"generated_at"`
		SiteHash    string         `json:"site_hash"`
		BuildID     string         `json:"build_id,omitempty"`
		Pages       []manifestPage `json:"pages"`
	}
	if err := json.Unmarshal(data, &ordered); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	manifest := newBuildManifest()
	manifest.GeneratedAt = ordered.GeneratedAt
	manifest.SiteHash = ordered.SiteHash
	manifest.BuildID = ordered.BuildID
	if ordered.Version != 0 {
		manifest.Version = ordered.Version
	}
	for _, entry := range ordered.Pages {
		manifest.setPage(entry)
	}
	return manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	// Stable ordering for deterministic output.
	type orderedManifest struct {
		Version     int            `json:"version"`
		GeneratedAt time.Time      `json:"generated_at"`
		SiteHash    string         `json:"site_hash"`
		BuildID     string         `json:"build_id,omitempty"`
		Pages       []manifestPage `json:"pages"`
	}
	ordered := orderedManifest{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		SiteHash:    m.SiteHash,
		BuildID:     m.BuildID,
		Pages:       make([]manifestPage, 0, len(m.Pages)),
	}
	if ordered.Version == 0 {
		ordered.Version = manifestFileVersion
	}
	for _, entry := range m.Pages {
		ordered.Pages = append(ordered.Pages, entry)
	}
	sort.Slice(ordered.Pages, func(i, j int) bool {
		return ordered.Pages[i].DocID < ordered.Pages[j].DocID
	})
	return json.MarshalIndent(ordered, "", "  ")
}

func (m *buildManifest) lookupPage(docID string) (manifestPage, bool) {
	if m == nil || len(m.Pages) == 0 {
		return manifestPage{}, false
	}
	entry, ok := m.Pages[strings.TrimSpace(docID)]
	return entry, ok
}

func (m *buildManifest) setPage(entry manifestPage) {
	if m == nil {
		return
	}
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	m.Pages[strings.TrimSpace(entry.DocID)] = entry
}

func (m *buildManifest) shouldSkipPage(docID, hash, output string) bool {
	entry, ok := m.lookupPage(docID)
	if !ok {
		return false
	}
	if entry.Hash != hash {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

// prunePages drops entries for docs that are no longer part of the site.
func (m *buildManifest) prunePages(keep map[string]struct{}) []manifestPage {
	var removed []manifestPage
	for key, entry := range m.Pages {
		if _, ok := keep[key]; !ok {
			removed = append(removed, entry)
			delete(m.Pages, key)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].DocID < removed[j].DocID })
	return removed
}

// siteHash fingerprints the navigation shared by every page: the sidebar and
// each doc's metadata. A change here invalidates all pages.
func siteHash(site *content.Site) (string, error) {
	hasher := blake3.New()
	if nav := site.Sidebar(); nav != nil {
		_, _ = hasher.Write([]byte(nav.Print()))
	}
	for _, doc := range site.Docs() {
		encoded, err := json.Marshal(doc.Metadata)
		if err != nil {
			return "", fmt.Errorf("generator: hash metadata of %s: %w", doc.Metadata.ID, err)
		}
		_, _ = hasher.Write(encoded)
		_, _ = hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// pageHash keys a rendered page on its source bytes, the shared site hash and
// the render settings.
func pageHash(doc *content.Doc, site string, settings string) string {
	hasher := blake3.New()
	_, _ = hasher.Write(doc.Checksum)
	_, _ = hasher.Write([]byte(site))
	_, _ = hasher.Write([]byte(settings))
	return hex.EncodeToString(hasher.Sum(nil))
}

func computeHash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
