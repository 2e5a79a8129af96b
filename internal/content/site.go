package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-docsite/internal/sidebar"
)

// SiteOptions controls how docs are assembled.
type SiteOptions struct {
	SidebarName   string
	IncludeDrafts bool
	// Categories carries _category_ metadata keyed by source directory.
	Categories map[string]sidebar.Category
}

// TagIndex lists the docs carrying one tag.
type TagIndex struct {
	Tag
	DocIDs []string `json:"docIds"`
}

// Site is an immutable set of built docs with navigation resolved.
type Site struct {
	docs        []*Doc
	byID        map[string]*Doc
	byPermalink map[string]*Doc
	sidebar     *sidebar.Sidebar
	tags        []TagIndex
	drafts      int
}

// NewSite validates docs and wires navigation. Records are copied; the input
// slice and its docs are left untouched. Every duplicate id or permalink is
// reported in the returned error.
func NewSite(docs []*Doc, opts SiteOptions) (*Site, error) {
	site := &Site{
		byID:        make(map[string]*Doc, len(docs)),
		byPermalink: make(map[string]*Doc, len(docs)),
	}

	var errs []error
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if doc.Metadata.Draft && !opts.IncludeDrafts {
			site.drafts++
			continue
		}
		record := doc.clone()
		if existing, ok := site.byID[record.Metadata.ID]; ok {
			errs = append(errs, fmt.Errorf("%w: %q (%s, %s)", ErrDuplicateID, record.Metadata.ID, existing.SourcePath, record.SourcePath))
			continue
		}
		if existing, ok := site.byPermalink[record.Metadata.Permalink]; ok {
			errs = append(errs, fmt.Errorf("%w: %q (%s, %s)", ErrDuplicatePermalink, record.Metadata.Permalink, existing.SourcePath, record.SourcePath))
			continue
		}
		site.byID[record.Metadata.ID] = record
		site.byPermalink[record.Metadata.Permalink] = record
		site.docs = append(site.docs, record)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	items := make([]sidebar.Item, 0, len(site.docs))
	for _, doc := range site.docs {
		items = append(items, sidebar.Item{
			DocID:     doc.Metadata.ID,
			Label:     doc.SidebarLabel,
			Permalink: doc.Metadata.Permalink,
			Position:  doc.Metadata.SidebarPosition,
			Path:      doc.SourcePath,
			Index:     doc.CategoryIndex,
			Unlisted:  doc.Metadata.Unlisted,
		})
	}
	site.sidebar = sidebar.Build(opts.SidebarName, items, opts.Categories)

	if err := site.paginate(opts.SidebarName); err != nil {
		return nil, err
	}
	site.order()
	site.indexTags()
	return site, nil
}

// paginate fills previous/next links from the flattened sidebar, then
// applies front matter overrides.
func (s *Site) paginate(sidebarName string) error {
	flat := s.sidebar.Flatten()
	for i, node := range flat {
		doc := s.byID[node.DocID]
		doc.Metadata.Sidebar = sidebarName
		if i > 0 {
			doc.Metadata.Previous = s.byID[flat[i-1].DocID].NavLink()
		}
		if i < len(flat)-1 {
			doc.Metadata.Next = s.byID[flat[i+1].DocID].NavLink()
		}
	}

	var errs []error
	for _, doc := range s.docs {
		prev, err := s.override(doc, doc.Metadata.Previous, doc.paginationPrev, doc.disablePaginationPrev)
		if err != nil {
			errs = append(errs, err)
		}
		next, err := s.override(doc, doc.Metadata.Next, doc.paginationNext, doc.disablePaginationNext)
		if err != nil {
			errs = append(errs, err)
		}
		doc.Metadata.Previous, doc.Metadata.Next = prev, next
	}
	return errors.Join(errs...)
}

func (s *Site) override(doc *Doc, current *NavLink, target *string, disabled bool) (*NavLink, error) {
	if disabled {
		return nil, nil
	}
	if target == nil {
		return current, nil
	}
	ref := strings.TrimSpace(*target)
	linked, ok := s.byID[ref]
	if !ok {
		linked, ok = s.byID[joinID(dirOfID(doc.Metadata.ID), ref)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q referenced by %s", ErrPaginationTarget, ref, doc.SourcePath)
	}
	return linked.NavLink(), nil
}

// order sorts docs by sidebar position, then the docs outside the sidebar
// by id.
func (s *Site) order() {
	rank := map[string]int{}
	for i, node := range s.sidebar.Flatten() {
		rank[node.DocID] = i
	}
	sort.SliceStable(s.docs, func(i, j int) bool {
		ri, iok := rank[s.docs[i].Metadata.ID]
		rj, jok := rank[s.docs[j].Metadata.ID]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return s.docs[i].Metadata.ID < s.docs[j].Metadata.ID
	})
}

func (s *Site) indexTags() {
	byLabel := map[string]*TagIndex{}
	for _, doc := range s.docs {
		if doc.Metadata.Unlisted {
			continue
		}
		for _, tag := range doc.Metadata.Tags {
			entry, ok := byLabel[tag.Permalink]
			if !ok {
				entry = &TagIndex{Tag: tag}
				byLabel[tag.Permalink] = entry
			}
			entry.DocIDs = append(entry.DocIDs, doc.Metadata.ID)
		}
	}
	for _, entry := range byLabel {
		s.tags = append(s.tags, *entry)
	}
	sort.Slice(s.tags, func(i, j int) bool {
		return s.tags[i].Permalink < s.tags[j].Permalink
	})
}

// Get returns the doc with id.
func (s *Site) Get(id string) (*Doc, error) {
	doc, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDocNotFound, id)
	}
	return doc, nil
}

// ByPermalink returns the doc served at permalink. A trailing slash is
// ignored.
func (s *Site) ByPermalink(permalink string) (*Doc, bool) {
	if permalink != "/" {
		permalink = strings.TrimSuffix(permalink, "/")
	}
	doc, ok := s.byPermalink[permalink]
	return doc, ok
}

// Docs returns every doc: sidebar order first, then the rest by id.
func (s *Site) Docs() []*Doc {
	return append([]*Doc(nil), s.docs...)
}

// Listed returns the docs that appear in navigation, sitemaps and indexes.
func (s *Site) Listed() []*Doc {
	out := make([]*Doc, 0, len(s.docs))
	for _, doc := range s.docs {
		if !doc.Metadata.Unlisted {
			out = append(out, doc)
		}
	}
	return out
}

// Sidebar returns the navigation tree.
func (s *Site) Sidebar() *sidebar.Sidebar {
	return s.sidebar
}

// Tags returns the tag index sorted by permalink.
func (s *Site) Tags() []TagIndex {
	return append([]TagIndex(nil), s.tags...)
}

// Len reports the number of docs in the site.
func (s *Site) Len() int {
	return len(s.docs)
}

// SkippedDrafts reports how many drafts were left out.
func (s *Site) SkippedDrafts() int {
	return s.drafts
}

func dirOfID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[:i]
	}
	return "."
}
