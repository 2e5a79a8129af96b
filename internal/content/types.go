package content

import (
	"errors"
	"slices"
	"time"

	"github.com/goliatone/go-docsite/internal/markup"
)

var (
	ErrNilDocument         = errors.New("content: document is nil")
	ErrInvalidFrontMatter  = errors.New("content: invalid front matter")
	ErrDuplicateID         = errors.New("content: duplicate doc id")
	ErrDuplicatePermalink  = errors.New("content: duplicate permalink")
	ErrDocNotFound         = errors.New("content: doc not found")
	ErrPaginationTarget    = errors.New("content: pagination target not found")
	ErrEmptyDocID          = errors.New("content: doc id is empty")
)

// DefaultVersion labels docs built from the working tree.
const DefaultVersion = "current"

// NavLink points at a neighbouring page.
type NavLink struct {
	Title     string `json:"title"`
	Permalink string `json:"permalink"`
}

// Tag is a doc label with the permalink of its tag listing.
type Tag struct {
	Label     string `json:"label"`
	Permalink string `json:"permalink"`
}

// PageMetadata is the static per-page record. JSON names match the shape
// consumed by navigation and search clients.
type PageMetadata struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Source          string         `json:"source"`
	SourceDirName   string         `json:"sourceDirName"`
	Slug            string         `json:"slug"`
	Permalink       string         `json:"permalink"`
	Draft           bool           `json:"draft"`
	Unlisted        bool           `json:"unlisted"`
	EditURL         string         `json:"editUrl,omitempty"`
	Tags            []Tag          `json:"tags"`
	Version         string         `json:"version"`
	SidebarPosition *float64       `json:"sidebarPosition,omitempty"`
	FrontMatter     map[string]any `json:"frontMatter"`
	Sidebar         string         `json:"sidebar,omitempty"`
	Previous        *NavLink       `json:"previous,omitempty"`
	Next            *NavLink       `json:"next,omitempty"`
}

// Doc is a built page: metadata, table of contents and markup tree.
type Doc struct {
	Metadata     PageMetadata
	ContentTitle string
	TOC          []markup.TocEntry
	Tree         *markup.Node

	// SidebarLabel is the navigation title; it defaults to the page title.
	SidebarLabel  string
	// SourcePath is relative to the docs root, slash separated.
	SourcePath    string
	CategoryIndex bool
	Checksum      []byte
	LastModified  time.Time

	paginationPrev        *string
	paginationNext        *string
	disablePaginationPrev bool
	disablePaginationNext bool
}

// NavLink returns the link other pages use to reach d.
func (d *Doc) NavLink() *NavLink {
	return &NavLink{Title: d.SidebarLabel, Permalink: d.Metadata.Permalink}
}

// clone copies the record so navigation fields can be filled without
// touching the builder's output. The markup tree is shared read-only.
func (d *Doc) clone() *Doc {
	copied := *d
	if d.Metadata.Previous != nil {
		prev := *d.Metadata.Previous
		copied.Metadata.Previous = &prev
	}
	if d.Metadata.Next != nil {
		next := *d.Metadata.Next
		copied.Metadata.Next = &next
	}
	copied.Metadata.Tags = slices.Clone(d.Metadata.Tags)
	copied.TOC = slices.Clone(d.TOC)
	return &copied
}
