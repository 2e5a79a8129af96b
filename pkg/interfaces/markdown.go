package interfaces

import (
	"context"
	"time"

	"github.com/yuin/goldmark/ast"
)

// MarkdownParser converts raw Markdown bytes into a goldmark AST. The AST is
// projected into the markup tree by the content builder, so parsers never emit
// HTML directly.
type MarkdownParser interface {
	// Parse converts Markdown using the parser's default settings.
	Parse(markdown []byte) (ast.Node, error)
	// ParseWithOptions converts Markdown using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) (ast.Node, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService loads doc sources from disk.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Parse(ctx context.Context, doc *Document, opts ParseOptions) (ast.Node, error)
}

// Document represents a Markdown doc file with parsed front matter.
type Document struct {
	// FilePath is slash separated and relative to the docs root.
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models the doc metadata block. Pointer fields distinguish an
// absent key from an explicit zero value.
type FrontMatter struct {
	ID                    string         `yaml:"id" json:"id,omitempty"`
	Title                 string         `yaml:"title" json:"title,omitempty"`
	Description           string         `yaml:"description" json:"description,omitempty"`
	Slug                  string         `yaml:"slug" json:"slug,omitempty"`
	SidebarLabel          string         `yaml:"sidebar_label" json:"sidebar_label,omitempty"`
	SidebarPosition       *float64       `yaml:"sidebar_position" json:"sidebar_position,omitempty"`
	Tags                  []string       `yaml:"tags" json:"tags,omitempty"`
	Draft                 bool           `yaml:"draft" json:"draft,omitempty"`
	Unlisted              bool           `yaml:"unlisted" json:"unlisted,omitempty"`
	HideTitle             bool           `yaml:"hide_title" json:"hide_title,omitempty"`
	TOCMinHeadingLevel    int            `yaml:"toc_min_heading_level" json:"toc_min_heading_level,omitempty"`
	TOCMaxHeadingLevel    int            `yaml:"toc_max_heading_level" json:"toc_max_heading_level,omitempty"`
	PaginationPrev        *string        `yaml:"pagination_prev" json:"pagination_prev,omitempty"`
	PaginationNext        *string        `yaml:"pagination_next" json:"pagination_next,omitempty"`
	DisablePaginationPrev bool           `yaml:"-" json:"-"`
	DisablePaginationNext bool           `yaml:"-" json:"-"`
	Custom                map[string]any `yaml:",inline" json:"custom,omitempty"`
	Raw                   map[string]any `yaml:"-" json:"raw,omitempty"`
}

// LoadOptions fine-tunes how documents are discovered on disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
}
