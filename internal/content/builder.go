package content

import (
	"context"
	"fmt"
	"maps"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/internal/markup"
	"github.com/goliatone/go-docsite/internal/validation"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Config controls how page records are derived from sources.
type Config struct {
	// BaseURL is the site mount point, e.g. "/kotlin-notes/".
	BaseURL string
	// RouteBasePath prefixes every doc slug, e.g. "docs".
	RouteBasePath string
	// DocsPath is the docs directory relative to the site root, used for
	// source aliases and edit links.
	DocsPath    string
	EditURL     string
	SidebarName string
	Version     string
	TOCMinLevel int
	TOCMaxLevel int
	Parse       interfaces.ParseOptions
}

// DefaultConfig mirrors a site served at the root with docs under /docs.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "/",
		RouteBasePath: "docs",
		DocsPath:      "docs",
		SidebarName:   "docsSidebar",
		Version:       DefaultVersion,
		TOCMinLevel:   markup.DefaultTOCMinLevel,
		TOCMaxLevel:   markup.DefaultTOCMaxLevel,
	}
}

// Builder turns loaded documents into page records. It holds no per-build
// state and is safe for concurrent use.
type Builder struct {
	cfg       Config
	parser    interfaces.MarkdownParser
	validator *validation.Validator
	logger    interfaces.Logger
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithLogger wires a logger; nil keeps the no-op default.
func WithLogger(logger interfaces.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logging.Resolve(logger)
	}
}

// WithValidator replaces the default front matter validator.
func WithValidator(validator *validation.Validator) BuilderOption {
	return func(b *Builder) {
		if validator != nil {
			b.validator = validator
		}
	}
}

// NewBuilder constructs a Builder. A nil parser selects the goldmark parser
// configured with cfg.Parse.
func NewBuilder(cfg Config, parser interfaces.MarkdownParser, opts ...BuilderOption) (*Builder, error) {
	cfg = withConfigDefaults(cfg)
	if parser == nil {
		parser = markdown.NewGoldmarkParser(cfg.Parse)
	}
	b := &Builder{
		cfg:    cfg,
		parser: parser,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.validator == nil {
		validator, err := validation.NewValidator(nil)
		if err != nil {
			return nil, err
		}
		b.validator = validator
	}
	return b, nil
}

// Config returns the effective builder configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// Build derives the page record for doc.
func (b *Builder) Build(ctx context.Context, doc *interfaces.Document) (*Doc, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fm := doc.FrontMatter
	if err := b.validator.Validate(fm.Raw); err != nil {
		return nil, goerrors.Wrap(
			fmt.Errorf("%w: %s: %w", ErrInvalidFrontMatter, doc.FilePath, err),
			goerrors.CategoryValidation,
			"front matter validation failed",
		).WithTextCode("FRONT_MATTER_INVALID")
	}

	paths := resolvePath(doc.FilePath, fm.ID, fm.Slug)
	if paths.baseID == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocID, doc.FilePath)
	}

	tree, err := markup.FromMarkdown(b.parser, doc.Body, b.cfg.Parse)
	if err != nil {
		return nil, fmt.Errorf("content: convert %s: %w", doc.FilePath, err)
	}

	contentTitle := markup.ContentTitle(tree)
	title := firstNonEmpty(fm.Title, contentTitle, paths.baseID)
	if contentTitle == "" && !fm.HideTitle {
		prependTitle(tree, title)
	}

	edit, err := editURL(b.cfg.EditURL, b.cfg.DocsPath, paths.rel)
	if err != nil {
		return nil, fmt.Errorf("content: edit url for %s: %w", doc.FilePath, err)
	}

	position := fm.SidebarPosition
	if position == nil {
		position = paths.position
	}

	minLevel, maxLevel := b.cfg.TOCMinLevel, b.cfg.TOCMaxLevel
	if fm.TOCMinHeadingLevel > 0 {
		minLevel = fm.TOCMinHeadingLevel
	}
	if fm.TOCMaxHeadingLevel > 0 {
		maxLevel = fm.TOCMaxHeadingLevel
	}

	frontMatter := maps.Clone(fm.Raw)
	if frontMatter == nil {
		frontMatter = map[string]any{}
	}

	record := &Doc{
		Metadata: PageMetadata{
			ID:              paths.id,
			Title:           title,
			Description:     firstNonEmpty(fm.Description, markup.Excerpt(tree)),
			Source:          sourceAlias(b.cfg.DocsPath, paths.rel),
			SourceDirName:   paths.sourceDirName,
			Slug:            paths.slug,
			Permalink:       permalink(b.cfg.BaseURL, b.cfg.RouteBasePath, paths.slug),
			Draft:           fm.Draft,
			Unlisted:        fm.Unlisted,
			EditURL:         edit,
			Tags:            b.tags(fm.Tags),
			Version:         b.cfg.Version,
			SidebarPosition: position,
			FrontMatter:     frontMatter,
		},
		ContentTitle:          contentTitle,
		TOC:                   markup.ExtractTOC(tree, minLevel, maxLevel),
		Tree:                  tree,
		SidebarLabel:          firstNonEmpty(fm.SidebarLabel, title),
		SourcePath:            paths.rel,
		CategoryIndex:         paths.categoryIndex,
		Checksum:              append([]byte(nil), doc.Checksum...),
		LastModified:          doc.LastModified,
		paginationPrev:        fm.PaginationPrev,
		paginationNext:        fm.PaginationNext,
		disablePaginationPrev: fm.DisablePaginationPrev,
		disablePaginationNext: fm.DisablePaginationNext,
	}

	logging.WithDocContext(b.logger, record.Metadata.ID, record.Metadata.Source, record.Metadata.Permalink).
		Debug("content.doc_built", "toc_entries", len(record.TOC))
	return record, nil
}

// BuildAll builds every document, stopping at the first failure.
func (b *Builder) BuildAll(ctx context.Context, docs []*interfaces.Document) ([]*Doc, error) {
	out := make([]*Doc, 0, len(docs))
	for _, doc := range docs {
		built, err := b.Build(ctx, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func (b *Builder) tags(labels []string) []Tag {
	tags := make([]Tag, 0, len(labels))
	seen := map[string]struct{}{}
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		tags = append(tags, Tag{
			Label:     label,
			Permalink: permalink(b.cfg.BaseURL, b.cfg.RouteBasePath, "tags/"+tagSlug(label)),
		})
	}
	return tags
}

// prependTitle adds a header heading to pages whose body has no h1.
func prependTitle(tree *markup.Node, title string) {
	h1 := markup.Element("h1", []markup.Attr{{Key: "id", Val: markup.Slugify(title)}}, markup.Text(title))
	header := markup.Element("header", nil, h1)
	children := []*markup.Node{header}
	if len(tree.Children) > 0 {
		children = append(children, markup.Text("\n"))
	}
	tree.Children = append(children, tree.Children...)
}

func withConfigDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if strings.TrimSpace(cfg.DocsPath) == "" {
		cfg.DocsPath = defaults.DocsPath
	}
	if strings.TrimSpace(cfg.SidebarName) == "" {
		cfg.SidebarName = defaults.SidebarName
	}
	if strings.TrimSpace(cfg.Version) == "" {
		cfg.Version = defaults.Version
	}
	if cfg.TOCMinLevel == 0 {
		cfg.TOCMinLevel = defaults.TOCMinLevel
	}
	if cfg.TOCMaxLevel == 0 {
		cfg.TOCMaxLevel = defaults.TOCMaxLevel
	}
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
