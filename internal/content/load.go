package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-docsite/internal/sidebar"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Source supplies doc sources and the filesystem holding category metadata.
type Source interface {
	LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error)
	FS() fs.FS
}

var (
	errSourceRequired  = errors.New("content: source is required")
	errBuilderRequired = errors.New("content: builder is required")
)

// LoadSite reads every doc under the source root, builds the records and
// assembles the site with the builder's sidebar name.
func LoadSite(ctx context.Context, source Source, builder *Builder, includeDrafts bool) (*Site, error) {
	if source == nil {
		return nil, errSourceRequired
	}
	if builder == nil {
		return nil, errBuilderRequired
	}
	documents, err := source.LoadDirectory(ctx, ".", interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("content: load docs: %w", err)
	}
	docs, err := builder.BuildAll(ctx, documents)
	if err != nil {
		return nil, err
	}
	categories, err := sidebar.LoadCategories(source.FS())
	if err != nil {
		return nil, fmt.Errorf("content: load categories: %w", err)
	}
	return NewSite(docs, SiteOptions{
		SidebarName:   builder.Config().SidebarName,
		IncludeDrafts: includeDrafts,
		Categories:    categories,
	})
}
