package docsite

import (
	"context"
	"fmt"
	"io/fs"

	staticcmd "github.com/goliatone/go-docsite/internal/commands/static"
	"github.com/goliatone/go-docsite/internal/components"
	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/render"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// PageMetadata exports the per-doc record consumed by navigation and search.
type PageMetadata = content.PageMetadata

// Doc exports a built doc: metadata, TOC and content tree.
type Doc = content.Doc

// Site exports the assembled doc set with its sidebar.
type Site = content.Site

// ComponentMap exports the element-kind to renderer mapping.
type ComponentMap = components.Map

// Component exports a single element renderer.
type Component = components.Component

// ComponentOverride exports the override accepted by the resolver: a
// *ComponentMap or a derivation built with DeriveComponents.
type ComponentOverride = components.Override

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// BuildOptions exports the generator build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator build summary.
type BuildResult = generator.BuildResult

// Option exports container options for advanced wiring.
type Option = di.Option

// DefaultComponents returns the built-in component map.
func DefaultComponents() *ComponentMap {
	return components.Defaults()
}

// DeriveComponents builds an override from the default map.
func DeriveComponents(fn func(defaults *ComponentMap) *ComponentMap) ComponentOverride {
	return components.Derive(fn)
}

// WithComponentOverride applies override to every rendered page.
func WithComponentOverride(override ComponentOverride) Option {
	return di.WithComponentOverride(override)
}

// WithLoggerProvider replaces the logger provider derived from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithStorage replaces the filesystem artifact store.
func WithStorage(provider interfaces.StorageProvider) Option {
	return di.WithStorage(provider)
}

// WithDocsFS reads docs from fsys instead of Config.Docs.Dir.
func WithDocsFS(fsys fs.FS) Option {
	return di.WithDocsFS(fsys)
}

// Module is the top level docs site runtime.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generator returns the static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Build runs the build command and returns the generator result, which is
// populated even when some pages failed.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	var result *BuildResult
	err := m.container.BuildSiteHandler().Execute(ctx, staticcmd.BuildSiteCommand{
		Docs:   opts.DocIDs,
		Force:  opts.Force,
		DryRun: opts.DryRun,
		ResultCallback: func(env staticcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	return result, err
}

// Clean removes the generated output.
func (m *Module) Clean(ctx context.Context) error {
	return m.container.CleanSiteHandler().Execute(ctx, staticcmd.CleanSiteCommand{})
}

// LoadSite reads and assembles the configured docs.
func (m *Module) LoadSite(ctx context.Context) (*Site, error) {
	return m.container.LoadSite(ctx)
}

// Render returns the HTML fragment for one doc, using the configured
// component override.
func (m *Module) Render(ctx context.Context, docID string) (string, error) {
	site, err := m.LoadSite(ctx)
	if err != nil {
		return "", err
	}
	doc, err := site.Get(docID)
	if err != nil {
		return "", err
	}
	out, err := render.HTML(doc, m.container.Components())
	if err != nil {
		return "", fmt.Errorf("docsite: render %s: %w", docID, err)
	}
	return out, nil
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
