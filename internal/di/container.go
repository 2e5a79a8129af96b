package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	command "github.com/goliatone/go-command"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-docsite/internal/adapters/storage"
	"github.com/goliatone/go-docsite/internal/catalog"
	"github.com/goliatone/go-docsite/internal/commands"
	staticcmd "github.com/goliatone/go-docsite/internal/commands/static"
	"github.com/goliatone/go-docsite/internal/components"
	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Container wires the docs site services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logOutput      io.Writer
	storage        interfaces.StorageProvider
	docsFS         fs.FS

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	catalogRepo catalog.Repository
	catalogSvc  *catalog.Service

	markdownSvc  *markdown.Service
	builder      *content.Builder
	resolver     *components.Resolver
	override     components.Override
	metrics      *generator.Metrics
	generatorSvc generator.Service

	buildHandler *staticcmd.BuildSiteHandler
	diffHandler  *staticcmd.DiffSiteHandler
	cleanHandler *staticcmd.CleanSiteHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithLogOutput sets the writer used by the console logging provider.
func WithLogOutput(w io.Writer) Option {
	return func(c *Container) {
		if w != nil {
			c.logOutput = w
		}
	}
}

// WithStorage overrides the filesystem artifact store rooted at the output dir.
func WithStorage(sp interfaces.StorageProvider) Option {
	return func(c *Container) {
		if sp != nil {
			c.storage = sp
		}
	}
}

// WithDocsFS reads doc sources from fsys instead of the configured docs dir.
func WithDocsFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.docsFS = fsys
	}
}

// WithBunDB reuses an open database for the catalog instead of opening the
// configured DSN. The caller keeps ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the catalog read cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithCatalogRepository bypasses database wiring and persists records in repo.
func WithCatalogRepository(repo catalog.Repository) Option {
	return func(c *Container) {
		c.catalogRepo = repo
	}
}

// WithComponentOverride applies override on top of the default component map
// for every build.
func WithComponentOverride(override components.Override) Option {
	return func(c *Container) {
		c.override = override
	}
}

// WithMetrics shares a metrics set with the caller.
func WithMetrics(metrics *generator.Metrics) Option {
	return func(c *Container) {
		c.metrics = metrics
	}
}

// NewContainer validates cfg and wires every service. Close releases the
// catalog database when the container opened it.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:    cfg,
		logOutput: os.Stderr,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureCatalog(context.Background()); err != nil {
		return nil, err
	}
	if err := c.configureContent(); err != nil {
		c.Close()
		return nil, err
	}
	c.configureGenerator()
	c.configureCommands()

	logging.ModuleLogger(c.loggerProvider, "docs").Debug("container.configured",
		"docs_dir", cfg.Docs.Dir,
		"output_dir", cfg.Generator.OutputDir,
		"generator", cfg.Generator.Enabled,
		"catalog", c.catalogSvc != nil,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	provider, err := NewLoggerProvider(c.Config.Logging, c.logOutput)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureCatalog(ctx context.Context) error {
	if c.catalogRepo == nil && c.Config.Catalog.Enabled {
		if c.bunDB == nil {
			db, err := catalog.OpenDB(c.Config.Catalog.Driver, c.Config.Catalog.DSN)
			if err != nil {
				return err
			}
			c.bunDB = db
			c.ownsDB = true
		}
		if err := catalog.CreateSchema(ctx, c.bunDB); err != nil {
			c.Close()
			return err
		}
		c.configureCacheDefaults()
		c.catalogRepo = catalog.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.catalogRepo == nil {
		return nil
	}

	svc, err := catalog.NewService(c.catalogRepo, catalog.WithLogger(logging.CatalogLogger(c.loggerProvider)))
	if err != nil {
		c.Close()
		return err
	}
	c.catalogSvc = svc
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Catalog.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if ttl := c.Config.Catalog.Cache.TTL; ttl > 0 {
			cfg.TTL = ttl
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureContent() error {
	parse := interfaces.ParseOptions{
		Extensions: c.Config.Markdown.Extensions,
		HardWraps:  c.Config.Markdown.HardWraps,
		SafeMode:   c.Config.Markdown.SafeMode,
	}

	svc, err := markdown.NewService(markdown.Config{
		BasePath:  c.Config.Docs.Dir,
		Patterns:  c.Config.Docs.Patterns,
		Recursive: c.Config.Docs.Recursive,
		Parser:    parse,
		FS:        c.docsFS,
	}, markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.markdownSvc = svc

	builder, err := content.NewBuilder(content.Config{
		BaseURL:       c.Config.Site.BaseURL,
		RouteBasePath: c.Config.Site.RouteBasePath,
		DocsPath:      docsPath(c.Config.Docs.Dir),
		EditURL:       c.Config.Site.EditURL,
		SidebarName:   c.Config.Site.SidebarName,
		Version:       c.Config.Docs.Version,
		TOCMinLevel:   c.Config.Docs.TOCMinLevel,
		TOCMaxLevel:   c.Config.Docs.TOCMaxLevel,
		Parse:         parse,
	}, nil, content.WithLogger(logging.ContentLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.builder = builder
	c.resolver = components.NewResolver(components.Defaults())
	return nil
}

func (c *Container) configureGenerator() {
	if !c.Config.Generator.Enabled {
		c.generatorSvc = generator.NewDisabledService()
		return
	}

	if c.storage == nil {
		root := c.Config.Generator.OutputDir
		c.storage = storage.NewFilesystemProvider(root, root)
	}
	if c.metrics == nil {
		c.metrics = generator.NewMetrics()
	}

	deps := generator.Dependencies{
		Source:   c.markdownSvc,
		Builder:  c.builder,
		Resolver: c.resolver,
		Override: c.override,
		Storage:  c.storage,
		Metrics:  c.metrics,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	}
	if c.catalogSvc != nil {
		deps.Catalog = c.catalogSvc
	}

	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:       c.Config.Generator.OutputDir,
		SiteURL:         c.Config.Site.URL,
		SiteTitle:       c.Config.Site.Title,
		Lang:            c.Config.Site.Lang,
		Stylesheets:     c.Config.Site.Stylesheets,
		IncludeDrafts:   c.Config.Docs.IncludeDrafts,
		CleanBuild:      c.Config.Generator.CleanBuild,
		Incremental:     c.Config.Generator.Incremental,
		GenerateSitemap: c.Config.Generator.Sitemap,
		GenerateRobots:  c.Config.Generator.Robots,
		SearchIndex:     c.Config.Generator.SearchIndex,
		MarkdownExport:  c.Config.Generator.MarkdownExport,
		Precompress:     c.Config.Generator.Precompress,
		Workers:         c.Config.Generator.Workers,
	}, deps)
}

func (c *Container) configureCommands() {
	logger := commands.CommandLogger(c.loggerProvider, "static")
	gates := staticcmd.FeatureGates{
		GeneratorEnabled: func() bool { return c.Config.Generator.Enabled },
	}

	timeout := c.Config.Commands.Timeout
	if c.Config.Generator.BuildTimeout > 0 {
		timeout = c.Config.Generator.BuildTimeout
	}

	c.buildHandler = staticcmd.NewBuildSiteHandler(c.generatorSvc, logger, gates,
		commands.WithTimeout[staticcmd.BuildSiteCommand](timeout))
	c.diffHandler = staticcmd.NewDiffSiteHandler(c.generatorSvc, logger, gates,
		commands.WithTimeout[staticcmd.DiffSiteCommand](timeout))
	c.cleanHandler = staticcmd.NewCleanSiteHandler(c.generatorSvc, logger, gates,
		commands.WithTimeout[staticcmd.CleanSiteCommand](c.Config.Commands.Timeout))
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// StorageProvider exposes the artifact store used by the generator. It is nil
// while the generator is disabled.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// MarkdownService exposes the doc source loader.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// Builder exposes the content builder.
func (c *Container) Builder() *content.Builder {
	return c.builder
}

// Resolver exposes the component resolver shared by every build.
func (c *Container) Resolver() *components.Resolver {
	return c.resolver
}

// ComponentOverride returns the configured override, which may be nil.
func (c *Container) ComponentOverride() components.Override {
	return c.override
}

// LoadSite reads and assembles the docs with the configured draft policy.
func (c *Container) LoadSite(ctx context.Context) (*content.Site, error) {
	return content.LoadSite(ctx, c.markdownSvc, c.builder, c.Config.Docs.IncludeDrafts)
}

// Components resolves the component map applied to rendered pages.
func (c *Container) Components() *components.Map {
	return c.resolver.Resolve(c.override)
}

// CatalogService returns the catalog service, or nil when the catalog is disabled.
func (c *Container) CatalogService() *catalog.Service {
	return c.catalogSvc
}

// GeneratorService returns the configured generator service.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// Metrics returns the generator metrics, or nil when the generator is disabled.
func (c *Container) Metrics() *generator.Metrics {
	return c.metrics
}

// BuildSiteHandler returns the build command handler.
func (c *Container) BuildSiteHandler() *staticcmd.BuildSiteHandler {
	return c.buildHandler
}

// DiffSiteHandler returns the dry-run command handler.
func (c *Container) DiffSiteHandler() *staticcmd.DiffSiteHandler {
	return c.diffHandler
}

// CleanSiteHandler returns the clean command handler.
func (c *Container) CleanSiteHandler() *staticcmd.CleanSiteHandler {
	return c.cleanHandler
}

var (
	_ command.Commander[staticcmd.BuildSiteCommand] = (*staticcmd.BuildSiteHandler)(nil)
	_ command.Commander[staticcmd.DiffSiteCommand]  = (*staticcmd.DiffSiteHandler)(nil)
	_ command.Commander[staticcmd.CleanSiteCommand] = (*staticcmd.CleanSiteHandler)(nil)
)

// Close releases resources the container opened itself.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("di: close catalog db: %w", err)
	}
	return nil
}

func docsPath(dir string) string {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Base(filepath.Clean(trimmed)))
}
