package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-docsite/internal/catalog"
	"github.com/goliatone/go-docsite/internal/components"
	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/identity"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/render"
	"github.com/goliatone/go-docsite/pkg/interfaces"
	"github.com/goliatone/go-docsite/pkg/storage"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	// ErrOutputDirRequired is returned by Clean when no output dir is configured.
	ErrOutputDirRequired = errors.New("generator: output dir is required")
	errSourceRequired    = errors.New("generator: markdown source is required")
	errBuilderRequired   = errors.New("generator: content builder is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Source supplies raw documents and the docs root filesystem.
type Source = content.Source

// Cataloger persists navigation records after a successful build.
type Cataloger interface {
	Sync(ctx context.Context, docs []*content.Doc) (catalog.SyncResult, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	SiteURL         string
	SiteTitle       string
	Lang            string
	Stylesheets     []string
	IncludeDrafts   bool
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	SearchIndex     bool
	MarkdownExport  bool
	Precompress     bool
	Workers         int
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// DocIDs limits rendering to these docs. Navigation still covers the
	// whole site.
	DocIDs []string
	DryRun bool
	// Force re-renders pages the manifest reports as unchanged.
	Force bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	// BuildID is stable for identical sources and render settings.
	BuildID       uuid.UUID
	PagesBuilt    int
	PagesSkipped  int
	PagesFailed   int
	DraftsSkipped int
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Artifacts     []string
	Removed       []string
	Errors        []error
	Catalog       *catalog.SyncResult
	DryRun        bool
}

// RenderedPage is a page produced by a build.
type RenderedPage struct {
	DocID     string
	Permalink string
	Output    string
	HTML      string
	Markdown  string
	Hash      string
	Checksum  string
	Duration  time.Duration

	lastModified time.Time
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	DocID     string
	Permalink string
	Duration  time.Duration
	Skipped   bool
	Err       error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}

// Dependencies lists the services required by the generator.
type Dependencies struct {
	Source   Source
	Builder  *content.Builder
	Resolver *components.Resolver
	Override components.Override
	Storage  interfaces.StorageProvider
	Catalog  Cataloger
	Metrics  *Metrics
	Logger   interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Resolver == nil {
		deps.Resolver = components.NewResolver(components.Defaults())
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logging.Resolve(deps.Logger),
		now:    time.Now,
	}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
}

type disabledService struct{}

type buildContext struct {
	site        *content.Site
	components  *components.Map
	targets     []*content.Doc
	siteHash    string
	settings    string
	generatedAt time.Time
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	buildCtx, err := s.loadContext(ctx, opts)
	if err != nil {
		s.logger.Error("generator.load_failed", "error", err)
		return nil, err
	}

	result := &BuildResult{
		BuildID:       identity.BuildUUID(buildCtx.siteHash + "|" + buildCtx.settings),
		DryRun:        opts.DryRun,
		DraftsSkipped: buildCtx.site.SkippedDrafts(),
		Diagnostics:   make([]RenderDiagnostic, 0, len(buildCtx.targets)),
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(buildCtx.targets))
		errorsSlice []error
		baseDir     = strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
		writer      = newArtifactWriter(s.deps.Storage)
	)
	if opts.DryRun {
		writer = noopWriter{}
	}

	if s.cfg.CleanBuild && !opts.DryRun && baseDir != "" {
		if err := writer.Remove(ctx, baseDir); err != nil {
			return nil, fmt.Errorf("generator: clean output: %w", err)
		}
	}

	manifest := newBuildManifest()
	if s.cfg.Incremental && !s.cfg.CleanBuild {
		loaded, err := s.loadManifest(ctx)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			manifest = loaded
		}
	}
	skipAllowed := s.cfg.Incremental && !opts.Force && !opts.DryRun

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		switch {
		case outcome.err != nil:
			result.PagesFailed++
			errorsSlice = append(errorsSlice, outcome.err)
			s.deps.Metrics.observePage(outcomeFailed, outcome.diagnostic.Duration)
		case outcome.skipped:
			result.PagesSkipped++
			s.deps.Metrics.observePage(outcomeSkipped, 0)
		default:
			result.PagesBuilt++
			rendered = append(rendered, outcome.page)
			s.deps.Metrics.observePage(outcomeRendered, outcome.diagnostic.Duration)
		}
	}

	if err := s.renderConcurrently(ctx, buildCtx, manifest, skipAllowed, baseDir, collect); err != nil {
		errorsSlice = append(errorsSlice, err)
	}
	sortRendered(rendered, buildCtx.targets)
	sortDiagnostics(result.Diagnostics, buildCtx.targets)

	if opts.DryRun {
		result.Rendered = rendered
		return s.finish(result, start, errorsSlice)
	}

	if ctx.Err() == nil {
		artifacts, err := s.persistPages(ctx, writer, rendered, baseDir)
		result.Artifacts = append(result.Artifacts, artifacts...)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if ctx.Err() == nil {
		artifacts, err := s.persistSiteFiles(ctx, writer, buildCtx, baseDir)
		result.Artifacts = append(result.Artifacts, artifacts...)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) == 0 && len(opts.DocIDs) == 0 {
		keep := make(map[string]struct{}, buildCtx.site.Len())
		for _, doc := range buildCtx.site.Docs() {
			keep[doc.Metadata.ID] = struct{}{}
		}
		for _, stale := range manifest.prunePages(keep) {
			if err := writer.Remove(ctx, stale.Output); err != nil {
				errorsSlice = append(errorsSlice, err)
				continue
			}
			result.Removed = append(result.Removed, stale.Output)
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = buildCtx.generatedAt
		manifest.SiteHash = buildCtx.siteHash
		manifest.BuildID = result.BuildID.String()
		for _, page := range rendered {
			if previous, ok := manifest.lookupPage(page.DocID); ok && previous.Output != page.Output {
				if err := writer.Remove(ctx, previous.Output); err != nil {
					errorsSlice = append(errorsSlice, err)
				} else {
					result.Removed = append(result.Removed, previous.Output)
				}
			}
			manifest.setPage(manifestPage{
				DocID:        page.DocID,
				Permalink:    page.Permalink,
				Output:       page.Output,
				Hash:         page.Hash,
				Checksum:     page.Checksum,
				LastModified: page.lastModified,
				RenderedAt:   buildCtx.generatedAt,
			})
		}
		if err := s.persistManifest(ctx, writer, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) == 0 && s.deps.Catalog != nil {
		synced, err := s.deps.Catalog.Sync(ctx, buildCtx.site.Docs())
		if err != nil {
			errorsSlice = append(errorsSlice, fmt.Errorf("generator: catalog sync: %w", err))
		} else {
			result.Catalog = &synced
		}
	}

	result.Rendered = rendered
	return s.finish(result, start, errorsSlice)
}

func (s *service) finish(result *BuildResult, start time.Time, errs []error) (*BuildResult, error) {
	result.Duration = time.Since(start)
	s.deps.Metrics.observeBuild(result.Duration)
	s.deps.Metrics.observeResolver(s.deps.Resolver.Stats())
	fields := []any{
		"build_id", result.BuildID.String(),
		"built", result.PagesBuilt,
		"skipped", result.PagesSkipped,
		"failed", result.PagesFailed,
		"artifacts", len(result.Artifacts),
		"dry_run", result.DryRun,
		"duration_ms", result.Duration.Milliseconds(),
	}
	if len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		s.logger.Error("generator.build_failed", append(fields, "errors", len(errs))...)
		return result, errors.Join(errs...)
	}
	s.logger.Info("generator.build_completed", fields...)
	return result, nil
}

func (s *service) loadContext(ctx context.Context, opts BuildOptions) (*buildContext, error) {
	if s.deps.Source == nil {
		return nil, errSourceRequired
	}
	if s.deps.Builder == nil {
		return nil, errBuilderRequired
	}
	site, err := content.LoadSite(ctx, s.deps.Source, s.deps.Builder, s.cfg.IncludeDrafts)
	if err != nil {
		return nil, err
	}

	targets := site.Docs()
	if len(opts.DocIDs) > 0 {
		targets = make([]*content.Doc, 0, len(opts.DocIDs))
		seen := map[string]struct{}{}
		for _, id := range opts.DocIDs {
			doc, err := site.Get(id)
			if err != nil {
				return nil, fmt.Errorf("generator: %w", err)
			}
			if _, ok := seen[doc.Metadata.ID]; ok {
				continue
			}
			seen[doc.Metadata.ID] = struct{}{}
			targets = append(targets, doc)
		}
	}

	fingerprint, err := siteHash(site)
	if err != nil {
		return nil, err
	}

	return &buildContext{
		site:        site,
		components:  s.deps.Resolver.Resolve(s.deps.Override),
		targets:     targets,
		siteHash:    fingerprint,
		settings:    s.renderSettings(),
		generatedAt: s.now().UTC(),
	}, nil
}

// renderSettings captures config that changes page bytes.
func (s *service) renderSettings() string {
	return strings.Join([]string{
		s.cfg.SiteURL,
		s.cfg.SiteTitle,
		s.cfg.Lang,
		strings.Join(s.cfg.Stylesheets, ","),
		strconv.FormatBool(s.cfg.MarkdownExport),
		strconv.FormatBool(s.cfg.Precompress),
	}, "|")
}

func (s *service) renderConcurrently(
	ctx context.Context,
	buildCtx *buildContext,
	manifest *buildManifest,
	skipAllowed bool,
	baseDir string,
	collect func(renderOutcome),
) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.effectiveWorkerCount(len(buildCtx.targets)))

	for _, doc := range buildCtx.targets {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			outcome := s.renderPage(groupCtx, buildCtx, doc, manifest, skipAllowed, baseDir)
			collect(outcome)
			if errors.Is(outcome.err, context.Canceled) || errors.Is(outcome.err, context.DeadlineExceeded) {
				return outcome.err
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *service) renderPage(
	ctx context.Context,
	buildCtx *buildContext,
	doc *content.Doc,
	manifest *buildManifest,
	skipAllowed bool,
	baseDir string,
) renderOutcome {
	meta := doc.Metadata
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			DocID:     meta.ID,
			Permalink: meta.Permalink,
		},
	}
	if err := ctx.Err(); err != nil {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	output := joinOutputPath(baseDir, buildOutputPath(meta.Permalink, s.baseURL(), "index.html"))
	hash := pageHash(doc, buildCtx.siteHash, buildCtx.settings)
	if skipAllowed && manifest.shouldSkipPage(meta.ID, hash, output) {
		outcome.skipped = true
		outcome.diagnostic.Skipped = true
		s.logger.Debug("generator.page_skipped", "doc_id", meta.ID, "output", output)
		return outcome
	}

	start := time.Now()
	var buf bytes.Buffer
	err := render.Document(&buf, doc, buildCtx.site.Sidebar(), buildCtx.components, render.ShellOptions{
		SiteTitle:   s.cfg.SiteTitle,
		Lang:        s.cfg.Lang,
		SiteURL:     s.cfg.SiteURL,
		Stylesheets: s.cfg.Stylesheets,
	})
	var markdown string
	if err == nil && s.cfg.MarkdownExport {
		markdown, err = exportMarkdown(doc, buildCtx.components)
	}
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render %s (%s): %w", meta.ID, meta.Source, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		logging.WithDocContext(s.logger, meta.ID, meta.Source, meta.Permalink).Error("generator.page_failed", "error", err)
		return outcome
	}

	page := buf.String()
	outcome.page = RenderedPage{
		DocID:        meta.ID,
		Permalink:    meta.Permalink,
		Output:       output,
		HTML:         page,
		Markdown:     markdown,
		Hash:         hash,
		Checksum:     computeHash(buf.Bytes()),
		Duration:     duration,
		lastModified: doc.LastModified,
	}
	logging.WithDocContext(s.logger, meta.ID, meta.Source, meta.Permalink).Debug("generator.page_rendered", "duration_ms", duration.Milliseconds())
	return outcome
}

func (s *service) persistPages(
	ctx context.Context,
	writer artifactWriter,
	pages []RenderedPage,
	baseDir string,
) ([]string, error) {
	if len(pages) == 0 {
		return nil, nil
	}
	var written []string
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := writer.EnsureDir(ctx, baseDir); err != nil {
			return written, err
		}
	}
	for i := range pages {
		page := pages[i]
		if err := ensureDir(ctx, writer, dirCache, path.Dir(page.Output)); err != nil {
			return written, err
		}
		metadata := map[string]string{
			"doc_id":    page.DocID,
			"permalink": page.Permalink,
			"hash":      page.Hash,
		}
		files := []writeFileRequest{{
			Path:        page.Output,
			Content:     strings.NewReader(page.HTML),
			Size:        int64(len(page.HTML)),
			Category:    categoryPage,
			ContentType: "text/html; charset=utf-8",
			Checksum:    page.Checksum,
			Metadata:    metadata,
		}}
		if s.cfg.Precompress {
			compressed, err := gzipBytes([]byte(page.HTML))
			if err != nil {
				return written, fmt.Errorf("generator: compress %s: %w", page.Output, err)
			}
			files = append(files, writeFileRequest{
				Path:        page.Output + ".gz",
				Content:     bytes.NewReader(compressed),
				Size:        int64(len(compressed)),
				Category:    categoryGzip,
				ContentType: "application/gzip",
				Checksum:    computeHash(compressed),
				Metadata:    metadata,
			})
		}
		if s.cfg.MarkdownExport {
			mdPath := path.Join(path.Dir(page.Output), "index.md")
			files = append(files, writeFileRequest{
				Path:        mdPath,
				Content:     strings.NewReader(page.Markdown),
				Size:        int64(len(page.Markdown)),
				Category:    categoryMarkdown,
				ContentType: "text/markdown; charset=utf-8",
				Checksum:    computeHash([]byte(page.Markdown)),
				Metadata:    metadata,
			})
		}
		for _, req := range files {
			if err := writer.WriteFile(ctx, req); err != nil {
				return written, fmt.Errorf("generator: write %s: %w", req.Path, err)
			}
			written = append(written, req.Path)
		}
	}
	return written, nil
}

func (s *service) persistSiteFiles(
	ctx context.Context,
	writer artifactWriter,
	buildCtx *buildContext,
	baseDir string,
) ([]string, error) {
	type siteFile struct {
		name        string
		data        []byte
		category    writeCategory
		contentType string
	}
	var files []siteFile
	listed := buildCtx.site.Listed()
	if s.cfg.GenerateSitemap {
		files = append(files, siteFile{
			name:        "sitemap.xml",
			data:        []byte(buildSitemap(s.cfg.SiteURL, listed, buildCtx.generatedAt)),
			category:    categorySitemap,
			contentType: "application/xml",
		})
	}
	if s.cfg.GenerateRobots {
		files = append(files, siteFile{
			name:        "robots.txt",
			data:        []byte(buildRobots(s.cfg.SiteURL, s.baseURL(), s.cfg.GenerateSitemap)),
			category:    categoryRobots,
			contentType: "text/plain; charset=utf-8",
		})
	}
	if s.cfg.SearchIndex {
		data, err := buildSearchIndex(listed)
		if err != nil {
			return nil, err
		}
		files = append(files, siteFile{
			name:        "search-index.json",
			data:        data,
			category:    categorySearch,
			contentType: "application/json",
		})
	}
	if len(files) == 0 {
		return nil, nil
	}
	if err := ensureDir(ctx, writer, map[string]struct{}{}, baseDir); err != nil {
		return nil, err
	}

	var written []string
	for _, file := range files {
		fullPath := joinOutputPath(baseDir, file.name)
		req := writeFileRequest{
			Path:        fullPath,
			Content:     bytes.NewReader(file.data),
			Size:        int64(len(file.data)),
			Category:    file.category,
			ContentType: file.contentType,
			Checksum:    computeHash(file.data),
			Metadata: map[string]string{
				"generated_at": buildCtx.generatedAt.Format(time.RFC3339),
			},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return written, fmt.Errorf("generator: write %s: %w", fullPath, err)
		}
		written = append(written, fullPath)
	}
	return written, nil
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	if s.deps.Storage == nil {
		return newBuildManifest(), nil
	}
	rows, err := s.deps.Storage.Query(ctx, storage.OpRead, s.manifestTargetPath())
	if err != nil {
		return nil, fmt.Errorf("generator: read manifest: %w", err)
	}
	if rows == nil {
		return newBuildManifest(), nil
	}
	defer rows.Close()
	if !rows.Next() {
		return newBuildManifest(), nil
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("generator: scan manifest: %w", err)
	}
	return parseManifest(data)
}

func (s *service) manifestTargetPath() string {
	base := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	return joinOutputPath(base, manifestFileName)
}

func (s *service) persistManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	target := s.manifestTargetPath()
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	metadata := map[string]string{
		"version": strconv.Itoa(manifest.Version),
	}
	if !manifest.GeneratedAt.IsZero() {
		metadata["generated_at"] = manifest.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        target,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata:    metadata,
	})
}

// Clean removes the output directory and everything generated into it.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	if baseDir == "" || baseDir == "." {
		return ErrOutputDirRequired
	}
	if err := newArtifactWriter(s.deps.Storage).Remove(ctx, baseDir); err != nil {
		return fmt.Errorf("generator: clean %s: %w", baseDir, err)
	}
	s.logger.Info("generator.cleaned", "output_dir", baseDir)
	return nil
}

func (s *service) baseURL() string {
	if s.deps.Builder == nil {
		return "/"
	}
	return s.deps.Builder.Config().BaseURL
}

func (s *service) effectiveWorkerCount(pages int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if pages > 0 && workers > pages {
		return pages
	}
	return workers
}

func sortRendered(pages []RenderedPage, order []*content.Doc) {
	rank := docRank(order)
	sortByRank(pages, func(p RenderedPage) string { return p.DocID }, rank)
}

func sortDiagnostics(diags []RenderDiagnostic, order []*content.Doc) {
	rank := docRank(order)
	sortByRank(diags, func(d RenderDiagnostic) string { return d.DocID }, rank)
}

func docRank(order []*content.Doc) map[string]int {
	rank := make(map[string]int, len(order))
	for i, doc := range order {
		rank[doc.Metadata.ID] = i
	}
	return rank
}

func sortByRank[T any](items []T, key func(T) string, rank map[string]int) {
	slices.SortStableFunc(items, func(a, b T) int {
		return rank[key(a)] - rank[key(b)]
	})
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
