package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSiteTitleRequired          = errors.New("docsite config: site title is required")
	ErrBaseURLInvalid             = errors.New("docsite config: base url must start and end with a slash")
	ErrRouteBasePathInvalid       = errors.New("docsite config: route base path must not contain empty segments")
	ErrSidebarNameRequired        = errors.New("docsite config: sidebar name is required")
	ErrDocsDirRequired            = errors.New("docsite config: docs directory is required")
	ErrTOCLevelsInvalid           = errors.New("docsite config: toc heading levels must satisfy 2 <= min <= max <= 6")
	ErrGeneratorOutputDirRequired = errors.New("docsite config: generator output directory is required when generator is enabled")
	ErrGeneratorWorkersInvalid    = errors.New("docsite config: generator workers must be zero or positive")
	ErrCatalogDriverUnknown       = errors.New("docsite config: catalog driver is invalid")
	ErrCatalogDSNRequired         = errors.New("docsite config: catalog dsn is required for postgres")
	ErrCatalogCacheTTLInvalid     = errors.New("docsite config: catalog cache ttl must be positive")
	ErrLoggingProviderRequired    = errors.New("docsite config: logging provider is required")
	ErrLoggingProviderUnknown     = errors.New("docsite config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("docsite config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("docsite config: logging format is invalid")
)

// Config aggregates the settings for a docs site build.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Docs      DocsConfig      `yaml:"docs"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Generator GeneratorConfig `yaml:"generator"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Commands  CommandsConfig  `yaml:"commands"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig holds the values that shape permalinks and the page shell.
type SiteConfig struct {
	Title         string   `yaml:"title"`
	URL           string   `yaml:"url"`
	BaseURL       string   `yaml:"base_url"`
	RouteBasePath string   `yaml:"route_base_path"`
	EditURL       string   `yaml:"edit_url"`
	SidebarName   string   `yaml:"sidebar_name"`
	Lang          string   `yaml:"lang"`
	Stylesheets   []string `yaml:"stylesheets"`
}

// DocsConfig controls doc discovery.
type DocsConfig struct {
	Dir           string   `yaml:"dir"`
	Patterns      []string `yaml:"patterns"`
	Recursive     bool     `yaml:"recursive"`
	IncludeDrafts bool     `yaml:"include_drafts"`
	Version       string   `yaml:"version"`
	TOCMinLevel   int      `yaml:"toc_min_heading_level"`
	TOCMaxLevel   int      `yaml:"toc_max_heading_level"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled        bool          `yaml:"enabled"`
	OutputDir      string        `yaml:"output_dir"`
	Workers        int           `yaml:"workers"`
	CleanBuild     bool          `yaml:"clean_build"`
	Incremental    bool          `yaml:"incremental"`
	Sitemap        bool          `yaml:"sitemap"`
	Robots         bool          `yaml:"robots"`
	SearchIndex    bool          `yaml:"search_index"`
	MarkdownExport bool          `yaml:"markdown_export"`
	Precompress    bool          `yaml:"precompress"`
	BuildTimeout   time.Duration `yaml:"build_timeout"`
}

// CatalogConfig configures navigation record persistence.
type CatalogConfig struct {
	Enabled bool               `yaml:"enabled"`
	Driver  string             `yaml:"driver"`
	DSN     string             `yaml:"dsn"`
	Cache   CatalogCacheConfig `yaml:"cache"`
}

// CatalogCacheConfig toggles the repository read cache.
type CatalogCacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// CommandsConfig captures command-layer behaviour.
type CommandsConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// RebuildCron schedules incremental builds when the registrar supports cron.
	RebuildCron string `yaml:"rebuild_cron"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns defaults that build a Docusaurus-style docs site
// from ./docs into ./build.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title:         "Docs",
			BaseURL:       "/",
			RouteBasePath: "docs",
			SidebarName:   "docsSidebar",
			Lang:          "en",
		},
		Docs: DocsConfig{
			Dir:         "docs",
			Patterns:    []string{"*.md", "*.mdx"},
			Recursive:   true,
			Version:     "current",
			TOCMinLevel: 2,
			TOCMaxLevel: 3,
		},
		Generator: GeneratorConfig{
			Enabled:     true,
			OutputDir:   "build",
			CleanBuild:  false,
			Incremental: true,
			Sitemap:     true,
			Robots:      true,
			SearchIndex: true,
		},
		Catalog: CatalogConfig{
			Enabled: false,
			Driver:  "sqlite3",
			DSN:     "file:docsite?mode=memory&cache=shared",
			Cache: CatalogCacheConfig{
				Enabled: true,
				TTL:     time.Minute,
			},
		},
		Commands: CommandsConfig{
			Timeout: 2 * time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.Title) == "" {
		return ErrSiteTitleRequired
	}
	if base := cfg.Site.BaseURL; !strings.HasPrefix(base, "/") || !strings.HasSuffix(base, "/") {
		return fmt.Errorf("%w: %q", ErrBaseURLInvalid, base)
	}
	if route := strings.Trim(cfg.Site.RouteBasePath, "/"); strings.Contains(route, "//") {
		return fmt.Errorf("%w: %q", ErrRouteBasePathInvalid, cfg.Site.RouteBasePath)
	}
	if strings.TrimSpace(cfg.Site.SidebarName) == "" {
		return ErrSidebarNameRequired
	}
	if strings.TrimSpace(cfg.Docs.Dir) == "" {
		return ErrDocsDirRequired
	}
	if lo, hi := cfg.Docs.TOCMinLevel, cfg.Docs.TOCMaxLevel; lo < 2 || hi > 6 || lo > hi {
		return fmt.Errorf("%w: min=%d max=%d", ErrTOCLevelsInvalid, lo, hi)
	}
	if cfg.Generator.Enabled && strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if cfg.Generator.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrGeneratorWorkersInvalid, cfg.Generator.Workers)
	}
	if cfg.Catalog.Enabled {
		switch normalize(cfg.Catalog.Driver) {
		case "sqlite3", "sqlite":
		case "postgres":
			if strings.TrimSpace(cfg.Catalog.DSN) == "" {
				return ErrCatalogDSNRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrCatalogDriverUnknown, cfg.Catalog.Driver)
		}
		if cfg.Catalog.Cache.Enabled && cfg.Catalog.Cache.TTL <= 0 {
			return ErrCatalogCacheTTLInvalid
		}
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
