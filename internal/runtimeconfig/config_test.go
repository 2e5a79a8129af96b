package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-docsite/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"missing title", func(c *runtimeconfig.Config) { c.Site.Title = " " }, runtimeconfig.ErrSiteTitleRequired},
		{"base url without trailing slash", func(c *runtimeconfig.Config) { c.Site.BaseURL = "/kotlin-notes" }, runtimeconfig.ErrBaseURLInvalid},
		{"route base path with empty segment", func(c *runtimeconfig.Config) { c.Site.RouteBasePath = "docs//v1" }, runtimeconfig.ErrRouteBasePathInvalid},
		{"missing sidebar", func(c *runtimeconfig.Config) { c.Site.SidebarName = "" }, runtimeconfig.ErrSidebarNameRequired},
		{"missing docs dir", func(c *runtimeconfig.Config) { c.Docs.Dir = "" }, runtimeconfig.ErrDocsDirRequired},
		{"toc min above max", func(c *runtimeconfig.Config) { c.Docs.TOCMinLevel = 4; c.Docs.TOCMaxLevel = 3 }, runtimeconfig.ErrTOCLevelsInvalid},
		{"toc h1", func(c *runtimeconfig.Config) { c.Docs.TOCMinLevel = 1 }, runtimeconfig.ErrTOCLevelsInvalid},
		{"generator without output", func(c *runtimeconfig.Config) { c.Generator.OutputDir = " " }, runtimeconfig.ErrGeneratorOutputDirRequired},
		{"negative workers", func(c *runtimeconfig.Config) { c.Generator.Workers = -1 }, runtimeconfig.ErrGeneratorWorkersInvalid},
		{"unknown catalog driver", func(c *runtimeconfig.Config) { c.Catalog.Enabled = true; c.Catalog.Driver = "mysql" }, runtimeconfig.ErrCatalogDriverUnknown},
		{"postgres without dsn", func(c *runtimeconfig.Config) {
			c.Catalog.Enabled = true
			c.Catalog.Driver = "postgres"
			c.Catalog.DSN = ""
		}, runtimeconfig.ErrCatalogDSNRequired},
		{"cache without ttl", func(c *runtimeconfig.Config) { c.Catalog.Enabled = true; c.Catalog.Cache.TTL = 0 }, runtimeconfig.ErrCatalogCacheTTLInvalid},
		{"missing logging provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "" }, runtimeconfig.ErrLoggingProviderRequired},
		{"unknown logging provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"invalid logging level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"invalid gologger format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsDisabledGeneratorWithoutOutput(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.Enabled = false
	cfg.Generator.OutputDir = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	source := []byte(`
site:
  title: Kotlin Notes
  url: https://devkobetran.github.io
  base_url: /kotlin-notes/
  edit_url: https://github.com/devkobetran/kotlin-notes
  sidebar_name: tutorialSidebar
docs:
  toc_max_heading_level: 4
generator:
  workers: 2
  markdown_export: true
  build_timeout: 45s
catalog:
  enabled: true
  cache:
    ttl: 5m
logging:
  provider: gologger
  format: pretty
`)
	cfg, err := runtimeconfig.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Site.Title != "Kotlin Notes" || cfg.Site.BaseURL != "/kotlin-notes/" || cfg.Site.SidebarName != "tutorialSidebar" {
		t.Fatalf("site not decoded: %+v", cfg.Site)
	}
	if cfg.Site.RouteBasePath != "docs" || cfg.Docs.Dir != "docs" || cfg.Docs.TOCMinLevel != 2 {
		t.Fatalf("defaults should survive partial config: %+v %+v", cfg.Site, cfg.Docs)
	}
	if cfg.Docs.TOCMaxLevel != 4 {
		t.Fatalf("expected toc max 4, got %d", cfg.Docs.TOCMaxLevel)
	}
	if cfg.Generator.Workers != 2 || !cfg.Generator.MarkdownExport || !cfg.Generator.Sitemap {
		t.Fatalf("unexpected generator config %+v", cfg.Generator)
	}
	if cfg.Generator.BuildTimeout != 45*time.Second || cfg.Catalog.Cache.TTL != 5*time.Minute {
		t.Fatalf("durations not decoded: %v %v", cfg.Generator.BuildTimeout, cfg.Catalog.Cache.TTL)
	}
	if cfg.Catalog.Driver != "sqlite3" || !cfg.Catalog.Enabled {
		t.Fatalf("unexpected catalog config %+v", cfg.Catalog)
	}
}

func TestParseRejectsUnknownKeysAndInvalidValues(t *testing.T) {
	if _, err := runtimeconfig.Parse([]byte("site:\n  colour: blue\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if _, err := runtimeconfig.Parse([]byte("site:\n  base_url: docs\n")); !errors.Is(err, runtimeconfig.ErrBaseURLInvalid) {
		t.Fatalf("expected ErrBaseURLInvalid, got %v", err)
	}
	if _, err := runtimeconfig.Parse(nil); err != nil {
		t.Fatalf("empty input should yield defaults, got %v", err)
	}
}

func TestLoadResolvesPathsRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docsite.yml")
	if err := os.WriteFile(path, []byte("site:\n  title: Notes\ndocs:\n  dir: content\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Docs.Dir != filepath.Join(dir, "content") {
		t.Fatalf("docs dir not resolved: %s", cfg.Docs.Dir)
	}
	if cfg.Generator.OutputDir != filepath.Join(dir, "build") {
		t.Fatalf("output dir not resolved: %s", cfg.Generator.OutputDir)
	}

	if _, err := runtimeconfig.Load(filepath.Join(dir, "missing.yml")); !errors.Is(err, runtimeconfig.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}
