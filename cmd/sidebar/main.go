package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("sidebar: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sidebar", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to the docsite YAML config (defaults apply when empty)")
	docsDir := fs.String("docs-dir", "", "Override the docs directory")
	asJSON := fs.Bool("json", false, "Print the sidebar as JSON instead of a tree")
	drafts := fs.Bool("drafts", false, "Include draft docs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := runtimeconfig.DefaultConfig()
	if path := strings.TrimSpace(*configPath); path != "" {
		loaded, err := runtimeconfig.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *docsDir != "" {
		cfg.Docs.Dir = *docsDir
	}
	if *drafts {
		cfg.Docs.IncludeDrafts = true
	}
	cfg.Generator.Enabled = false
	cfg.Catalog.Enabled = false
	cfg.Logging.Level = "warn"

	container, err := di.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer container.Close()

	site, err := container.LoadSite(context.Background())
	if err != nil {
		return err
	}

	if *asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(site.Sidebar())
	}
	_, err = fmt.Fprint(out, site.Sidebar().Print())
	return err
}
