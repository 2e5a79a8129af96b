package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/render"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
)

var containerBuilder = buildContainer

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("markdown preview: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("markdown-preview", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to the docsite YAML config (defaults apply when empty)")
	docsDir := fs.String("docs-dir", "", "Override the docs directory")
	docID := fs.String("doc", "", "Doc id to preview, e.g. tutorial/nullability-functional-programming")
	renderHTML := fs.Bool("render-html", true, "Render the page body into HTML as part of the preview")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*docID) == "" {
		return errors.New("--doc is required")
	}

	container, err := containerBuilder(*configPath, *docsDir)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer container.Close()

	site, err := container.LoadSite(context.Background())
	if err != nil {
		return err
	}
	doc, err := site.Get(strings.TrimSpace(*docID))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Source: %s\nPermalink: %s\nChecksum: %x\n\n", doc.Metadata.Source, doc.Metadata.Permalink, doc.Checksum)

	metadata, err := json.MarshalIndent(doc.Metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	fmt.Fprintf(out, "Metadata:\n%s\n\n", metadata)

	fmt.Fprintln(out, "TOC:")
	for _, entry := range doc.TOC {
		fmt.Fprintf(out, "%s- %s (#%s)\n", strings.Repeat("  ", max(entry.Level-2, 0)), entry.Value, entry.ID)
	}

	if *renderHTML {
		body, err := render.HTML(doc, container.Components())
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		fmt.Fprintf(out, "\nRendered HTML:\n%s\n", body)
	}
	return nil
}

func buildContainer(configPath, docsDir string) (*di.Container, error) {
	cfg := runtimeconfig.DefaultConfig()
	if path := strings.TrimSpace(configPath); path != "" {
		loaded, err := runtimeconfig.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if docsDir != "" {
		cfg.Docs.Dir = docsDir
	}
	cfg.Generator.Enabled = false
	cfg.Catalog.Enabled = false
	cfg.Logging.Level = "warn"
	return di.NewContainer(cfg)
}
