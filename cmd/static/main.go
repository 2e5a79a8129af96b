package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	command "github.com/goliatone/go-command"

	staticcmd "github.com/goliatone/go-docsite/internal/commands/static"
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
)

type handlerSet struct {
	build command.Commander[staticcmd.BuildSiteCommand]
	diff  command.Commander[staticcmd.DiffSiteCommand]
	clean command.Commander[staticcmd.CleanSiteCommand]
}

type moduleOptions struct {
	ConfigPath string
	DocsDir    string
	OutputDir  string
	Workers    int
}

type moduleResources struct {
	handlers handlerSet
	close    func() error
}

var moduleBuilder = buildModule

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("static: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("missing subcommand (build, diff, clean)")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "build", "diff", "clean":
	default:
		return fmt.Errorf("unknown subcommand %q", sub)
	}

	fs := flag.NewFlagSet("static "+sub, flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to the docsite YAML config (defaults apply when empty)")
	docsDir := fs.String("docs-dir", "", "Override the docs directory")
	outputDir := fs.String("output-dir", "", "Override the output directory")
	workers := fs.Int("workers", 0, "Override the number of render workers")
	force := fs.Bool("force", false, "Render every page even when the manifest says it is unchanged")
	dryRun := fs.Bool("dry-run", false, "Render without writing artifacts")
	var docs multiFlag
	fs.Var(&docs, "doc", "Doc id to build (repeatable)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	resources, err := moduleBuilder(moduleOptions{
		ConfigPath: *configPath,
		DocsDir:    *docsDir,
		OutputDir:  *outputDir,
		Workers:    *workers,
	})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if resources.close != nil {
		defer resources.close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch sub {
	case "build":
		if resources.handlers.build == nil {
			return errors.New("build handler not configured")
		}
		return resources.handlers.build.Execute(ctx, staticcmd.BuildSiteCommand{
			Docs:           []string(docs),
			Force:          *force,
			DryRun:         *dryRun,
			ResultCallback: logResult,
		})
	case "diff":
		if resources.handlers.diff == nil {
			return errors.New("diff handler not configured")
		}
		return resources.handlers.diff.Execute(ctx, staticcmd.DiffSiteCommand{
			Docs:           []string(docs),
			Force:          *force,
			ResultCallback: logResult,
		})
	default:
		if resources.handlers.clean == nil {
			return errors.New("clean handler not configured")
		}
		if err := resources.handlers.clean.Execute(ctx, staticcmd.CleanSiteCommand{}); err != nil {
			return err
		}
		log.Printf("module=static operation=clean status=ok")
		return nil
	}
}

func buildModule(opts moduleOptions) (*moduleResources, error) {
	cfg := runtimeconfig.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := runtimeconfig.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.DocsDir != "" {
		cfg.Docs.Dir = opts.DocsDir
	}
	if opts.OutputDir != "" {
		cfg.Generator.OutputDir = opts.OutputDir
	}
	if opts.Workers > 0 {
		cfg.Generator.Workers = opts.Workers
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	return &moduleResources{
		handlers: handlerSet{
			build: container.BuildSiteHandler(),
			diff:  container.DiffSiteHandler(),
			clean: container.CleanSiteHandler(),
		},
		close: container.Close,
	}, nil
}

func logResult(env staticcmd.ResultEnvelope) {
	operation, _ := env.Metadata["operation"].(string)
	result := env.Result
	if result == nil {
		log.Printf("module=static operation=%s summary=none", operation)
		return
	}
	log.Printf("module=static operation=%s summary built=%d skipped=%d failed=%d drafts=%d removed=%d dry_run=%t duration=%s",
		operation,
		result.PagesBuilt,
		result.PagesSkipped,
		result.PagesFailed,
		result.DraftsSkipped,
		len(result.Removed),
		result.DryRun,
		result.Duration,
	)
	for _, diag := range result.Diagnostics {
		logDiagnostic(operation, diag)
	}
}

func logDiagnostic(operation string, diag generator.RenderDiagnostic) {
	switch {
	case diag.Err != nil:
		log.Printf("module=static operation=%s doc=%s status=failed error=%q", operation, diag.DocID, diag.Err.Error())
	case diag.Skipped:
		log.Printf("module=static operation=%s doc=%s status=skipped", operation, diag.DocID)
	default:
		log.Printf("module=static operation=%s doc=%s status=rendered duration=%s", operation, diag.DocID, diag.Duration)
	}
}

type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			*m = append(*m, trimmed)
		}
	}
	return nil
}
