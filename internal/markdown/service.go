package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// ErrNilDocument is returned when Parse receives a nil document.
var ErrNilDocument = errors.New("markdown service: document is nil")

// Config controls how the Markdown service discovers and parses files.
type Config struct {
	BasePath  string
	Patterns  []string
	Recursive bool
	Parser    interfaces.ParseOptions
	// FS overrides the filesystem rooted at BasePath, mostly for tests.
	FS fs.FS
}

// Service implements interfaces.MarkdownService for filesystem-backed documents.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
	logger interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// ServiceOption customises the service.
type ServiceOption func(*Service)

// WithLogger wires a logger; nil keeps the no-op default.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logging.Resolve(logger)
	}
}

// WithParser overrides the default goldmark parser.
func WithParser(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// NewService constructs a Markdown service backed by a Loader rooted at
// cfg.BasePath (or cfg.FS when supplied).
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	filesystem := cfg.FS
	if filesystem == nil {
		var err error
		filesystem, err = prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
	}

	svc := &Service{
		cfg:    cfg,
		parser: NewGoldmarkParser(cfg.Parser),
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Patterns:  cfg.Patterns,
			Recursive: cfg.Recursive,
		}),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// FS exposes the docs root filesystem, used to read category metadata.
func (s *Service) FS() fs.FS {
	return s.loader.FS()
}

// Load reads a single Markdown document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string, _ interfaces.LoadOptions) (*interfaces.Document, error) {
	doc, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("markdown.loaded", "path", doc.FilePath, "bytes", len(doc.Body))
	return doc, nil
}

// LoadDirectory reads every Markdown document within the supplied directory.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	docs, err := s.loader.LoadDirectory(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	s.logger.Info("markdown.directory_loaded", "dir", dir, "documents", len(docs))
	return docs, nil
}

// Parse turns the document body into a goldmark AST. Options are merged over
// the service defaults.
func (s *Service) Parse(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) (ast.Node, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	node, err := s.parser.ParseWithOptions(doc.Body, mergeParseOptions(s.cfg.Parser, opts))
	if err != nil {
		return nil, fmt.Errorf("markdown parse %s: %w", doc.FilePath, err)
	}
	return node, nil
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("markdown service: base path %s is not a directory", filepath.Clean(basePath))
	}
	return os.DirFS(basePath), nil
}
