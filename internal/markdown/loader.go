package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// DefaultPatterns matches the doc sources picked up when no pattern is configured.
var DefaultPatterns = []string{"*.md", "*.mdx"}

// LoaderConfig configures how Markdown files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the root directory where doc sources live.
	BasePath string
	// Patterns limits discovered files to those matching any glob (defaults to DefaultPatterns).
	Patterns []string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into Markdown documents with metadata.
// Files and directories whose name starts with "_" or "." are ignored, which
// keeps partials and category metadata out of the page set.
type Loader struct {
	fs        fs.FS
	basePath  string
	patterns  []string
	recursive bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	patterns := make([]string, 0, len(cfg.Patterns))
	for _, pattern := range cfg.Patterns {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			patterns = append(patterns, filepath.ToSlash(trimmed))
		}
	}
	if len(patterns) == 0 {
		patterns = append(patterns, DefaultPatterns...)
	}

	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		patterns:  patterns,
		recursive: cfg.Recursive,
	}
}

// FS exposes the filesystem the loader reads from.
func (l *Loader) FS() fs.FS {
	return l.fs
}

// LoadFile reads and parses a single Markdown document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return doc, nil
}

// LoadDirectory discovers doc sources under dir and returns parsed documents
// sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}

	var docs []*interfaces.Document

	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if current != root && (ignoredName(d.Name()) || !l.shouldRecurse(opts.Recursive)) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if ignoredName(d.Name()) || !l.matchesPattern(current, opts.Pattern) {
			return nil
		}

		doc, err := l.LoadFile(ctx, current)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

func (l *Loader) shouldRecurse(override *bool) bool {
	if override != nil {
		return *override
	}
	return l.recursive
}

func (l *Loader) matchesPattern(name string, override string) bool {
	patterns := l.patterns
	if strings.TrimSpace(override) != "" {
		patterns = []string{filepath.ToSlash(strings.TrimSpace(override))}
	}
	for _, pattern := range patterns {
		// "**/" prefixes are accepted for familiarity; matching is per file name
		// unless the pattern names a directory.
		pattern = strings.ReplaceAll(pattern, "**/", "")
		target := path.Base(name)
		if strings.Contains(pattern, "/") {
			target = name
		}
		if match, err := path.Match(pattern, target); err == nil && match {
			return true
		}
	}
	return false
}

func (l *Loader) makeRelative(name string) (string, error) {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" || l.basePath == "." {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	clean = filepath.ToSlash(clean)
	if clean == "" || strings.HasPrefix(clean, "../") || clean == ".." {
		return "", fmt.Errorf("markdown loader: %s escapes the docs root", name)
	}
	return clean, nil
}

func ignoredName(name string) bool {
	return strings.HasPrefix(name, "_") || (strings.HasPrefix(name, ".") && name != ".")
}
