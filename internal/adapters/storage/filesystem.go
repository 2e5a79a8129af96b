package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-docsite/pkg/interfaces"
	pkgstorage "github.com/goliatone/go-docsite/pkg/storage"
)

// FilesystemProvider writes generator artifacts below root. Paths that start
// with base (the generator output dir) are resolved relative to root.
type FilesystemProvider struct {
	root string
	base string
}

var _ interfaces.StorageProvider = (*FilesystemProvider)(nil)

// NewFilesystemProvider returns a provider rooted at root.
func NewFilesystemProvider(root, base string) *FilesystemProvider {
	base = strings.Trim(filepath.ToSlash(strings.TrimSpace(base)), "/")
	return &FilesystemProvider{root: root, base: base}
}

// Root returns the directory artifacts are written to.
func (s *FilesystemProvider) Root() string {
	return s.root
}

func (s *FilesystemProvider) Query(ctx context.Context, query string, args ...any) (interfaces.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query != pkgstorage.OpRead || len(args) == 0 {
		return nil, nil
	}
	data, err := os.ReadFile(s.abs(s.normalizePath(args[0])))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &byteRows{data: data}, nil
}

func (s *FilesystemProvider) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	if err := ctx.Err(); err != nil {
		return emptyResult{}, err
	}
	switch query {
	case pkgstorage.OpEnsureDir:
		if len(args) == 0 {
			return emptyResult{}, fmt.Errorf("storage: ensure_dir requires path")
		}
		return emptyResult{}, os.MkdirAll(s.abs(s.normalizePath(args[0])), 0o755)
	case pkgstorage.OpWrite:
		req, err := DecodeWrite(args)
		if err != nil {
			return emptyResult{}, err
		}
		full := s.abs(s.normalizePath(req.Path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return emptyResult{}, err
		}
		file, err := os.Create(full)
		if err != nil {
			return emptyResult{}, err
		}
		defer file.Close()
		if _, err := io.Copy(file, req.Content); err != nil {
			return emptyResult{}, err
		}
		return emptyResult{affected: 1}, nil
	case pkgstorage.OpRemove:
		if len(args) == 0 {
			return emptyResult{}, fmt.Errorf("storage: remove requires path")
		}
		err := os.RemoveAll(s.abs(s.normalizePath(args[0])))
		if errors.Is(err, os.ErrNotExist) {
			return emptyResult{}, nil
		}
		return emptyResult{}, err
	default:
		return emptyResult{}, nil
	}
}

func (s *FilesystemProvider) Transaction(ctx context.Context, fn func(tx interfaces.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&passthroughTx{provider: s})
}

func (s *FilesystemProvider) abs(rel string) string {
	if rel == "" || rel == "." {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func (s *FilesystemProvider) normalizePath(arg any) string {
	path, _ := arg.(string)
	path = strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
	if s.base != "" && (path == s.base || strings.HasPrefix(path, s.base+"/")) {
		path = strings.TrimPrefix(path, s.base)
		path = strings.TrimPrefix(path, "/")
	}
	return path
}
