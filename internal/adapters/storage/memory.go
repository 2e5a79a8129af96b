package storage

import (
	"context"
	"io"
	"maps"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-docsite/pkg/interfaces"
	pkgstorage "github.com/goliatone/go-docsite/pkg/storage"
)

// Artifact is a file held by MemoryProvider.
type Artifact struct {
	Path        string
	Data        []byte
	Category    string
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// MemoryProvider keeps artifacts in memory. It is safe for concurrent use.
type MemoryProvider struct {
	mu     sync.RWMutex
	files  map[string]Artifact
	dirs   map[string]struct{}
	writes int
}

var _ interfaces.StorageProvider = (*MemoryProvider)(nil)

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		files: map[string]Artifact{},
		dirs:  map[string]struct{}{},
	}
}

func (m *MemoryProvider) Query(ctx context.Context, query string, args ...any) (interfaces.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query != pkgstorage.OpRead || len(args) == 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	artifact, ok := m.files[cleanPath(args[0])]
	if !ok {
		return nil, nil
	}
	return &byteRows{data: artifact.Data}, nil
}

func (m *MemoryProvider) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	if err := ctx.Err(); err != nil {
		return emptyResult{}, err
	}
	switch query {
	case pkgstorage.OpEnsureDir:
		if len(args) > 0 {
			m.mu.Lock()
			m.dirs[cleanPath(args[0])] = struct{}{}
			m.mu.Unlock()
		}
		return emptyResult{}, nil
	case pkgstorage.OpWrite:
		req, err := DecodeWrite(args)
		if err != nil {
			return emptyResult{}, err
		}
		data, err := io.ReadAll(req.Content)
		if err != nil {
			return emptyResult{}, err
		}
		artifact := Artifact{
			Path:        cleanPath(req.Path),
			Data:        data,
			Category:    req.Category,
			ContentType: req.ContentType,
			Checksum:    req.Checksum,
			Metadata:    maps.Clone(req.Metadata),
		}
		m.mu.Lock()
		m.files[artifact.Path] = artifact
		m.writes++
		m.mu.Unlock()
		return emptyResult{affected: 1}, nil
	case pkgstorage.OpRemove:
		if len(args) == 0 {
			return emptyResult{}, nil
		}
		target := cleanPath(args[0])
		m.mu.Lock()
		defer m.mu.Unlock()
		var removed int64
		for key := range m.files {
			if target == "" || key == target || strings.HasPrefix(key, target+"/") {
				delete(m.files, key)
				removed++
			}
		}
		for key := range m.dirs {
			if target == "" || key == target || strings.HasPrefix(key, target+"/") {
				delete(m.dirs, key)
			}
		}
		return emptyResult{affected: removed}, nil
	default:
		return emptyResult{}, nil
	}
}

func (m *MemoryProvider) Transaction(ctx context.Context, fn func(tx interfaces.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&passthroughTx{provider: m})
}

// Get returns the artifact stored at p.
func (m *MemoryProvider) Get(p string) (Artifact, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	artifact, ok := m.files[cleanPath(p)]
	return artifact, ok
}

// Paths lists stored artifact paths in sorted order.
func (m *MemoryProvider) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for key := range m.files {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Writes counts successful write operations since construction.
func (m *MemoryProvider) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func cleanPath(arg any) string {
	value, _ := arg.(string)
	value = strings.Trim(strings.TrimSpace(value), "/")
	if value == "" {
		return ""
	}
	value = path.Clean(value)
	if value == "." {
		return ""
	}
	return value
}
