package storage

import "context"

// Provider is the artifact backend contract used by the generator. Operations
// are addressed by name (for example "generator.write") with positional
// arguments so filesystem, object store and database backends can share it.
type Provider interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Transaction(ctx context.Context, fn func(tx Transaction) error) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

type Transaction interface {
	Provider
	Commit() error
	Rollback() error
}

// Operation names understood by artifact providers.
const (
	// OpEnsureDir creates a directory. Args: path.
	OpEnsureDir = "generator.ensure_dir"
	// OpWrite stores a file. Args: path, io.Reader, size, category,
	// content type, checksum, metadata map[string]string.
	OpWrite = "generator.write"
	// OpRead returns a single row holding the file bytes, or nil rows when
	// the file does not exist. Args: path.
	OpRead = "generator.read"
	// OpRemove deletes a file or directory tree. Args: path.
	OpRemove = "generator.remove"
)
