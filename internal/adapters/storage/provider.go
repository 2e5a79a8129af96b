package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var errNestedTransaction = errors.New("storage: nested transactions not supported")

// WriteArgs is the decoded form of a storage.OpWrite call.
type WriteArgs struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    string
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// DecodeWrite unpacks positional OpWrite arguments.
func DecodeWrite(args []any) (WriteArgs, error) {
	if len(args) < 2 {
		return WriteArgs{}, fmt.Errorf("storage: write requires path and reader")
	}
	path, _ := args[0].(string)
	reader, ok := args[1].(io.Reader)
	if !ok || reader == nil {
		return WriteArgs{}, fmt.Errorf("storage: write expects io.Reader content, got %T", args[1])
	}
	out := WriteArgs{Path: path, Content: reader}
	if len(args) > 2 {
		out.Size, _ = args[2].(int64)
	}
	if len(args) > 3 {
		out.Category, _ = args[3].(string)
	}
	if len(args) > 4 {
		out.ContentType, _ = args[4].(string)
	}
	if len(args) > 5 {
		out.Checksum, _ = args[5].(string)
	}
	if len(args) > 6 {
		out.Metadata, _ = args[6].(map[string]string)
	}
	return out, nil
}

// NoOpProvider accepts every operation and stores nothing.
type NoOpProvider struct{}

func NewNoOpProvider() interfaces.StorageProvider {
	return &NoOpProvider{}
}

func (*NoOpProvider) Query(context.Context, string, ...any) (interfaces.Rows, error) {
	return nil, nil
}

func (*NoOpProvider) Exec(context.Context, string, ...any) (interfaces.Result, error) {
	return emptyResult{}, nil
}

func (p *NoOpProvider) Transaction(ctx context.Context, fn func(tx interfaces.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&passthroughTx{provider: p})
}

// passthroughTx applies operations directly; Commit and Rollback are no-ops.
type passthroughTx struct {
	provider interfaces.StorageProvider
}

func (tx *passthroughTx) Query(ctx context.Context, query string, args ...any) (interfaces.Rows, error) {
	return tx.provider.Query(ctx, query, args...)
}

func (tx *passthroughTx) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	return tx.provider.Exec(ctx, query, args...)
}

func (tx *passthroughTx) Transaction(context.Context, func(interfaces.Transaction) error) error {
	return errNestedTransaction
}

func (tx *passthroughTx) Commit() error {
	return nil
}

func (tx *passthroughTx) Rollback() error {
	return nil
}

type emptyResult struct {
	affected int64
}

func (r emptyResult) RowsAffected() (int64, error) { return r.affected, nil }
func (emptyResult) LastInsertId() (int64, error)    { return 0, nil }

type byteRows struct {
	data []byte
	read bool
}

func (r *byteRows) Next() bool {
	if r.read {
		return false
	}
	r.read = true
	return true
}

func (r *byteRows) Scan(dest ...any) error {
	if len(dest) == 0 {
		return fmt.Errorf("storage: scan requires destination")
	}
	bytesDest, ok := dest[0].(*[]byte)
	if !ok {
		return fmt.Errorf("storage: unsupported scan destination %T", dest[0])
	}
	*bytesDest = append((*bytesDest)[:0], r.data...)
	return nil
}

func (r *byteRows) Close() error {
	return nil
}
