package catalog

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const recordNamespace = "doc_record"

// BunRepository implements Repository with optional caching. Point lookups
// go through the cache; List always reads the table so syncs diff against
// stored state.
type BunRepository struct {
	repo         repository.Repository[*Record]
	base         repository.Repository[*Record]
	cacheService cache.CacheService
	cachePrefix  string
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository creates a record repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a record repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewRecordRepository(db)
	wrapped := base
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		wrapped = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = recordNamespace + cache.KeySeparator
	}
	return &BunRepository{
		repo:         wrapped,
		base:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunRepository) Create(ctx context.Context, record *Record) (*Record, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("%s repository error: %w", recordNamespace, err)
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Record) (*Record, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, recordNamespace, record.DocID)
	}
	return updated, nil
}

func (r *BunRepository) GetByDocID(ctx context.Context, docID string) (*Record, error) {
	record, err := r.repo.GetByIdentifier(ctx, docID)
	if err != nil {
		return nil, mapRepositoryError(err, recordNamespace, docID)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Record, error) {
	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.position ASC").OrderExpr("?TableAlias.doc_id ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s repository error: %w", recordNamespace, err)
	}
	return records, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Record{ID: id}); err != nil {
		return mapRepositoryError(err, recordNamespace, id.String())
	}
	return nil
}

// InvalidateCache drops cached record lookups.
func (r *BunRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
