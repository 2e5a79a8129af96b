package catalog

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository stores catalog records.
type Repository interface {
	Create(ctx context.Context, record *Record) (*Record, error)
	Update(ctx context.Context, record *Record) (*Record, error)
	GetByDocID(ctx context.Context, docID string) (*Record, error)
	// List returns records ordered by navigation position.
	List(ctx context.Context) ([]*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewRecordRepository creates a repository for Record entities.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(r *Record) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "doc_id"
		},
		GetIdentifierValue: func(r *Record) string {
			return r.DocID
		},
	})
}
