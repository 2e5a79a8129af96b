package catalog

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// ErrRepositoryRequired is returned when the service has no repository.
var ErrRepositoryRequired = errors.New("catalog: repository is required")

// SyncResult summarises a Sync run.
type SyncResult struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
}

// Service keeps the catalog in step with a built site.
type Service struct {
	repo   Repository
	logger interfaces.Logger
	now    func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithLogger wires a logger; nil keeps the no-op default.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.Resolve(logger)
	}
}

// WithClock overrides the time source stamped on written records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a catalog service over repo.
func NewService(repo Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	svc := &Service{
		repo:   repo,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

type cacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// Sync upserts a record for every doc, in the given order, and deletes
// records for docs that are gone. Unchanged records are not rewritten.
func (s *Service) Sync(ctx context.Context, docs []*content.Doc) (SyncResult, error) {
	var result SyncResult

	existing, err := s.repo.List(ctx)
	if err != nil {
		return result, err
	}
	current := make(map[string]*Record, len(existing))
	for _, record := range existing {
		current[record.DocID] = record
	}

	seen := make(map[string]struct{}, len(docs))
	for position, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if doc == nil {
			continue
		}
		next := NewRecord(doc, position)
		seen[next.DocID] = struct{}{}

		stored, ok := current[next.DocID]
		switch {
		case !ok:
			next.UpdatedAt = s.now().UTC()
			if _, err := s.repo.Create(ctx, next); err != nil {
				return result, fmt.Errorf("catalog: create %s: %w", next.DocID, err)
			}
			result.Created++
		case sameRecord(stored, next):
			result.Unchanged++
		default:
			next.ID = stored.ID
			next.UpdatedAt = s.now().UTC()
			if _, err := s.repo.Update(ctx, next); err != nil {
				return result, fmt.Errorf("catalog: update %s: %w", next.DocID, err)
			}
			result.Updated++
		}
	}

	for _, record := range existing {
		if _, ok := seen[record.DocID]; ok {
			continue
		}
		if err := s.repo.Delete(ctx, record.ID); err != nil {
			return result, fmt.Errorf("catalog: delete %s: %w", record.DocID, err)
		}
		result.Deleted++
	}

	changed := result.Created+result.Updated+result.Deleted > 0
	if invalidator, ok := s.repo.(cacheInvalidator); ok && changed {
		if err := invalidator.InvalidateCache(ctx); err != nil {
			return result, fmt.Errorf("catalog: invalidate cache: %w", err)
		}
	}

	s.logger.Info("catalog.synced",
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"deleted", result.Deleted,
	)
	return result, nil
}

// Get returns the record stored for docID.
func (s *Service) Get(ctx context.Context, docID string) (*Record, error) {
	return s.repo.GetByDocID(ctx, docID)
}

// List returns every record in navigation order.
func (s *Service) List(ctx context.Context) ([]*Record, error) {
	return s.repo.List(ctx)
}

func sameRecord(stored, next *Record) bool {
	if stored.Title != next.Title ||
		stored.Permalink != next.Permalink ||
		stored.Sidebar != next.Sidebar ||
		stored.Position != next.Position ||
		stored.Unlisted != next.Unlisted ||
		stored.Checksum != next.Checksum {
		return false
	}
	a, errA := json.Marshal(stored.Metadata)
	b, errB := json.Marshal(next.Metadata)
	return errA == nil && errB == nil && string(a) == string(b)
}

func checksumHex(sum []byte) string {
	if len(sum) == 0 {
		return ""
	}
	return hex.EncodeToString(sum)
}
