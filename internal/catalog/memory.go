package catalog

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/content"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Record
	byDocID map[string]uuid.UUID
}

// NewMemoryRepository constructs an in-memory record repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:    make(map[uuid.UUID]*Record),
		byDocID: make(map[string]uuid.UUID),
	}
}

func (m *memoryRepository) Create(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneRecord(record)
	if cloned.ID == uuid.Nil {
		cloned.ID = RecordID(cloned.DocID)
	}
	m.byID[cloned.ID] = cloned
	m.byDocID[cloned.DocID] = cloned.ID
	return cloneRecord(cloned), nil
}

func (m *memoryRepository) Update(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: recordNamespace, Key: record.DocID}
	}
	if existing.DocID != record.DocID {
		delete(m.byDocID, existing.DocID)
	}
	cloned := cloneRecord(record)
	m.byID[cloned.ID] = cloned
	m.byDocID[cloned.DocID] = cloned.ID
	return cloneRecord(cloned), nil
}

func (m *memoryRepository) GetByDocID(_ context.Context, docID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byDocID[docID]
	if !ok {
		return nil, &NotFoundError{Resource: recordNamespace, Key: docID}
	}
	return cloneRecord(m.byID[id]), nil
}

func (m *memoryRepository) List(_ context.Context) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Record, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneRecord(record))
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Position != records[j].Position {
			return records[i].Position < records[j].Position
		}
		return records[i].DocID < records[j].DocID
	})
	return records, nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: recordNamespace, Key: id.String()}
	}
	delete(m.byDocID, existing.DocID)
	delete(m.byID, id)
	return nil
}

func cloneRecord(record *Record) *Record {
	if record == nil {
		return nil
	}
	cloned := *record
	cloned.Metadata = cloneMetadata(record.Metadata)
	return &cloned
}

func cloneMetadata(meta content.PageMetadata) content.PageMetadata {
	cloned := meta
	cloned.Tags = slices.Clone(meta.Tags)
	cloned.FrontMatter = maps.Clone(meta.FrontMatter)
	if meta.SidebarPosition != nil {
		position := *meta.SidebarPosition
		cloned.SidebarPosition = &position
	}
	if meta.Previous != nil {
		previous := *meta.Previous
		cloned.Previous = &previous
	}
	if meta.Next != nil {
		next := *meta.Next
		cloned.Next = &next
	}
	return cloned
}
