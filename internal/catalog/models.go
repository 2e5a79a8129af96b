package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/identity"
)

// Record is the stored form of a doc's metadata.
type Record struct {
	bun.BaseModel `bun:"table:doc_records,alias:dr"`

	ID              uuid.UUID            `bun:",pk,type:uuid"                 json:"id"`
	DocID           string               `bun:"doc_id,notnull,unique"         json:"doc_id"`
	Title           string               `bun:"title,notnull"                 json:"title"`
	Permalink       string               `bun:"permalink,notnull"             json:"permalink"`
	Sidebar         string               `bun:"sidebar"                       json:"sidebar,omitempty"`
	Position        int                  `bun:"position,notnull"              json:"position"`
	Unlisted        bool                 `bun:"unlisted,notnull"              json:"unlisted"`
	Checksum        string               `bun:"checksum"                      json:"checksum,omitempty"`
	Metadata        content.PageMetadata `bun:"metadata,type:jsonb,notnull"   json:"metadata"`
	SourceUpdatedAt time.Time            `bun:"source_updated_at"             json:"source_updated_at"`
	UpdatedAt       time.Time            `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// RecordID derives the stable record id for a doc id.
func RecordID(docID string) uuid.UUID {
	return identity.DocRecordUUID(docID)
}

// NewRecord builds the record for doc at navigation position.
func NewRecord(doc *content.Doc, position int) *Record {
	return &Record{
		ID:              RecordID(doc.Metadata.ID),
		DocID:           doc.Metadata.ID,
		Title:           doc.Metadata.Title,
		Permalink:       doc.Metadata.Permalink,
		Sidebar:         doc.Metadata.Sidebar,
		Position:        position,
		Unlisted:        doc.Metadata.Unlisted,
		Checksum:        checksumHex(doc.Checksum),
		Metadata:        doc.Metadata,
		SourceUpdatedAt: doc.LastModified,
	}
}
