package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// DocRecordUUID identifies the catalog record of a doc.
func DocRecordUUID(docID string) uuid.UUID {
	return UUID("go-docsite:doc_record:" + strings.TrimSpace(docID))
}

// BuildUUID identifies a generator run over a set of source checksums.
func BuildUUID(fingerprint string) uuid.UUID {
	return UUID("go-docsite:build:" + strings.TrimSpace(fingerprint))
}
