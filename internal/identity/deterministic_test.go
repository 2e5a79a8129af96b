package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := DocRecordUUID("tutorial/nullability-functional-programming")
	second := DocRecordUUID(" tutorial/nullability-functional-programming ")
	if first == uuid.Nil || first != second {
		t.Fatalf("expected stable non-nil id, got %s and %s", first, second)
	}
	if first == DocRecordUUID("intro") {
		t.Fatalf("different docs must not share an id")
	}
	if DocRecordUUID("intro") == BuildUUID("intro") {
		t.Fatalf("namespaces must not collide")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if UUID("  ") != uuid.Nil {
		t.Fatalf("expected nil uuid for empty key")
	}
}
