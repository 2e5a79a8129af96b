package interfaces

import (
	"github.com/goliatone/go-docsite/pkg/storage"
)

// StorageProvider aliases storage.Provider for callers that only import the
// interfaces package.
type StorageProvider = storage.Provider

// Rows aliases storage.Rows.
type Rows = storage.Rows

// Result aliases storage.Result.
type Result = storage.Result

// Transaction aliases storage.Transaction.
type Transaction = storage.Transaction
