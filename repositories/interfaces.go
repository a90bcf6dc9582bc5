// Package repositories defines persistence interfaces implemented by the
// postgres subpackage. Services depend on these interfaces so storage can be
// mocked in tests.
package repositories

import (
	"context"

	"github.com/nusanet/nusarag/models"
)

// HistoryRepository persists and reads question/answer history records.
type HistoryRepository interface {
	// Insert writes the record and populates the server-assigned ID and
	// CreatedAt from the same statement. Callers wrap it in a transaction
	// when the write and read-back must be observed as one unit.
	Insert(ctx context.Context, history *models.History) error

	// GetByID retrieves a single history record.
	GetByID(ctx context.Context, id int64) (*models.History, error)

	// ListByTenant retrieves history records for one tenant, newest first.
	ListByTenant(ctx context.Context, tenant models.Tenant, limit, offset int) ([]*models.History, error)
}

// VectorRepository runs scored nearest-neighbor queries and document inserts
// against one embeddings table at a time. Table names always come from the
// corpus registry's closed set, never from request input.
type VectorRepository interface {
	// SearchNearest returns up to k matches ordered best-first under the
	// repository's score order. An empty corpus yields an empty slice, not
	// an error.
	SearchNearest(ctx context.Context, table string, embedding []float32, k int) ([]models.ScoredMatch, error)

	// InsertDocuments adds embedded documents to the given table.
	InsertDocuments(ctx context.Context, table string, docs []models.Document) error

	// ScoreOrder reports the scoring convention of SearchNearest results.
	ScoreOrder() models.ScoreOrder
}

// Transaction represents an active database transaction
type Transaction interface {
	Commit() error
	Rollback() error
}

// TransactionManager manages database transactions
type TransactionManager interface {
	// InTransaction executes fn within a transaction, committing on success
	// and rolling back on error. The transaction travels in the derived
	// context so repositories called with it share the same scope.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
