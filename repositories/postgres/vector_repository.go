package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/repositories"
	"github.com/nusanet/nusarag/services"
	"go.uber.org/zap"
)

// VectorRepository implements scored nearest-neighbor search and document
// insertion over pgvector embeddings tables. One instance serves all tenant
// tables; it holds no per-tenant mutable state, the table name is an argument
// on every call and must come from the corpus registry's closed set.
type VectorRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewVectorRepository creates a new vector repository
func NewVectorRepository(db *DB, logger *zap.Logger) repositories.VectorRepository {
	return &VectorRepository{
		db:     db,
		logger: logger,
	}
}

// ScoreOrder reports the scoring convention: pgvector's <=> operator is a
// cosine distance, so results are ordered ascending (smaller = more similar).
func (r *VectorRepository) ScoreOrder() models.ScoreOrder {
	return models.ScoreAscending
}

// SearchNearest returns up to k matches ordered by cosine distance.
// An empty result set is a valid outcome, not an error.
func (r *VectorRepository) SearchNearest(ctx context.Context, table string, embedding []float32, k int) ([]models.ScoredMatch, error) {
	if k <= 0 {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			fmt.Sprintf("top-k must be positive, got %d", k), services.ErrInvalidTopK)
	}
	if len(embedding) == 0 {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			"query embedding is empty", nil)
	}

	// The table name is interpolated because Postgres placeholders cannot
	// name relations; it is always one of the registry's fixed constants.
	query := fmt.Sprintf(`
		SELECT id, content, metadata, vector <=> $1 AS score
		FROM %s
		ORDER BY vector <=> $1
		LIMIT $2
	`, table)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, encodeVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var matches []models.ScoredMatch
	for rows.Next() {
		var (
			match    models.ScoredMatch
			metadata []byte
		)
		if err := rows.Scan(&match.Document.ID, &match.Document.Content, &metadata, &match.Score); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &match.Document.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal document metadata: %w", err)
			}
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}

	r.logger.Debug("nearest-neighbor search completed",
		zap.String("table", table),
		zap.Int("k", k),
		zap.Int("matches", len(matches)))
	return matches, nil
}

// InsertDocuments adds embedded documents to the given table.
func (r *VectorRepository) InsertDocuments(ctx context.Context, table string, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, content, vector, metadata)
		VALUES ($1, $2, $3, $4)
	`, table)

	executor := GetExecutor(ctx, r.db)
	for _, doc := range docs {
		var metadata any
		if doc.Metadata != nil {
			data, err := json.Marshal(doc.Metadata)
			if err != nil {
				return fmt.Errorf("failed to marshal document metadata: %w", err)
			}
			metadata = data
		}

		if _, err := executor.ExecContext(ctx, query,
			doc.ID, doc.Content, encodeVector(doc.Embedding), metadata); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
	}

	r.logger.Debug("documents inserted",
		zap.String("table", table),
		zap.Int("count", len(docs)))
	return nil
}

// encodeVector renders an embedding as a pgvector literal, e.g. [0.1,0.2].
func encodeVector(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
