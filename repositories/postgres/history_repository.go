package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/repositories"
	"github.com/nusanet/nusarag/services"
	"go.uber.org/zap"
)

// HistoryRepository implements the repositories.HistoryRepository interface
type HistoryRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB, logger *zap.Logger) repositories.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Insert writes a new history record. The RETURNING clause reads the
// server-assigned id and created_at in the same statement, so inside a
// transaction the write and read-back commit or roll back as one unit.
func (r *HistoryRepository) Insert(ctx context.Context, history *models.History) error {
	query := `
		INSERT INTO histories (
			question, answer, similarity_score, similarity_results,
			users, space, bot_type
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING id, created_at
	`

	results, err := marshalResults(history.SimilarityResults)
	if err != nil {
		return fmt.Errorf("failed to marshal similarity results: %w", err)
	}

	var space any
	if len(history.Space) > 0 {
		space = []byte(history.Space)
	}

	executor := GetExecutor(ctx, r.db)
	err = executor.QueryRowContext(ctx, query,
		history.Question,
		history.Answer,
		history.SimilarityScore,
		results,
		[]byte(history.Users),
		space,
		string(history.BotType),
	).Scan(&history.ID, &history.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert history: %w", err)
	}

	r.logger.Debug("history inserted",
		zap.Int64("id", history.ID),
		zap.String("bot_type", string(history.BotType)))
	return nil
}

// GetByID retrieves a history record by ID
func (r *HistoryRepository) GetByID(ctx context.Context, id int64) (*models.History, error) {
	query := `
		SELECT id, question, answer, similarity_score, similarity_results,
		       users, space, bot_type, created_at
		FROM histories
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	history, err := scanHistory(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, services.NewDomainError(services.ErrorTypePersistence,
				fmt.Sprintf("history %d not found", id), services.ErrHistoryNotFound)
		}
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return history, nil
}

// ListByTenant retrieves history records for one tenant, newest first
func (r *HistoryRepository) ListByTenant(ctx context.Context, tenant models.Tenant, limit, offset int) ([]*models.History, error) {
	query := `
		SELECT id, question, answer, similarity_score, similarity_results,
		       users, space, bot_type, created_at
		FROM histories
		WHERE bot_type = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, string(tenant), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query histories: %w", err)
	}
	defer rows.Close()

	var histories []*models.History
	for rows.Next() {
		history, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		histories = append(histories, history)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return histories, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHistory(row rowScanner) (*models.History, error) {
	history := &models.History{}
	var (
		results []byte
		users   []byte
		space   []byte
		botType string
	)

	err := row.Scan(
		&history.ID,
		&history.Question,
		&history.Answer,
		&history.SimilarityScore,
		&results,
		&users,
		&space,
		&botType,
		&history.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		if err := json.Unmarshal(results, &history.SimilarityResults); err != nil {
			return nil, fmt.Errorf("failed to unmarshal similarity results: %w", err)
		}
	}
	history.Users = json.RawMessage(users)
	if len(space) > 0 {
		history.Space = json.RawMessage(space)
	}
	history.BotType = models.Tenant(botType)

	return history, nil
}

// marshalResults serializes the sources projection for the JSONB column,
// keeping NULL for "no matches" rather than an empty array.
func marshalResults(sources []models.Source) (any, error) {
	if sources == nil {
		return nil, nil
	}
	data, err := json.Marshal(sources)
	if err != nil {
		return nil, err
	}
	return data, nil
}
