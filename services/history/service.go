// Package history owns the append-only record of question/answer exchanges.
// Nothing else writes history rows; the orchestrator only requests creation.
package history

import (
	"context"
	"encoding/json"

	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/repositories"
	"github.com/nusanet/nusarag/services"
	"go.uber.org/zap"
)

// Service is the history recorder.
type Service struct {
	histories repositories.HistoryRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewService creates a history recorder.
func NewService(histories repositories.HistoryRepository, txManager repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		histories: histories,
		txManager: txManager,
		logger:    logger,
	}
}

// Record persists one exchange inside a single transaction: the insert and
// the read-back of the server-assigned id/created_at commit as one unit.
// The top match's score is recorded, or NULL when matches is empty.
func (s *Service) Record(ctx context.Context, question, answer string, tenant models.Tenant, users, space json.RawMessage, matches []models.ScoredMatch) (*models.History, error) {
	record := models.NewHistory(question, answer, tenant, users, space).WithMatches(matches)

	err := s.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		return s.histories.Insert(txCtx, record)
	})
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypePersistence,
			"failed to record history", err)
	}

	s.logger.Info("history recorded",
		zap.Int64("id", record.ID),
		zap.String("bot_type", string(record.BotType)),
		zap.Int("sources", len(record.SimilarityResults)))
	return record, nil
}

// ListByTenant returns the newest records for one tenant.
func (s *Service) ListByTenant(ctx context.Context, tenant models.Tenant, limit, offset int) ([]*models.History, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.histories.ListByTenant(ctx, tenant, limit, offset)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypePersistence,
			"failed to list histories", err)
	}
	return records, nil
}
