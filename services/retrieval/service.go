// Package retrieval runs the scored nearest-neighbor search for one tenant's
// corpus and shapes the results for prompt assembly.
package retrieval

import (
	"context"

	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/repositories"
	"github.com/nusanet/nusarag/services"
	"github.com/nusanet/nusarag/services/corpus"
	"github.com/nusanet/nusarag/services/prompt"
	"go.uber.org/zap"
)

// Embedder converts text to a fixed-width vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service is the retriever: corpus registry + embedder + vector repository.
type Service struct {
	registry *corpus.Registry
	embedder Embedder
	vectors  repositories.VectorRepository
	topK     int
	logger   *zap.Logger
}

// NewService creates a retrieval service. topK is the process-wide search
// depth and must be positive.
func NewService(registry *corpus.Registry, embedder Embedder, vectors repositories.VectorRepository, topK int, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		embedder: embedder,
		vectors:  vectors,
		topK:     topK,
		logger:   logger,
	}
}

// Retrieve embeds the question and searches the tenant's corpus. It returns
// the context text (document contents joined best-first) and the matches in
// the same order. Zero matches is a valid outcome: the context is empty and
// the pipeline proceeds to generation.
func (s *Service) Retrieve(ctx context.Context, tenant models.Tenant, question string) (string, []models.ScoredMatch, error) {
	table, err := s.registry.Resolve(tenant)
	if err != nil {
		return "", nil, err
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", nil, services.NewDomainError(services.ErrorTypeRetrieval,
			"failed to embed question", err)
	}

	matches, err := s.vectors.SearchNearest(ctx, table, vector, s.topK)
	if err != nil {
		return "", nil, services.NewDomainError(services.ErrorTypeRetrieval,
			"nearest-neighbor search failed", err)
	}

	contents := make([]string, len(matches))
	for i, m := range matches {
		contents[i] = m.Document.Content
	}

	s.logger.Debug("retrieval completed",
		zap.String("tenant", string(tenant)),
		zap.Int("matches", len(matches)))
	return prompt.JoinContext(contents), matches, nil
}

// ScoreOrder exposes the backing store's scoring convention.
func (s *Service) ScoreOrder() models.ScoreOrder {
	return s.vectors.ScoreOrder()
}
