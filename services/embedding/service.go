// Package embedding adapts an OpenAI-compatible embeddings endpoint to the
// fixed-width vectors the corpus tables store.
package embedding

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"github.com/nusanet/nusarag/config"
	"github.com/nusanet/nusarag/services"
	"go.uber.org/zap"
)

// Service is the embedding provider adapter. The underlying client is safe
// for concurrent use and shared across requests.
type Service struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	logger     *zap.Logger
}

// NewService creates an embedding service from the provider configuration.
func NewService(cfg config.ProviderConfig, logger *zap.Logger) *Service {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Service{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.EmbeddingModel),
		dimensions: cfg.Dimensions,
		logger:     logger,
	}
}

// NewServiceWithClient creates an embedding service around an existing client.
func NewServiceWithClient(client *openai.Client, model string, dimensions int, logger *zap.Logger) *Service {
	return &Service{
		client:     client,
		model:      openai.EmbeddingModel(model),
		dimensions: dimensions,
		logger:     logger,
	}
}

// Embed converts text into a fixed-width vector. The returned width is
// checked against the configured dimensionality so a provider/schema mismatch
// surfaces as an error instead of a silently broken search.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          s.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeRetrieval,
			"embedding request failed", err)
	}

	if len(resp.Data) == 0 {
		return nil, services.NewDomainError(services.ErrorTypeRetrieval,
			"provider returned no embeddings", services.ErrEmbeddingFailed)
	}

	vector := resp.Data[0].Embedding
	if len(vector) != s.dimensions {
		return nil, services.NewDomainError(services.ErrorTypeRetrieval,
			fmt.Sprintf("embedding width %d does not match configured %d", len(vector), s.dimensions), nil)
	}

	return vector, nil
}

// Validate issues a probe embedding and verifies the configured width against
// what the provider actually returns. Called once at startup.
func (s *Service) Validate(ctx context.Context) error {
	if _, err := s.Embed(ctx, "dimension probe"); err != nil {
		return fmt.Errorf("embedding validation failed: %w", err)
	}
	s.logger.Info("embedding provider validated",
		zap.String("model", string(s.model)),
		zap.Int("dimensions", s.dimensions))
	return nil
}
