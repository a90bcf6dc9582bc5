// Package generation adapts an OpenAI-compatible chat completion endpoint to
// the single-turn completion call the pipeline needs.
package generation

import (
	"context"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/nusanet/nusarag/config"
	"github.com/nusanet/nusarag/services"
	"go.uber.org/zap"
)

// Service is the generation provider adapter. One blocking call per request,
// no internal retries: retry policy, if any, belongs outside the pipeline.
type Service struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewService creates a generation service from the provider configuration.
func NewService(cfg config.ProviderConfig, logger *zap.Logger) *Service {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.ChatModel,
		logger: logger,
	}
}

// NewServiceWithClient creates a generation service around an existing client.
func NewServiceWithClient(client *openai.Client, model string, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Complete sends the assembled prompt and returns the completion text.
// A provider error, a timeout, or an empty completion all fail the call.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", services.NewDomainError(services.ErrorTypeGeneration,
			"completion request failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", services.NewDomainError(services.ErrorTypeGeneration,
			"provider returned no choices", services.ErrEmptyCompletion)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", services.NewDomainError(services.ErrorTypeGeneration,
			"provider returned an empty completion", services.ErrEmptyCompletion)
	}

	s.logger.Debug("completion received",
		zap.String("model", s.model),
		zap.Int("answer_len", len(answer)),
		zap.Int("total_tokens", resp.Usage.TotalTokens))
	return answer, nil
}
