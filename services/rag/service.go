// Package rag orchestrates the retrieve-augment-persist pipeline: resolve
// the tenant's corpus, search it, assemble a grounded prompt, invoke the
// generation provider, and persist the full exchange before responding.
package rag

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nusanet/nusarag/internal/observability"
	"github.com/nusanet/nusarag/models"
	"github.com/nusanet/nusarag/services"
	"github.com/nusanet/nusarag/services/prompt"
	"go.uber.org/zap"
)

// Stage labels the sequential pipeline states. A request moves through them
// strictly in order; a failure at any stage aborts the whole request and is
// attributed to that stage.
type Stage string

const (
	StageRetrieving Stage = "retrieving"
	StageAssembling Stage = "assembling"
	StageGenerating Stage = "generating"
	StagePersisting Stage = "persisting"
)

// Retriever searches one tenant's corpus for a question.
type Retriever interface {
	Retrieve(ctx context.Context, tenant models.Tenant, question string) (string, []models.ScoredMatch, error)
}

// Generator produces an answer from an assembled prompt.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Recorder persists the exchange and returns the stored record.
type Recorder interface {
	Record(ctx context.Context, question, answer string, tenant models.Tenant, users, space json.RawMessage, matches []models.ScoredMatch) (*models.History, error)
}

// Answer is the pipeline response contract. Sources is built from the same
// projection the recorder persists, so response and record cannot diverge.
type Answer struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Sources  []models.Source `json:"sources"`
}

// Service composes the pipeline stages for one request at a time. Instances
// are safe for concurrent use: all fields are read-only after construction.
type Service struct {
	retriever Retriever
	generator Generator
	recorder  Recorder
	logger    *zap.Logger
}

// NewService creates the pipeline orchestrator.
func NewService(retriever Retriever, generator Generator, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{
		retriever: retriever,
		generator: generator,
		recorder:  recorder,
		logger:    logger,
	}
}

// Ask runs the full pipeline for one question. Stages run strictly in
// sequence with no internal retries; the first failure aborts the request.
// Either a full answer is produced and its history record committed, or the
// request fails with no partial response.
func (s *Service) Ask(ctx context.Context, tenant models.Tenant, question string, users, space json.RawMessage) (*Answer, error) {
	start := time.Now()

	s.logger.Info("pipeline started",
		zap.String("tenant", string(tenant)),
		zap.Int("question_len", len(question)))

	// Retrieving
	contextText, matches, err := s.timedRetrieve(ctx, tenant, question)
	if err != nil {
		return nil, s.fail(tenant, StageRetrieving, err)
	}
	observability.RetrievalMatches.WithLabelValues(string(tenant)).Observe(float64(len(matches)))

	// Assembling. Zero matches still assembles: the instruction policy makes
	// the model answer that nothing was found, there is no special code path.
	generationPrompt := prompt.Assemble(contextText, question)

	// Generating
	answer, err := s.timedGenerate(ctx, generationPrompt)
	if err != nil {
		return nil, s.fail(tenant, StageGenerating, err)
	}

	// Persisting. The write context is detached from caller cancellation: a
	// disconnect must not leave an answered question without its audit trail.
	record, err := s.timedRecord(context.WithoutCancel(ctx), question, answer, tenant, users, space, matches)
	if err != nil {
		return nil, s.fail(tenant, StagePersisting, err)
	}

	observability.PipelineRequestsTotal.WithLabelValues(string(tenant), "completed").Inc()
	s.logger.Info("pipeline completed",
		zap.String("tenant", string(tenant)),
		zap.Int64("history_id", record.ID),
		zap.Int("sources", len(record.SimilarityResults)),
		zap.Duration("elapsed", time.Since(start)))

	return &Answer{
		Question: question,
		Answer:   answer,
		Sources:  record.SimilarityResults,
	}, nil
}

func (s *Service) timedRetrieve(ctx context.Context, tenant models.Tenant, question string) (string, []models.ScoredMatch, error) {
	start := time.Now()
	contextText, matches, err := s.retriever.Retrieve(ctx, tenant, question)
	observability.StageDuration.WithLabelValues(string(StageRetrieving)).Observe(time.Since(start).Seconds())
	return contextText, matches, err
}

func (s *Service) timedGenerate(ctx context.Context, generationPrompt string) (string, error) {
	start := time.Now()
	answer, err := s.generator.Complete(ctx, generationPrompt)
	observability.StageDuration.WithLabelValues(string(StageGenerating)).Observe(time.Since(start).Seconds())
	return answer, err
}

func (s *Service) timedRecord(ctx context.Context, question, answer string, tenant models.Tenant, users, space json.RawMessage, matches []models.ScoredMatch) (*models.History, error) {
	start := time.Now()
	record, err := s.recorder.Record(ctx, question, answer, tenant, users, space, matches)
	observability.StageDuration.WithLabelValues(string(StagePersisting)).Observe(time.Since(start).Seconds())
	return record, err
}

// fail logs and counts a stage failure, preserving the stage and error type
// internally even though the transport surface collapses them.
func (s *Service) fail(tenant models.Tenant, stage Stage, err error) error {
	errType := services.TypeOf(err)
	observability.PipelineRequestsTotal.WithLabelValues(string(tenant), string(errType)).Inc()
	s.logger.Error("pipeline failed",
		zap.String("tenant", string(tenant)),
		zap.String("stage", string(stage)),
		zap.String("error_type", string(errType)),
		zap.Error(err))
	return err
}
