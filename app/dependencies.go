// Package app is the central dependency wiring point. Every collaborator is
// constructed here and injected explicitly; nothing lives in module-level
// state.
package app

import (
	"context"
	"fmt"

	"github.com/nusanet/nusarag/config"
	"github.com/nusanet/nusarag/repositories"
	"github.com/nusanet/nusarag/repositories/postgres"
	"github.com/nusanet/nusarag/services/corpus"
	"github.com/nusanet/nusarag/services/embedding"
	"github.com/nusanet/nusarag/services/generation"
	"github.com/nusanet/nusarag/services/history"
	"github.com/nusanet/nusarag/services/rag"
	"github.com/nusanet/nusarag/services/retrieval"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Histories repositories.HistoryRepository
	Vectors   repositories.VectorRepository
	TxManager repositories.TransactionManager

	// Services
	Registry  *corpus.Registry
	Embedder  *embedding.Service
	Generator *generation.Service
	Retriever *retrieval.Service
	Recorder  *history.Service
	Pipeline  *rag.Service
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection pool and, when
// configured, provisions the schema before the pipeline serves requests.
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}
	d.DB = db

	if cfg.Database.RunMigrations {
		if err := db.InitSchema(ctx, cfg.Provider.Dimensions); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Histories = postgres.NewHistoryRepository(d.DB, d.Logger)
	d.Vectors = postgres.NewVectorRepository(d.DB, d.Logger)
	d.TxManager = postgres.NewTransactionManager(d.DB, d.Logger)

	d.Logger.Info("repositories initialized")
}

// initServices builds the pipeline components and composes the orchestrator.
func (d *Dependencies) initServices(cfg *config.Config) {
	d.Registry = corpus.NewRegistry()
	d.Embedder = embedding.NewService(cfg.Provider, d.Logger)
	d.Generator = generation.NewService(cfg.Provider, d.Logger)
	d.Retriever = retrieval.NewService(d.Registry, d.Embedder, d.Vectors, cfg.Retrieval.TopK, d.Logger)
	d.Recorder = history.NewService(d.Histories, d.TxManager, d.Logger)
	d.Pipeline = rag.NewService(d.Retriever, d.Generator, d.Recorder, d.Logger)

	d.Logger.Info("pipeline services initialized",
		zap.Int("top_k", cfg.Retrieval.TopK),
		zap.Int("embedding_dimensions", cfg.Provider.Dimensions))
}

// Close releases held resources.
func (d *Dependencies) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
